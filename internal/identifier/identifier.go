// Package identifier generates enrollment ids and receipt numbers.
package identifier

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

const receiptAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

var (
	enrollmentIDPattern  = regexp.MustCompile(`^ENR-[0-9A-HJKMNP-TV-Z]{26}$`)
	receiptNumberPattern = regexp.MustCompile(`^RCP-\d{8}-[2-9A-HJ-NP-Z]{8}$`)
)

// NewEnrollmentID returns a fresh ENR-<ULID> identifier.
func NewEnrollmentID() string {
	return "ENR-" + ulid.Make().String()
}

// ValidEnrollmentID reports whether id has the shape produced by NewEnrollmentID.
func ValidEnrollmentID(id string) bool {
	return enrollmentIDPattern.MatchString(id)
}

// NewReceiptNumber returns RCP-YYYYMMDD-XXXXXXXX using the date of now and a random suffix.
func NewReceiptNumber(now time.Time) string {
	return fmt.Sprintf("RCP-%s-%s", now.Format("20060102"), randomSuffix(8))
}

// ValidReceiptNumber reports whether s has the shape produced by NewReceiptNumber.
func ValidReceiptNumber(s string) bool {
	return receiptNumberPattern.MatchString(s)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// fall back to the ulid entropy source
		return ulid.Make().String()[26-n:]
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = receiptAlphabet[int(b)%len(receiptAlphabet)]
	}
	return string(out)
}
