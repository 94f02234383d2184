package wizard

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
)

type uploaderStub struct {
	paths []string
}

func (u *uploaderStub) UploadProof(ctx context.Context, path string) (*dto.PaymentProofUploadResponse, error) {
	u.paths = append(u.paths, path)
	return &dto.PaymentProofUploadResponse{
		Success:   true,
		Reference: "payment-proofs/2024/03/01HZX3V6Q8M4R2K9T7N5B1C0DE.pdf",
		FileName:  "transfer.pdf",
		MimeType:  "application/pdf",
	}, nil
}

func scriptedInput(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestTerminalRunnerCompletesEnrollment(t *testing.T) {
	sub := &submitterStub{}
	uploader := &uploaderStub{}
	m := NewMachine(sub, pricing.DefaultSchedule(), nil)
	m.ConfirmationDelay = 0
	var out bytes.Buffer

	input := scriptedInput(
		// step 1, first attempt without email
		"Ada Lovelace", "+2348000000000", "", "1990-12-10", "Lagos", "Nigeria",
		// step 1 again: blank keeps values, email now supplied
		"", "", "ada@example.com", "", "", "",
		// step 2
		"online",
		// step 3
		"no", "", "Launch my own fragrance line",
		// step 4
		"bank-transfer", "/tmp/transfer.pdf", "TRX-123", "yes",
		// step 5
		"yes", "yes", "ADA LOVELACE", "",
	)

	runner := NewTerminalRunner(m, uploader, input, &out, "Commercial Perfumery Masterclass (2 Weeks)", "support@academy.test")
	require.NoError(t, runner.Run(context.Background()))

	require.Len(t, sub.requests, 1)
	req := sub.requests[0]
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "Commercial Perfumery Masterclass (2 Weeks)", req.Program)
	assert.Equal(t, int64(520000), req.TotalAmount)
	require.NotNil(t, req.PaymentProof)
	assert.Equal(t, "transfer.pdf", req.PaymentProof.FileName)
	assert.Equal(t, []string{"/tmp/transfer.pdf"}, uploader.paths)

	text := out.String()
	assert.Contains(t, text, "! Email: This field is required")
	assert.Contains(t, text, "Total due: ₦520,000")
	assert.Contains(t, text, "Enrollment submitted!")
	assert.Contains(t, text, "confirmation email has been sent to ada@example.com")
	assert.Equal(t, PhaseClosed, m.State().Phase)
}

func TestTerminalRunnerBackAndCancel(t *testing.T) {
	m := NewMachine(&submitterStub{}, pricing.DefaultSchedule(), nil)
	var out bytes.Buffer

	input := scriptedInput(
		"Ada Lovelace", "+2348000000000", "ada@example.com", "1990-12-10", "Lagos", "",
		"back",
	)
	runner := NewTerminalRunner(m, nil, input, &out, "", "")
	require.NoError(t, runner.Run(context.Background()))

	assert.Contains(t, out.String(), "Step 2 of 5: Course Selection")
	assert.Contains(t, out.String(), "Full name [Ada Lovelace]")
	assert.Contains(t, out.String(), "Enrollment cancelled.")
	assert.Equal(t, PhaseClosed, m.State().Phase)
}
