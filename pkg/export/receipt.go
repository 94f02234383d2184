package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Field is one label/value row printed on a receipt.
type Field struct {
	Label string
	Value string
}

// Receipt is the printable summary of an accepted enrollment.
type Receipt struct {
	Organisation  string
	Title         string
	ReceiptNumber string
	EnrollmentID  string
	IssuedAt      time.Time
	Details       []Field
	Fees          []Field
	Total         string
	Footer        string
}

// ReceiptRenderer renders receipts into single page A4 PDFs.
type ReceiptRenderer struct{}

// NewReceiptRenderer constructs a receipt renderer.
func NewReceiptRenderer() *ReceiptRenderer {
	return &ReceiptRenderer{}
}

// Render creates the PDF document for r.
func (e *ReceiptRenderer) Render(r Receipt) ([]byte, error) {
	if r.ReceiptNumber == "" {
		return nil, fmt.Errorf("receipt number required")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(r.ReceiptNumber, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Organisation), "", 1, "C", false, 0, "")
	if r.Title != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, tr(strings.ToUpper(r.Title)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 6, "Receipt No: "+r.ReceiptNumber, "", 0, "", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+r.IssuedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Enrollment ID: "+r.EnrollmentID, "", 1, "", false, 0, "")
	pdf.Ln(4)

	table := func(heading string, rows []Field) {
		if len(rows) == 0 {
			return
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, tr(heading), "B", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, row := range rows {
			pdf.CellFormat(60, 7, tr(row.Label), "", 0, "", false, 0, "")
			pdf.MultiCell(0, 7, tr(row.Value), "", "", false)
		}
		pdf.Ln(3)
	}
	table("Student", r.Details)
	table("Fees", r.Fees)

	if r.Total != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(60, 9, "Total", "T", 0, "", false, 0, "")
		pdf.CellFormat(0, 9, tr(r.Total), "T", 1, "R", false, 0, "")
	}
	if r.Footer != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, tr(r.Footer), "", "C", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
