package service

import (
	"context"
	"crypto/subtle"

	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/export"
)

type enrollmentReader interface {
	Get(ctx context.Context, id string) (*models.EnrollmentRecord, error)
}

type receiptRenderer interface {
	Render(r export.Receipt) ([]byte, error)
}

// ReceiptService renders PDF receipts for persisted enrollments.
type ReceiptService struct {
	enrollments enrollmentReader
	renderer    receiptRenderer
	academyName string
}

// NewReceiptService constructs ReceiptService.
func NewReceiptService(enrollments enrollmentReader, renderer receiptRenderer, academyName string) *ReceiptService {
	if renderer == nil {
		renderer = export.NewReceiptRenderer()
	}
	return &ReceiptService{enrollments: enrollments, renderer: renderer, academyName: academyName}
}

// Render returns the receipt PDF when receiptNumber matches the stored record.
// A mismatch is reported as not found so ids cannot be probed.
func (s *ReceiptService) Render(ctx context.Context, enrollmentID, receiptNumber string) ([]byte, *models.EnrollmentRecord, error) {
	record, err := s.enrollments.Get(ctx, enrollmentID)
	if err != nil {
		return nil, nil, err
	}
	if receiptNumber == "" || subtle.ConstantTimeCompare([]byte(receiptNumber), []byte(record.ReceiptNumber)) != 1 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}

	details := []export.Field{
		{Label: "Name", Value: record.FullName},
		{Label: "Email", Value: record.Email},
		{Label: "Phone", Value: record.PhoneNumber},
		{Label: "Program", Value: record.Program},
		{Label: "Delivery format", Value: record.DeliveryFormat.Label()},
	}
	if record.PaymentMethod != "" {
		details = append(details, export.Field{Label: "Payment method", Value: record.PaymentMethod.Label()})
	}
	if record.PaymentReference != "" {
		details = append(details, export.Field{Label: "Payment reference", Value: record.PaymentReference})
	}

	pdf, err := s.renderer.Render(export.Receipt{
		Organisation:  s.academyName,
		Title:         "Enrollment Receipt",
		ReceiptNumber: record.ReceiptNumber,
		EnrollmentID:  record.EnrollmentID,
		IssuedAt:      record.SubmissionDate,
		Details:       details,
		Fees: []export.Field{
			{Label: "Registration fee", Value: pricing.FormatAmount(record.RegistrationFee)},
			{Label: "Course fee", Value: pricing.FormatAmount(record.CourseFee)},
		},
		Total:  pricing.FormatAmount(record.TotalAmount),
		Footer: "Status: " + string(record.Status) + ". Payment is subject to verification by the academy.",
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return pdf, record, nil
}
