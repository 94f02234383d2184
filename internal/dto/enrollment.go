package dto

import "github.com/noah-isme/academy-enrollment-api/internal/models"

// ProcessEnrollmentRequest is the consolidated wizard payload.
// Client-computed fees and receipt number are accepted for compatibility but recomputed server side.
type ProcessEnrollmentRequest struct {
	models.EnrollmentDraft
	RegistrationFee int64  `json:"registrationFee,omitempty"`
	CourseFee       int64  `json:"courseFee,omitempty"`
	TotalAmount     int64  `json:"totalAmount,omitempty"`
	ReceiptNumber   string `json:"receiptNumber,omitempty"`
}

// ProcessEnrollmentResponse reports the persisted ids and notification outcome.
type ProcessEnrollmentResponse struct {
	Success       bool   `json:"success"`
	EnrollmentID  string `json:"enrollmentId"`
	ReceiptNumber string `json:"receiptNumber"`
	EmailSent     bool   `json:"emailSent"`
	AdminNotified bool   `json:"adminNotified"`
	TotalAmount   int64  `json:"totalAmount"`
	Message       string `json:"message"`
}

// EnrollmentSummary is the already-assembled enrollment used by the legacy endpoints.
type EnrollmentSummary struct {
	models.EnrollmentDraft
	models.FeeBreakdown
	ReceiptNumber string `json:"receiptNumber,omitempty"`
}

// LegacyNotificationRequest is the body of the submit and notify-admin endpoints.
type LegacyNotificationRequest struct {
	EnrollmentData EnrollmentSummary `json:"enrollmentData"`
	EnrollmentID   string            `json:"enrollmentId"`
}

// LegacySubmitResponse is returned by the submit endpoint.
type LegacySubmitResponse struct {
	Success      bool   `json:"success"`
	EmailID      string `json:"emailId,omitempty"`
	EnrollmentID string `json:"enrollmentId"`
	Message      string `json:"message"`
}

// LegacyNotifyAdminResponse is returned by the notify-admin endpoint.
type LegacyNotifyAdminResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PaymentProofUploadResponse describes a stored proof of payment.
type PaymentProofUploadResponse struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}
