package models

import "time"

// DeliveryFormat determines how the course is taken and which course fee applies.
type DeliveryFormat string

// Supported delivery formats.
const (
	DeliveryInClass DeliveryFormat = "in-class"
	DeliveryOnline  DeliveryFormat = "online"
)

// Valid reports whether f is one of the enumerated formats.
func (f DeliveryFormat) Valid() bool {
	return f == DeliveryInClass || f == DeliveryOnline
}

// Label returns the human readable name used in emails and receipts.
func (f DeliveryFormat) Label() string {
	switch f {
	case DeliveryInClass:
		return "In-Class (Physical)"
	case DeliveryOnline:
		return "Online (Virtual)"
	default:
		return string(f)
	}
}

// PaymentMethod captures how the student paid.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentBankTransfer  PaymentMethod = "bank-transfer"
	PaymentPOS           PaymentMethod = "pos-payment"
	PaymentOnlinePayment PaymentMethod = "online-payment"
)

// Valid reports whether m is one of the enumerated methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentBankTransfer, PaymentPOS, PaymentOnlinePayment:
		return true
	}
	return false
}

// Label returns the human readable payment method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentBankTransfer:
		return "Bank Transfer"
	case PaymentPOS:
		return "POS Payment"
	case PaymentOnlinePayment:
		return "Online Payment"
	default:
		return string(m)
	}
}

// YesNo is the has-business flag.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// EnrollmentStatus represents the lifecycle of an enrollment record.
type EnrollmentStatus string

// EnrollmentStatusPending is the only status assigned by this service.
const EnrollmentStatusPending EnrollmentStatus = "pending"

// PaymentProof references an uploaded proof-of-payment file.
type PaymentProof struct {
	FileName  string `json:"fileName"`
	Reference string `json:"reference,omitempty"`
}

// EnrollmentDraft holds everything the enrollment wizard collects.
type EnrollmentDraft struct {
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`

	Program        string         `json:"program" validate:"required"`
	DeliveryFormat DeliveryFormat `json:"deliveryFormat" validate:"required,oneof=in-class online"`

	HasBusiness  YesNo  `json:"hasBusiness,omitempty" validate:"omitempty,oneof=yes no"`
	BusinessName string `json:"businessName,omitempty"`
	Expectations string `json:"expectations,omitempty"`

	PaymentMethod    PaymentMethod `json:"paymentMethod,omitempty" validate:"omitempty,oneof=bank-transfer pos-payment online-payment"`
	PaymentProof     *PaymentProof `json:"paymentProof,omitempty"`
	PaymentReference string        `json:"paymentReference,omitempty"`
	PaymentConfirmed bool          `json:"paymentConfirmed"`

	AgreeToTerms        bool   `json:"agreeToTerms"`
	AgreeToRefundPolicy bool   `json:"agreeToRefundPolicy"`
	Signature           string `json:"signature,omitempty"`
	SignatureDate       string `json:"signatureDate,omitempty"`
}

// FeeBreakdown is the derived pricing for a delivery format, in Naira.
type FeeBreakdown struct {
	RegistrationFee int64 `json:"registrationFee"`
	CourseFee       int64 `json:"courseFee"`
	TotalAmount     int64 `json:"totalAmount"`
}

// EnrollmentRecord is the persisted enrollment document.
type EnrollmentRecord struct {
	EnrollmentID  string `json:"enrollmentId"`
	ReceiptNumber string `json:"receiptNumber"`

	EnrollmentDraft
	FeeBreakdown

	Status         EnrollmentStatus `json:"status"`
	SubmissionDate time.Time        `json:"submissionDate"`
	EmailSent      bool             `json:"emailSent"`
	StudentEmailID string           `json:"studentEmailId,omitempty"`
	AdminEmailID   string           `json:"adminEmailId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// NotificationPatch is the single post-creation mutation of a record.
type NotificationPatch struct {
	EmailSent      bool
	StudentEmailID string
	AdminEmailID   string
	UpdatedAt      time.Time
}

// Fields flattens the patch into document fields, omitting absent email ids.
func (p NotificationPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"emailSent": p.EmailSent,
		"updatedAt": p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.StudentEmailID != "" {
		fields["studentEmailId"] = p.StudentEmailID
	}
	if p.AdminEmailID != "" {
		fields["adminEmailId"] = p.AdminEmailID
	}
	return fields
}

// SendResult is the outcome of one email send.
type SendResult struct {
	Sent      bool
	MessageID string
	Err       error
}

// NotificationOutcome reports the result of the two best-effort sends.
type NotificationOutcome struct {
	Student SendResult
	Admin   SendResult
}
