package wizard

import (
	"strings"

	"github.com/noah-isme/academy-enrollment-api/internal/models"
)

const requiredMessage = "This field is required"

// ValidateStep checks only the fields owned by step. An empty result means the step passes.
func ValidateStep(step Step, d models.EnrollmentDraft) Errors {
	errs := Errors{}
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = requiredMessage
		}
	}

	switch step {
	case StepPersonalInfo:
		required("fullName", d.FullName)
		required("phoneNumber", d.PhoneNumber)
		required("email", d.Email)
		if _, missing := errs["email"]; !missing && !strings.Contains(d.Email, "@") {
			errs["email"] = "Enter a valid email address"
		}
		required("dateOfBirth", d.DateOfBirth)
		required("city", d.City)
	case StepCourseSelection:
		if d.DeliveryFormat == "" {
			errs["deliveryFormat"] = "Please choose a delivery format"
		} else if !d.DeliveryFormat.Valid() {
			errs["deliveryFormat"] = "Unknown delivery format"
		}
	case StepBusinessBackground:
		required("expectations", d.Expectations)
	case StepPaymentInfo:
		if d.PaymentMethod == "" {
			errs["paymentMethod"] = "Please choose a payment method"
		} else if !d.PaymentMethod.Valid() {
			errs["paymentMethod"] = "Unknown payment method"
		}
		if d.PaymentProof == nil || strings.TrimSpace(d.PaymentProof.FileName) == "" {
			errs["paymentProof"] = "Please upload your proof of payment"
		}
		if d.PaymentMethod == models.PaymentBankTransfer && !d.PaymentConfirmed {
			errs["paymentConfirmed"] = "Please confirm you have paid the total amount"
		}
	case StepAgreement:
		if !d.AgreeToTerms {
			errs["agreeToTerms"] = "You must agree to the terms and conditions"
		}
		if !d.AgreeToRefundPolicy {
			errs["agreeToRefundPolicy"] = "You must agree to the refund policy"
		}
		switch {
		case strings.TrimSpace(d.Signature) == "":
			errs["signature"] = "Please type your full name as signature"
		case !SignatureMatches(d.Signature, d.FullName):
			errs["signature"] = "Signature must match your full name"
		}
		required("signatureDate", d.SignatureDate)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
