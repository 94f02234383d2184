package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/identifier"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	"github.com/noah-isme/academy-enrollment-api/internal/repository"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/middleware/requestid"
)

type enrollmentRepository interface {
	Create(ctx context.Context, record *models.EnrollmentRecord) error
	MarkNotified(ctx context.Context, id string, patch models.NotificationPatch) error
	FindByID(ctx context.Context, id string) (*models.EnrollmentRecord, error)
}

type enrollmentNotifier interface {
	NotifyEnrollment(ctx context.Context, record *models.EnrollmentRecord) models.NotificationOutcome
	SendStudentConfirmation(ctx context.Context, enrollmentID string, summary dto.EnrollmentSummary) (string, error)
	SendAdminNotification(ctx context.Context, enrollmentID string, summary dto.EnrollmentSummary) (string, error)
}

type enrollmentRecorder interface {
	RecordEnrollment(outcome string)
}

type proofReferenceChecker interface {
	ValidReference(ref string) bool
}

// EnrollmentService validates, persists and announces enrollments.
type EnrollmentService struct {
	repo      enrollmentRepository
	notifier  enrollmentNotifier
	fees      pricing.Schedule
	proofs    proofReferenceChecker
	metrics   enrollmentRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    *zap.Logger

	now              func() time.Time
	newEnrollmentID  func() string
	newReceiptNumber func(time.Time) string
}

// NewEnrollmentService constructs EnrollmentService. proofs and metrics may be nil.
func NewEnrollmentService(repo enrollmentRepository, notifier enrollmentNotifier, fees pricing.Schedule, proofs proofReferenceChecker, metrics enrollmentRecorder, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	validate.RegisterTagNameFunc(jsonFieldName)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:             repo,
		notifier:         notifier,
		fees:             fees,
		proofs:           proofs,
		metrics:          metrics,
		validator:        validate,
		sanitizer:        bluemonday.StrictPolicy(),
		logger:           logger,
		now:              time.Now,
		newEnrollmentID:  identifier.NewEnrollmentID,
		newReceiptNumber: identifier.NewReceiptNumber,
	}
}

// Process runs validate, persist and notify for one submission.
// Only validation and persistence failures are returned; notification problems surface as response flags.
func (s *EnrollmentService) Process(ctx context.Context, req dto.ProcessEnrollmentRequest) (*dto.ProcessEnrollmentResponse, error) {
	draft := s.normalize(req.EnrollmentDraft)
	if err := s.validateDraft(draft); err != nil {
		s.record(OutcomeValidationFailed)
		return nil, err
	}

	fees, err := s.fees.Breakdown(draft.DeliveryFormat)
	if err != nil {
		s.record(OutcomeValidationFailed)
		if errors.Is(err, pricing.ErrUnknownDeliveryFormat) {
			return nil, appErrors.WithFields(appErrors.ErrValidation, "unsupported delivery format", "deliveryFormat")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrConfiguration.Code, appErrors.ErrConfiguration.Status, "fee schedule unavailable")
	}
	if req.TotalAmount != 0 && req.TotalAmount != fees.TotalAmount {
		s.logger.Info("client total differs from fee schedule",
			zap.Int64("client_total", req.TotalAmount),
			zap.Int64("total", fees.TotalAmount),
		)
	}

	now := s.now().UTC()
	record := &models.EnrollmentRecord{
		EnrollmentID:    s.newEnrollmentID(),
		ReceiptNumber:   s.newReceiptNumber(now),
		EnrollmentDraft: draft,
		FeeBreakdown:    fees,
		Status:          models.EnrollmentStatusPending,
		SubmissionDate:  now,
		EmailSent:       false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.record(OutcomePersistFailed)
		s.logger.Error("failed to persist enrollment",
			zap.String("enrollment_id", record.EnrollmentID),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, appErrors.ErrPersistence.Message)
	}
	s.record(OutcomeAccepted)
	s.logger.Info("enrollment persisted",
		zap.String("enrollment_id", record.EnrollmentID),
		zap.String("receipt_number", record.ReceiptNumber),
		zap.String("delivery_format", string(record.DeliveryFormat)),
		zap.String("request_id", requestid.FromContext(ctx)),
	)

	outcome := s.notifier.NotifyEnrollment(ctx, record)
	if outcome.Student.Sent {
		patch := models.NotificationPatch{
			EmailSent:      true,
			StudentEmailID: outcome.Student.MessageID,
			UpdatedAt:      s.now().UTC(),
		}
		if outcome.Admin.Sent {
			patch.AdminEmailID = outcome.Admin.MessageID
		}
		if err := s.repo.MarkNotified(context.WithoutCancel(ctx), record.EnrollmentID, patch); err != nil {
			s.logger.Warn("failed to record email status",
				zap.String("enrollment_id", record.EnrollmentID),
				zap.Error(err),
			)
		}
	}

	resp := &dto.ProcessEnrollmentResponse{
		Success:       true,
		EnrollmentID:  record.EnrollmentID,
		ReceiptNumber: record.ReceiptNumber,
		EmailSent:     outcome.Student.Sent,
		AdminNotified: outcome.Admin.Sent,
		TotalAmount:   record.TotalAmount,
		Message:       "Enrollment submitted successfully. A confirmation email has been sent.",
	}
	if !resp.EmailSent {
		resp.Message = "Enrollment submitted successfully. We could not send your confirmation email; please contact support if you do not hear from us."
	}
	return resp, nil
}

// Get returns a persisted enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentRecord, error) {
	if !identifier.ValidEnrollmentID(id) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return record, nil
}

// ResendStudentConfirmation sends one student email from an already assembled payload.
func (s *EnrollmentService) ResendStudentConfirmation(ctx context.Context, req dto.LegacyNotificationRequest) (*dto.LegacySubmitResponse, error) {
	summary := s.prepareSummary(req.EnrollmentData)
	id, err := s.notifier.SendStudentConfirmation(ctx, req.EnrollmentID, summary)
	if err != nil {
		return nil, err
	}
	return &dto.LegacySubmitResponse{
		Success:      true,
		EmailID:      id,
		EnrollmentID: req.EnrollmentID,
		Message:      "Confirmation email sent successfully",
	}, nil
}

// NotifyAdmin sends one admin email from an already assembled payload.
func (s *EnrollmentService) NotifyAdmin(ctx context.Context, req dto.LegacyNotificationRequest) (*dto.LegacyNotifyAdminResponse, error) {
	summary := s.prepareSummary(req.EnrollmentData)
	if _, err := s.notifier.SendAdminNotification(ctx, req.EnrollmentID, summary); err != nil {
		return nil, err
	}
	return &dto.LegacyNotifyAdminResponse{
		Success: true,
		Message: "Admin notification sent successfully",
	}, nil
}

func (s *EnrollmentService) prepareSummary(in dto.EnrollmentSummary) dto.EnrollmentSummary {
	out := in
	out.EnrollmentDraft = s.normalize(in.EnrollmentDraft)
	if out.TotalAmount == 0 {
		if fees, err := s.fees.Breakdown(out.DeliveryFormat); err == nil {
			out.FeeBreakdown = fees
		}
	}
	return out
}

func (s *EnrollmentService) validateDraft(draft models.EnrollmentDraft) error {
	var fieldErrs []string
	if err := s.validator.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
		}
		missing, invalid := splitValidationErrors(verrs)
		switch {
		case len(missing) > 0 && len(invalid) > 0:
			return appErrors.WithFields(appErrors.ErrValidation,
				fmt.Sprintf("Missing required fields: %s; invalid fields: %s", strings.Join(missing, ", "), strings.Join(invalid, ", ")),
				append(missing, invalid...)...)
		case len(missing) > 0:
			return appErrors.WithFields(appErrors.ErrValidation, "Missing required fields: "+strings.Join(missing, ", "), missing...)
		default:
			fieldErrs = invalid
		}
	}
	if draft.PaymentProof != nil && draft.PaymentProof.Reference != "" && s.proofs != nil && !s.proofs.ValidReference(draft.PaymentProof.Reference) {
		fieldErrs = append(fieldErrs, "paymentProof")
	}
	if len(fieldErrs) > 0 {
		return appErrors.WithFields(appErrors.ErrValidation, "Invalid fields: "+strings.Join(fieldErrs, ", "), fieldErrs...)
	}
	return nil
}

func splitValidationErrors(verrs validator.ValidationErrors) (missing, invalid []string) {
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	return missing, invalid
}

// normalize trims every text field and strips markup from free text.
func (s *EnrollmentService) normalize(d models.EnrollmentDraft) models.EnrollmentDraft {
	clean := func(v string) string {
		return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
	}
	d.FullName = clean(d.FullName)
	d.PhoneNumber = strings.TrimSpace(d.PhoneNumber)
	d.Email = strings.TrimSpace(d.Email)
	d.DateOfBirth = strings.TrimSpace(d.DateOfBirth)
	d.City = clean(d.City)
	d.Country = clean(d.Country)
	d.Program = clean(d.Program)
	d.DeliveryFormat = models.DeliveryFormat(strings.ToLower(strings.TrimSpace(string(d.DeliveryFormat))))
	d.HasBusiness = models.YesNo(strings.ToLower(strings.TrimSpace(string(d.HasBusiness))))
	d.BusinessName = clean(d.BusinessName)
	d.Expectations = clean(d.Expectations)
	d.PaymentMethod = models.PaymentMethod(strings.ToLower(strings.TrimSpace(string(d.PaymentMethod))))
	d.PaymentReference = clean(d.PaymentReference)
	d.Signature = clean(d.Signature)
	d.SignatureDate = strings.TrimSpace(d.SignatureDate)
	if d.PaymentProof != nil {
		proof := *d.PaymentProof
		proof.FileName = clean(proof.FileName)
		proof.Reference = strings.TrimSpace(proof.Reference)
		if proof.FileName == "" && proof.Reference == "" {
			d.PaymentProof = nil
		} else {
			d.PaymentProof = &proof
		}
	}
	return d
}

func (s *EnrollmentService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordEnrollment(outcome)
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
