package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltmpl "html/template"
	"net/mail"
	"strings"
	"sync"
	texttmpl "text/template"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/mailer"
)

//go:embed templates/*.gohtml templates/*.txt
var templateFS embed.FS

const (
	studentTemplate = "student_confirmation"
	adminTemplate   = "admin_notification"
)

type proofLinker interface {
	DownloadURL(reference string) (string, error)
}

type notificationRecorder interface {
	RecordNotification(kind, outcome string)
}

// NotificationConfig holds sender identity, recipients and the send deadline.
type NotificationConfig struct {
	AcademyName     string
	From            mail.Address
	AdminRecipients []mail.Address
	Bcc             []mail.Address
	SupportAddress  string
	SiteURL         string
	Timeout         time.Duration
}

// NotificationService renders enrollment emails and delivers them through a mailer.
type NotificationService struct {
	mailer  mailer.Mailer
	enabled bool
	cfg     NotificationConfig
	proofs  proofLinker
	metrics notificationRecorder
	logger  *zap.Logger
	html    *htmltmpl.Template
	text    *texttmpl.Template
}

// NewNotificationService parses the email templates and fixes the capability flag.
// A nil mailer or missing sender leaves the service constructed but disabled.
func NewNotificationService(m mailer.Mailer, cfg NotificationConfig, proofs proofLinker, metrics notificationRecorder, logger *zap.Logger) (*NotificationService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	html, err := htmltmpl.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse html email templates: %w", err)
	}
	text, err := texttmpl.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text email templates: %w", err)
	}

	svc := &NotificationService{
		mailer:  m,
		enabled: m != nil && cfg.From.Address != "",
		cfg:     cfg,
		proofs:  proofs,
		metrics: metrics,
		logger:  logger,
		html:    html,
		text:    text,
	}
	if !svc.enabled {
		logger.Warn("email notifications disabled", zap.Bool("mailer_configured", m != nil), zap.Bool("sender_configured", cfg.From.Address != ""))
	} else if len(cfg.AdminRecipients) == 0 {
		logger.Warn("admin notifications disabled: no recipients configured")
	}
	return svc, nil
}

// Enabled reports whether outbound email is configured.
func (s *NotificationService) Enabled() bool {
	return s != nil && s.enabled
}

// NotifyEnrollment sends the student confirmation and admin notification concurrently.
// Neither failure affects the other and no error is returned; outcomes are reported per send.
func (s *NotificationService) NotifyEnrollment(ctx context.Context, record *models.EnrollmentRecord) models.NotificationOutcome {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	summary := dto.EnrollmentSummary{
		EnrollmentDraft: record.EnrollmentDraft,
		FeeBreakdown:    record.FeeBreakdown,
		ReceiptNumber:   record.ReceiptNumber,
	}
	view := s.newView(record.EnrollmentID, summary, record.SubmissionDate)

	var (
		outcome models.NotificationOutcome
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		outcome.Student = toResult(s.sendStudent(ctx, view))
	}()
	go func() {
		defer wg.Done()
		outcome.Admin = toResult(s.sendAdmin(ctx, view))
	}()
	wg.Wait()
	return outcome
}

// SendStudentConfirmation sends the confirmation email for an already assembled enrollment.
func (s *NotificationService) SendStudentConfirmation(ctx context.Context, enrollmentID string, summary dto.EnrollmentSummary) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.sendStudent(ctx, s.newView(enrollmentID, summary, time.Now()))
}

// SendAdminNotification sends the staff notification for an already assembled enrollment.
func (s *NotificationService) SendAdminNotification(ctx context.Context, enrollmentID string, summary dto.EnrollmentSummary) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.sendAdmin(ctx, s.newView(enrollmentID, summary, time.Now()))
}

func (s *NotificationService) sendStudent(ctx context.Context, view enrollmentEmailView) (string, error) {
	if !s.Enabled() {
		s.record(NotificationStudent, OutcomeDisabled)
		return "", appErrors.ErrNotificationsDisabled
	}
	to, err := mail.ParseAddress(view.Email)
	if err != nil {
		s.record(NotificationStudent, OutcomeFailed)
		return "", appErrors.WithFields(appErrors.ErrValidation, "a valid student email is required", "email")
	}
	to.Name = view.FullName

	msg := mailer.Message{
		From:    s.cfg.From,
		To:      []mail.Address{*to},
		Bcc:     s.cfg.Bcc,
		Subject: fmt.Sprintf("Enrollment Received - %s", view.Program),
	}
	if s.cfg.SupportAddress != "" {
		msg.ReplyTo = &mail.Address{Name: s.cfg.AcademyName, Address: s.cfg.SupportAddress}
	}
	return s.deliver(ctx, NotificationStudent, studentTemplate, view, msg)
}

func (s *NotificationService) sendAdmin(ctx context.Context, view enrollmentEmailView) (string, error) {
	if !s.Enabled() || len(s.cfg.AdminRecipients) == 0 {
		s.record(NotificationAdmin, OutcomeDisabled)
		return "", appErrors.ErrNotificationsDisabled
	}
	msg := mailer.Message{
		From:    s.cfg.From,
		To:      s.cfg.AdminRecipients,
		Subject: fmt.Sprintf("New Enrollment: %s - %s", view.FullName, view.Program),
	}
	if addr, err := mail.ParseAddress(view.Email); err == nil {
		addr.Name = view.FullName
		msg.ReplyTo = addr
	}
	return s.deliver(ctx, NotificationAdmin, adminTemplate, view, msg)
}

func (s *NotificationService) deliver(ctx context.Context, kind, template string, view enrollmentEmailView, msg mailer.Message) (string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := s.html.ExecuteTemplate(&htmlBuf, template+".gohtml", view); err != nil {
		s.record(kind, OutcomeFailed)
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render email")
	}
	if err := s.text.ExecuteTemplate(&textBuf, template+".txt", view); err != nil {
		s.record(kind, OutcomeFailed)
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render email")
	}
	msg.HTML = htmlBuf.String()
	msg.Text = textBuf.String()

	id, err := s.mailer.Send(ctx, msg)
	if err != nil {
		s.record(kind, OutcomeFailed)
		s.logger.Warn("enrollment email failed",
			zap.String("kind", kind),
			zap.String("enrollment_id", view.EnrollmentID),
			zap.Error(err),
		)
		return "", appErrors.Wrap(err, appErrors.ErrNotification.Code, appErrors.ErrNotification.Status, appErrors.ErrNotification.Message)
	}
	s.record(kind, OutcomeSent)
	s.logger.Info("enrollment email sent",
		zap.String("kind", kind),
		zap.String("enrollment_id", view.EnrollmentID),
		zap.String("message_id", id),
	)
	return id, nil
}

func (s *NotificationService) record(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordNotification(kind, outcome)
	}
}

// enrollmentEmailView is the flattened data both templates render.
type enrollmentEmailView struct {
	AcademyName    string
	SiteURL        string
	SupportAddress string

	EnrollmentID  string
	ReceiptNumber string
	SubmittedAt   string

	FullName    string
	Email       string
	PhoneNumber string
	DateOfBirth string
	Location    string

	Program        string
	DeliveryFormat string

	HasBusiness  string
	BusinessName string
	Expectations string

	PaymentMethod    string
	PaymentReference string
	PaymentConfirmed bool
	ProofName        string
	ProofURL         string

	RegistrationFee string
	CourseFee       string
	TotalAmount     string
}

func (s *NotificationService) newView(enrollmentID string, e dto.EnrollmentSummary, submittedAt time.Time) enrollmentEmailView {
	view := enrollmentEmailView{
		AcademyName:      s.cfg.AcademyName,
		SiteURL:          s.cfg.SiteURL,
		SupportAddress:   s.cfg.SupportAddress,
		EnrollmentID:     enrollmentID,
		ReceiptNumber:    e.ReceiptNumber,
		SubmittedAt:      submittedAt.UTC().Format("02 Jan 2006 15:04 MST"),
		FullName:         e.FullName,
		Email:            e.Email,
		PhoneNumber:      orDefault(e.PhoneNumber, "Not provided"),
		DateOfBirth:      orDefault(e.DateOfBirth, "Not provided"),
		Location:         orDefault(joinNonEmpty(", ", e.City, e.Country), "Not provided"),
		Program:          e.Program,
		DeliveryFormat:   orDefault(e.DeliveryFormat.Label(), "Not specified"),
		BusinessName:     e.BusinessName,
		Expectations:     orDefault(e.Expectations, "Not provided"),
		PaymentMethod:    orDefault(e.PaymentMethod.Label(), "Not specified"),
		PaymentReference: e.PaymentReference,
		PaymentConfirmed: e.PaymentConfirmed,
		RegistrationFee:  pricing.FormatNaira(e.RegistrationFee),
		CourseFee:        pricing.FormatNaira(e.CourseFee),
		TotalAmount:      pricing.FormatNaira(e.TotalAmount),
	}
	switch e.HasBusiness {
	case models.Yes:
		view.HasBusiness = "Yes"
	case models.No:
		view.HasBusiness = "No"
	default:
		view.HasBusiness = "Not specified"
	}
	if e.PaymentProof != nil {
		view.ProofName = e.PaymentProof.FileName
		if e.PaymentProof.Reference != "" && s.proofs != nil {
			link, err := s.proofs.DownloadURL(e.PaymentProof.Reference)
			if err != nil {
				s.logger.Debug("payment proof link unavailable", zap.String("enrollment_id", enrollmentID), zap.Error(err))
			} else {
				view.ProofURL = link
			}
		}
	}
	return view
}

func toResult(id string, err error) models.SendResult {
	return models.SendResult{Sent: err == nil, MessageID: id, Err: err}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// IsNotificationsDisabled reports whether err means email is not configured.
func IsNotificationsDisabled(err error) bool {
	return errors.Is(err, appErrors.ErrNotificationsDisabled)
}
