package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/identifier"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
)

// DefaultConfirmationDelay is how long the confirmation panel stays up before the wizard closes.
const DefaultConfirmationDelay = 5 * time.Second

var (
	// ErrBusy is returned for input received outside the editing phase.
	ErrBusy = errors.New("wizard is not accepting input")
	// ErrStepInvalid is returned when the current step fails validation.
	ErrStepInvalid = errors.New("current step has validation errors")
)

// Submitter performs the process call.
type Submitter interface {
	Submit(ctx context.Context, req dto.ProcessEnrollmentRequest) (*dto.ProcessEnrollmentResponse, error)
}

// Machine drives State through the wizard and owns the single in-flight submission.
type Machine struct {
	mu        sync.Mutex
	state     State
	submitter Submitter
	fees      pricing.Schedule
	logger    *zap.Logger
	now       func() time.Time

	ConfirmationDelay time.Duration
}

// NewMachine constructs a machine positioned at step 1.
func NewMachine(submitter Submitter, fees pricing.Schedule, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Machine{
		submitter:         submitter,
		fees:              fees,
		logger:            logger,
		now:               time.Now,
		ConfirmationDelay: DefaultConfirmationDelay,
	}
	m.state = New(m.now())
	return m
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Update applies fn to the draft while editing.
func (m *Machine) Update(fn func(d *models.EnrollmentDraft)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseEditing {
		return ErrBusy
	}
	next := m.state.clone()
	fn(&next.Draft)
	m.state = next
	return nil
}

// Total returns the fee breakdown for the selected delivery format.
func (m *Machine) Total() (models.FeeBreakdown, error) {
	m.mu.Lock()
	format := m.state.Draft.DeliveryFormat
	m.mu.Unlock()
	return m.fees.Breakdown(format)
}

// Continue validates the current step, advancing or submitting on the last step.
func (m *Machine) Continue(ctx context.Context) (State, error) {
	m.mu.Lock()
	phase, step := m.state.Phase, m.state.Step
	if phase == PhaseEditing && step != LastStep {
		m.state = Advance(m.state)
	}
	snapshot := m.state.clone()
	m.mu.Unlock()

	switch {
	case phase != PhaseEditing:
		return snapshot, ErrBusy
	case step == LastStep:
		return m.Submit(ctx)
	case !snapshot.Valid():
		return snapshot, ErrStepInvalid
	}
	return snapshot, nil
}

// Back returns to the previous step.
func (m *Machine) Back() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseEditing {
		return m.state.clone(), ErrBusy
	}
	m.state = Retreat(m.state)
	return m.state.clone(), nil
}

// Submit re-validates the agreement, posts the assembled payload and records the outcome.
// The submitting phase blocks every other transition until the call returns.
func (m *Machine) Submit(ctx context.Context) (State, error) {
	req, snapshot, err := m.beginSubmit()
	if err != nil {
		return snapshot, err
	}

	resp, err := m.submitter.Submit(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.logger.Warn("enrollment submission failed", zap.Error(err))
		m.state.Phase = PhaseEditing
		m.state.SubmitError = err.Error()
		return m.state.clone(), err
	}
	m.state.Phase = PhaseConfirmed
	m.state.Result = resp
	return m.state.clone(), nil
}

func (m *Machine) beginSubmit() (dto.ProcessEnrollmentRequest, State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseEditing {
		return dto.ProcessEnrollmentRequest{}, m.state.clone(), ErrBusy
	}
	if errs := ValidateStep(StepAgreement, m.state.Draft); len(errs) > 0 {
		m.state = m.state.clone()
		m.state.Errors = errs
		if _, bad := errs["signature"]; bad && m.state.Draft.Signature != "" {
			return dto.ProcessEnrollmentRequest{}, m.state.clone(), appErrors.ErrSignatureMismatch
		}
		return dto.ProcessEnrollmentRequest{}, m.state.clone(), ErrStepInvalid
	}
	req, err := m.buildRequest(m.state.Draft)
	if err != nil {
		m.state.SubmitError = err.Error()
		return dto.ProcessEnrollmentRequest{}, m.state.clone(), err
	}
	m.state.Phase = PhaseSubmitting
	m.state.Errors = nil
	m.state.SubmitError = ""
	return req, m.state.clone(), nil
}

// Finish keeps the confirmation visible for ConfirmationDelay, then resets and closes.
func (m *Machine) Finish(ctx context.Context) error {
	if m.State().Phase != PhaseConfirmed {
		return ErrBusy
	}
	timer := time.NewTimer(m.ConfirmationDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	m.Close()
	return ctx.Err()
}

// Close discards the draft and closes the wizard. A submission in flight is left to finish.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase == PhaseSubmitting {
		return
	}
	m.state = New(m.now())
	m.state.Phase = PhaseClosed
}

func (m *Machine) buildRequest(d models.EnrollmentDraft) (dto.ProcessEnrollmentRequest, error) {
	fees, err := m.fees.Breakdown(d.DeliveryFormat)
	if err != nil {
		return dto.ProcessEnrollmentRequest{}, appErrors.Wrap(err, appErrors.ErrConfiguration.Code, appErrors.ErrConfiguration.Status, "cannot price the selected delivery format")
	}
	return dto.ProcessEnrollmentRequest{
		EnrollmentDraft: d,
		RegistrationFee: fees.RegistrationFee,
		CourseFee:       fees.CourseFee,
		TotalAmount:     fees.TotalAmount,
		ReceiptNumber:   identifier.NewReceiptNumber(m.now()),
	}, nil
}
