package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/identifier"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
)

type submitterStub struct {
	mu       sync.Mutex
	requests []dto.ProcessEnrollmentRequest
	err      error
	release  chan struct{}
	started  chan struct{}
}

func (s *submitterStub) Submit(ctx context.Context, req dto.ProcessEnrollmentRequest) (*dto.ProcessEnrollmentResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProcessEnrollmentResponse{
		Success:       true,
		EnrollmentID:  identifier.NewEnrollmentID(),
		ReceiptNumber: req.ReceiptNumber,
		EmailSent:     true,
		AdminNotified: true,
		TotalAmount:   req.TotalAmount,
	}, nil
}

func machineAtAgreement(t *testing.T, sub Submitter) *Machine {
	t.Helper()
	m := NewMachine(sub, pricing.DefaultSchedule(), nil)
	require.NoError(t, m.Update(func(d *models.EnrollmentDraft) { *d = completeDraft() }))
	for i := 0; i < int(LastStep-FirstStep); i++ {
		_, err := m.Continue(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, StepAgreement, m.State().Step)
	return m
}

func TestMachineContinueReportsErrors(t *testing.T) {
	m := NewMachine(&submitterStub{}, pricing.DefaultSchedule(), nil)

	st, err := m.Continue(context.Background())

	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, StepPersonalInfo, st.Step)
	assert.Contains(t, st.Errors, "fullName")
}

func TestMachineSubmitAssemblesPayload(t *testing.T) {
	sub := &submitterStub{}
	m := machineAtAgreement(t, sub)

	st, err := m.Continue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, PhaseConfirmed, st.Phase)
	require.Len(t, sub.requests, 1)
	req := sub.requests[0]
	assert.Equal(t, int64(20000), req.RegistrationFee)
	assert.Equal(t, int64(500000), req.CourseFee)
	assert.Equal(t, int64(520000), req.TotalAmount)
	assert.True(t, identifier.ValidReceiptNumber(req.ReceiptNumber))
	assert.Equal(t, "Ada Lovelace", req.FullName)
	require.NotNil(t, st.Result)
	assert.True(t, st.Result.EmailSent)
}

func TestMachineSubmitRejectsSignatureMismatch(t *testing.T) {
	sub := &submitterStub{}
	m := machineAtAgreement(t, sub)
	require.NoError(t, m.Update(func(d *models.EnrollmentDraft) { d.Signature = "Ada L" }))

	st, err := m.Submit(context.Background())

	assert.True(t, errors.Is(err, appErrors.ErrSignatureMismatch))
	assert.Equal(t, PhaseEditing, st.Phase)
	assert.Contains(t, st.Errors, "signature")
	assert.Empty(t, sub.requests)
}

func TestMachineSubmitFailureStaysOnStep(t *testing.T) {
	sub := &submitterStub{err: errors.New("Missing required fields: program")}
	m := machineAtAgreement(t, sub)

	st, err := m.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, PhaseEditing, st.Phase)
	assert.Equal(t, StepAgreement, st.Step)
	assert.Equal(t, "Missing required fields: program", st.SubmitError)

	st, _ = m.Back()
	assert.Empty(t, st.SubmitError)
}

func TestMachineIgnoresInputWhileSubmitting(t *testing.T) {
	sub := &submitterStub{release: make(chan struct{}), started: make(chan struct{})}
	m := machineAtAgreement(t, sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Submit(context.Background())
	}()
	<-sub.started

	assert.Equal(t, PhaseSubmitting, m.State().Phase)
	_, err := m.Back()
	assert.ErrorIs(t, err, ErrBusy)
	_, err = m.Submit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, m.Update(func(d *models.EnrollmentDraft) { d.FullName = "x" }), ErrBusy)
	m.Close()
	assert.Equal(t, PhaseSubmitting, m.State().Phase)

	close(sub.release)
	<-done
	assert.Equal(t, PhaseConfirmed, m.State().Phase)
	assert.Len(t, sub.requests, 1)
}

func TestMachineFinishResetsAndCloses(t *testing.T) {
	m := machineAtAgreement(t, &submitterStub{})
	m.ConfirmationDelay = 10 * time.Millisecond
	_, err := m.Submit(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Finish(context.Background()))

	st := m.State()
	assert.Equal(t, PhaseClosed, st.Phase)
	assert.Equal(t, StepPersonalInfo, st.Step)
	assert.Empty(t, st.Draft.FullName)
}

func TestMachineFinishRequiresConfirmation(t *testing.T) {
	m := NewMachine(&submitterStub{}, pricing.DefaultSchedule(), nil)
	assert.ErrorIs(t, m.Finish(context.Background()), ErrBusy)
}

func TestMachineTotalFollowsDeliveryFormat(t *testing.T) {
	m := NewMachine(&submitterStub{}, pricing.DefaultSchedule(), nil)
	_, err := m.Total()
	assert.ErrorIs(t, err, pricing.ErrUnknownDeliveryFormat)

	require.NoError(t, m.Update(func(d *models.EnrollmentDraft) { d.DeliveryFormat = models.DeliveryInClass }))
	fees, err := m.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(670000), fees.TotalAmount)
}
