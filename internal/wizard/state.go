package wizard

import (
	"strings"
	"time"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
)

// Step is a wizard page, numbered from 1.
type Step int

// Wizard steps in order.
const (
	StepPersonalInfo Step = iota + 1
	StepCourseSelection
	StepBusinessBackground
	StepPaymentInfo
	StepAgreement
)

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepPersonalInfo
	LastStep  = StepAgreement
)

// Title returns the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case StepPersonalInfo:
		return "Personal Info"
	case StepCourseSelection:
		return "Course Selection"
	case StepBusinessBackground:
		return "Business Background"
	case StepPaymentInfo:
		return "Payment Info"
	case StepAgreement:
		return "Terms & Agreement"
	default:
		return ""
	}
}

// Phase describes whether the wizard accepts input.
type Phase string

// Wizard phases.
const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseConfirmed  Phase = "confirmed"
	PhaseClosed     Phase = "closed"
)

// Errors maps a draft field (json name) to a message.
type Errors map[string]string

// SignatureDateLayout is the format of the pre-filled signature date.
const SignatureDateLayout = "2006-01-02"

// State is the whole wizard state. Reducers return a new State and never mutate the input.
type State struct {
	Step        Step
	Draft       models.EnrollmentDraft
	Errors      Errors
	Phase       Phase
	Result      *dto.ProcessEnrollmentResponse
	SubmitError string
}

// New returns the initial state with today's date as signature date.
func New(now time.Time) State {
	return State{
		Step:  FirstStep,
		Draft: models.EnrollmentDraft{SignatureDate: now.Format(SignatureDateLayout)},
		Phase: PhaseEditing,
	}
}

// Valid reports whether the current step has no validation errors recorded.
func (s State) Valid() bool { return len(s.Errors) == 0 }

// Advance validates the current step and moves forward when it passes.
// The last step never advances; submission is driven by Machine.
func Advance(s State) State {
	next := s.clone()
	errs := ValidateStep(s.Step, s.Draft)
	if len(errs) > 0 {
		next.Errors = errs
		return next
	}
	next.Errors = nil
	if next.Step < LastStep {
		next.Step++
	}
	return next
}

// Retreat moves back one step and clears errors without re-validating.
func Retreat(s State) State {
	next := s.clone()
	if next.Step > FirstStep {
		next.Step--
	}
	next.Errors = nil
	next.SubmitError = ""
	return next
}

// SignatureMatches compares a typed signature to the full name ignoring case.
func SignatureMatches(signature, fullName string) bool {
	signature = strings.TrimSpace(signature)
	return signature != "" && strings.EqualFold(signature, strings.TrimSpace(fullName))
}

func (s State) clone() State {
	next := s
	if s.Errors != nil {
		next.Errors = make(Errors, len(s.Errors))
		for k, v := range s.Errors {
			next.Errors[k] = v
		}
	}
	if s.Draft.PaymentProof != nil {
		proof := *s.Draft.PaymentProof
		next.Draft.PaymentProof = &proof
	}
	return next
}
