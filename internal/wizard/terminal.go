package wizard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
)

const backCommand = "back"

// ProofUploader sends a local proof-of-payment file to the server.
type ProofUploader interface {
	UploadProof(ctx context.Context, path string) (*dto.PaymentProofUploadResponse, error)
}

type prompt struct {
	field string
	label string
	value func(d models.EnrollmentDraft) string
	apply func(d *models.EnrollmentDraft, input string)
}

// TerminalRunner renders the wizard as line prompts.
type TerminalRunner struct {
	machine  *Machine
	uploader ProofUploader
	in       *bufio.Reader
	out      io.Writer
	program  string
	support  string
}

// NewTerminalRunner wires a machine to the given input and output.
func NewTerminalRunner(machine *Machine, uploader ProofUploader, in io.Reader, out io.Writer, program, support string) *TerminalRunner {
	return &TerminalRunner{
		machine:  machine,
		uploader: uploader,
		in:       bufio.NewReader(in),
		out:      out,
		program:  program,
		support:  support,
	}
}

// Run drives the wizard until it closes. Input EOF cancels the wizard.
func (r *TerminalRunner) Run(ctx context.Context) error {
	if r.program != "" {
		_ = r.machine.Update(func(d *models.EnrollmentDraft) { d.Program = r.program })
	}
	for {
		st := r.machine.State()
		if st.Phase == PhaseClosed {
			return nil
		}
		fmt.Fprintf(r.out, "\nStep %d of %d: %s\n", st.Step, LastStep, st.Step.Title())
		if st.Step >= StepPaymentInfo {
			if fees, err := r.machine.Total(); err == nil {
				fmt.Fprintf(r.out, "Total due: %s (registration %s + course %s)\n",
					pricing.FormatNaira(fees.TotalAmount), pricing.FormatNaira(fees.RegistrationFee), pricing.FormatNaira(fees.CourseFee))
			}
		}

		back, err := r.collect(ctx, st.Step)
		if err != nil {
			r.machine.Close()
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nEnrollment cancelled.")
				return nil
			}
			return err
		}
		if back {
			_, _ = r.machine.Back()
			continue
		}

		if st.Step == LastStep {
			fmt.Fprintln(r.out, "Submitting enrollment...")
		}
		next, err := r.machine.Continue(ctx)
		switch {
		case errors.Is(err, ErrStepInvalid), errors.Is(err, appErrors.ErrSignatureMismatch):
			r.printErrors(next.Errors)
		case err != nil:
			fmt.Fprintf(r.out, "Submission failed: %s\n", next.SubmitError)
		case next.Phase == PhaseConfirmed:
			r.printConfirmation(next)
			return r.machine.Finish(ctx)
		}
	}
}

func (r *TerminalRunner) collect(ctx context.Context, step Step) (bool, error) {
	fmt.Fprintf(r.out, "(type %q to go back, leave blank to keep the current value)\n", backCommand)
	for _, p := range promptsFor(step) {
		current := p.value(r.machine.State().Draft)
		input, err := r.ask(p.label, current)
		if err != nil {
			return false, err
		}
		if strings.EqualFold(input, backCommand) {
			return true, nil
		}
		if input == "" {
			continue
		}
		if p.field == "paymentProof" {
			if err := r.upload(ctx, input); err != nil {
				fmt.Fprintf(r.out, "  upload failed: %v\n", err)
			}
			continue
		}
		_ = r.machine.Update(func(d *models.EnrollmentDraft) { p.apply(d, input) })
	}
	return false, nil
}

func (r *TerminalRunner) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(r.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(r.out, "%s: ", label)
	}
	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *TerminalRunner) upload(ctx context.Context, path string) error {
	if r.uploader == nil {
		return errors.New("uploads are not available")
	}
	resp, err := r.uploader.UploadProof(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  uploaded %s (%s)\n", resp.FileName, resp.MimeType)
	return r.machine.Update(func(d *models.EnrollmentDraft) {
		d.PaymentProof = &models.PaymentProof{FileName: resp.FileName, Reference: resp.Reference}
	})
}

func (r *TerminalRunner) printErrors(errs Errors) {
	for _, p := range allPrompts() {
		if msg, ok := errs[p.field]; ok {
			fmt.Fprintf(r.out, "  ! %s: %s\n", p.label, msg)
		}
	}
}

func (r *TerminalRunner) printConfirmation(st State) {
	res := st.Result
	fmt.Fprintln(r.out, "\nEnrollment submitted!")
	if res == nil {
		return
	}
	fmt.Fprintf(r.out, "Enrollment ID:  %s\nReceipt number: %s\nTotal:          %s\n",
		res.EnrollmentID, res.ReceiptNumber, pricing.FormatNaira(res.TotalAmount))
	if res.EmailSent {
		fmt.Fprintf(r.out, "A confirmation email has been sent to %s.\n", st.Draft.Email)
		return
	}
	fmt.Fprint(r.out, "We could not send your confirmation email. ")
	if r.support != "" {
		fmt.Fprintf(r.out, "Please contact %s and quote your receipt number.\n", r.support)
	} else {
		fmt.Fprintln(r.out, "Please contact support and quote your receipt number.")
	}
}

func promptsFor(step Step) []prompt {
	return stepPrompts[step]
}

func allPrompts() []prompt {
	var out []prompt
	for step := FirstStep; step <= LastStep; step++ {
		out = append(out, stepPrompts[step]...)
	}
	return out
}

func yes(input string) bool {
	switch strings.ToLower(input) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

func boolText(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

var stepPrompts = map[Step][]prompt{
	StepPersonalInfo: {
		{"fullName", "Full name", func(d models.EnrollmentDraft) string { return d.FullName }, func(d *models.EnrollmentDraft, v string) { d.FullName = v }},
		{"phoneNumber", "Phone number", func(d models.EnrollmentDraft) string { return d.PhoneNumber }, func(d *models.EnrollmentDraft, v string) { d.PhoneNumber = v }},
		{"email", "Email", func(d models.EnrollmentDraft) string { return d.Email }, func(d *models.EnrollmentDraft, v string) { d.Email = v }},
		{"dateOfBirth", "Date of birth (YYYY-MM-DD)", func(d models.EnrollmentDraft) string { return d.DateOfBirth }, func(d *models.EnrollmentDraft, v string) { d.DateOfBirth = v }},
		{"city", "City", func(d models.EnrollmentDraft) string { return d.City }, func(d *models.EnrollmentDraft, v string) { d.City = v }},
		{"country", "Country", func(d models.EnrollmentDraft) string { return d.Country }, func(d *models.EnrollmentDraft, v string) { d.Country = v }},
	},
	StepCourseSelection: {
		{"deliveryFormat", "Delivery format (in-class/online)", func(d models.EnrollmentDraft) string { return string(d.DeliveryFormat) }, func(d *models.EnrollmentDraft, v string) {
			d.DeliveryFormat = models.DeliveryFormat(strings.ToLower(v))
		}},
	},
	StepBusinessBackground: {
		{"hasBusiness", "Do you run a business? (yes/no)", func(d models.EnrollmentDraft) string { return string(d.HasBusiness) }, func(d *models.EnrollmentDraft, v string) {
			if yes(v) {
				d.HasBusiness = models.Yes
			} else {
				d.HasBusiness = models.No
			}
		}},
		{"businessName", "Business name (optional)", func(d models.EnrollmentDraft) string { return d.BusinessName }, func(d *models.EnrollmentDraft, v string) { d.BusinessName = v }},
		{"expectations", "What do you expect from the course?", func(d models.EnrollmentDraft) string { return d.Expectations }, func(d *models.EnrollmentDraft, v string) { d.Expectations = v }},
	},
	StepPaymentInfo: {
		{"paymentMethod", "Payment method (bank-transfer/pos-payment/online-payment)", func(d models.EnrollmentDraft) string { return string(d.PaymentMethod) }, func(d *models.EnrollmentDraft, v string) {
			d.PaymentMethod = models.PaymentMethod(strings.ToLower(v))
		}},
		{"paymentProof", "Proof of payment file path", func(d models.EnrollmentDraft) string {
			if d.PaymentProof == nil {
				return ""
			}
			return d.PaymentProof.FileName
		}, nil},
		{"paymentReference", "Payment reference (optional)", func(d models.EnrollmentDraft) string { return d.PaymentReference }, func(d *models.EnrollmentDraft, v string) { d.PaymentReference = v }},
		{"paymentConfirmed", "I confirm I have paid the total amount (yes/no)", func(d models.EnrollmentDraft) string { return boolText(d.PaymentConfirmed) }, func(d *models.EnrollmentDraft, v string) { d.PaymentConfirmed = yes(v) }},
	},
	StepAgreement: {
		{"agreeToTerms", "I agree to the terms and conditions (yes/no)", func(d models.EnrollmentDraft) string { return boolText(d.AgreeToTerms) }, func(d *models.EnrollmentDraft, v string) { d.AgreeToTerms = yes(v) }},
		{"agreeToRefundPolicy", "I agree to the refund policy (yes/no)", func(d models.EnrollmentDraft) string { return boolText(d.AgreeToRefundPolicy) }, func(d *models.EnrollmentDraft, v string) { d.AgreeToRefundPolicy = yes(v) }},
		{"signature", "Signature (type your full name)", func(d models.EnrollmentDraft) string { return d.Signature }, func(d *models.EnrollmentDraft, v string) { d.Signature = v }},
		{"signatureDate", "Signature date", func(d models.EnrollmentDraft) string { return d.SignatureDate }, func(d *models.EnrollmentDraft, v string) { d.SignatureDate = v }},
	},
}
