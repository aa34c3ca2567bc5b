package signupform

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPaymentPending is returned by Next on the payment step: advancing
	// to Confirmation only happens through CompletePayment, after the caller
	// has run the create-intent / confirm-with-gateway / report-back chain.
	ErrPaymentPending = errors.New("payment flow not completed")

	// ErrStepInvalid is returned by Next when the current step fails
	// validation; Errors holds the per-field messages.
	ErrStepInvalid = errors.New("current step is not valid")
)

// Machine drives the linear five-step signup form. It is an explicit,
// serializable state object mutated only through its methods; it is not safe
// for concurrent use (it models a single user's form session).
type Machine struct {
	step       Step
	data       Data
	errors     map[string]string
	stepValid  [StepCount]bool
	submitting bool
	submitErr  string
	completion *Completion
	store      Persister
}

// New returns a machine restored from the persister's snapshot when one
// exists, otherwise an empty form at the Personal step. Validation state is
// always recomputed, never restored. A nil persister disables persistence.
func New(store Persister) *Machine {
	m := &Machine{errors: map[string]string{}, store: store}
	if store != nil {
		if raw, err := store.Load(); err == nil && len(raw) > 0 {
			if snap, err := decodeSnapshot(raw); err == nil {
				m.step = snap.Step
				m.data = snap.Data
			}
		}
	}
	m.recomputeValidity()
	return m
}

// PrefillReferral seeds the entered referral code from a ?ref= URL
// parameter and tags the signup source.
func (m *Machine) PrefillReferral(code string) {
	if code == "" {
		return
	}
	m.data.ReferredBy = code
	m.data.UTMSource = "referral"
	m.persist()
}

func (m *Machine) Step() Step          { return m.step }
func (m *Machine) Data() Data          { return m.data }
func (m *Machine) IsSubmitting() bool  { return m.submitting }
func (m *Machine) SubmitError() string { return m.submitErr }

// Errors returns the current field -> message map.
func (m *Machine) Errors() map[string]string {
	out := make(map[string]string, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	return out
}

// StepValid reports the cached validity of a step.
func (m *Machine) StepValid(s Step) bool {
	if s < 0 || s >= StepCount {
		return false
	}
	return m.stepValid[s]
}

// Completion returns the backend result once the signup finished, or nil.
func (m *Machine) Completion() *Completion { return m.completion }

// Progress returns percent complete for a progress indicator.
func (m *Machine) Progress() int {
	return int(float64(m.step+1) / float64(StepCount) * 100)
}

// UpdateField sets a single draft field by its wire name, clears any error
// recorded for that field, and revalidates the current step. Interests take
// a []string value, boolean flags take a bool, everything else a string.
func (m *Machine) UpdateField(field string, value any) error {
	switch field {
	case "first_name", "last_name", "email", "date_of_birth", "instagram_handle",
		"linkedin_url", "age_range", "neighborhood", "occupation", "referred_by", "utm_source":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s expects a string", field)
		}
		m.setString(field, s)
	case "interests":
		tags, ok := value.([]string)
		if !ok {
			return fmt.Errorf("field %s expects a []string", field)
		}
		m.data.Interests = tags
	case "marketing_opt_in", "terms_accepted", "card_complete":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("field %s expects a bool", field)
		}
		m.setBool(field, b)
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	delete(m.errors, field)
	m.validateCurrent(false)
	m.persist()
	return nil
}

// Next validates the current step and advances by one on success. On the
// payment step it never advances synchronously; it reports ErrPaymentPending
// until CompletePayment has recorded the backend result. Confirmation is
// terminal.
func (m *Machine) Next() error {
	if m.step == StepConfirmation {
		return nil
	}
	if !m.validateCurrent(true) {
		return ErrStepInvalid
	}
	if m.step == StepPayment {
		if m.completion == nil {
			return ErrPaymentPending
		}
		m.step = StepConfirmation
		m.persist()
		return nil
	}
	m.step++
	m.persist()
	return nil
}

// Prev moves back one step; already-entered data is kept. No-op on Personal.
func (m *Machine) Prev() {
	if m.step > StepPersonal {
		m.step--
		m.persist()
	}
}

// GoToStep jumps without a validation gate (deep links, resuming).
func (m *Machine) GoToStep(s Step) error {
	if s < 0 || s >= StepCount {
		return fmt.Errorf("no such step %d", s)
	}
	m.step = s
	m.persist()
	return nil
}

// BeginSubmit marks the payment flow as in flight.
func (m *Machine) BeginSubmit() {
	m.submitting = true
	m.submitErr = ""
}

// FailSubmit records a payment-flow failure and keeps the form on the
// Payment step so the user can retry without losing entered data.
func (m *Machine) FailSubmit(msg string) {
	m.submitting = false
	m.submitErr = msg
}

// CompletePayment records the backend result and advances to Confirmation.
func (m *Machine) CompletePayment(c Completion) {
	m.submitting = false
	m.submitErr = ""
	m.completion = &c
	m.step = StepConfirmation
	m.persist()
}

// Reset clears the draft and returns to Personal for a fresh submission
// cycle.
func (m *Machine) Reset() {
	m.data = Data{}
	m.step = StepPersonal
	m.errors = map[string]string{}
	m.stepValid = [StepCount]bool{}
	m.submitting = false
	m.submitErr = ""
	m.completion = nil
	m.persist()
}

// validateCurrent revalidates the current step. When record is true the
// per-field messages replace the error map entries for that step's fields.
func (m *Machine) validateCurrent(record bool) bool {
	errs := ValidateStep(m.step, &m.data, time.Now())
	if m.step < StepConfirmation {
		m.stepValid[m.step] = len(errs) == 0
	}
	if record {
		for field, msg := range errs {
			m.errors[field] = msg
		}
	}
	return len(errs) == 0
}

func (m *Machine) recomputeValidity() {
	now := time.Now()
	for s := StepPersonal; s <= StepPayment; s++ {
		m.stepValid[s] = len(ValidateStep(s, &m.data, now)) == 0
	}
}

func (m *Machine) setString(field, v string) {
	switch field {
	case "first_name":
		m.data.FirstName = v
	case "last_name":
		m.data.LastName = v
	case "email":
		m.data.Email = v
	case "date_of_birth":
		m.data.DateOfBirth = v
	case "instagram_handle":
		m.data.InstagramHandle = v
	case "linkedin_url":
		m.data.LinkedInURL = v
	case "age_range":
		m.data.AgeRange = v
	case "neighborhood":
		m.data.Neighborhood = v
	case "occupation":
		m.data.Occupation = v
	case "referred_by":
		m.data.ReferredBy = v
	case "utm_source":
		m.data.UTMSource = v
	}
}

func (m *Machine) setBool(field string, v bool) {
	switch field {
	case "marketing_opt_in":
		m.data.MarketingOptIn = v
	case "terms_accepted":
		m.data.TermsAccepted = v
	case "card_complete":
		m.data.CardComplete = v
	}
}
