// Package signupform holds the multi-step waitlist signup form: the draft
// applicant data, per-step validation, and a linear state machine that a
// client embeds to drive the five steps (Personal -> Demographics ->
// Interests -> Payment -> Confirmation).
package signupform

// Step is the 0-based form step index.
type Step int

const (
	StepPersonal Step = iota
	StepDemographics
	StepInterests
	StepPayment
	StepConfirmation
)

const StepCount = 5

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "Personal Information"
	case StepDemographics:
		return "Location & Background"
	case StepInterests:
		return "Interests & Preferences"
	case StepPayment:
		return "Payment Information"
	case StepConfirmation:
		return "Confirmation"
	}
	return "Unknown"
}

// AgeRangeOptions are the accepted age_range values.
var AgeRangeOptions = []string{"20s", "30s", "40s", "50s", "60s+"}

// NeighborhoodOptions are the accepted Miami-area values.
var NeighborhoodOptions = []string{
	"Brickell",
	"Coconut Grove",
	"Coral Gables",
	"Edgewater or Midtown",
	"South Beach",
	"Sunset Harbor",
	"Miami Beach",
	"Fort Lauderdale",
	"Boca Raton",
	"Palm Beach",
	"Other (please list)",
}

// InterestOptions are the accepted interest tags.
var InterestOptions = []string{
	"Social Events & Fitness",
	"Networking & Mentorship",
	"Business & Finance Talks",
	"Member Perks & Discounts",
}

// Data is the draft applicant profile accumulated across the steps. It
// mirrors the users table minus server-assigned fields (id, own referral
// code, position).
type Data struct {
	// Step 1: personal
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	DateOfBirth     string `json:"date_of_birth"` // YYYY-MM-DD
	InstagramHandle string `json:"instagram_handle"`
	LinkedInURL     string `json:"linkedin_url"`

	// Step 2: demographics
	AgeRange     string `json:"age_range"`
	Neighborhood string `json:"neighborhood"`
	Occupation   string `json:"occupation"`

	// Step 3: interests
	Interests      []string `json:"interests"`
	MarketingOptIn bool     `json:"marketing_opt_in"`

	// Step 4: payment & referral
	ReferredBy    string `json:"referred_by"` // code entered by the applicant
	TermsAccepted bool   `json:"terms_accepted"`
	CardComplete  bool   `json:"card_complete"` // reported by the gateway's card widget

	// Tracking
	UTMSource string `json:"utm_source"`
}

// Completion is what the backend returns once the signup succeeded; the
// confirmation step renders from it.
type Completion struct {
	UserID           uint   `json:"user_id"`
	ReferralCode     string `json:"referral_code"` // the user's own shareable code
	WaitlistPosition int    `json:"waitlist_position"`
	ClientSecret     string `json:"client_secret,omitempty"`
	SetupIntentID    string `json:"setup_intent_id,omitempty"`
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
