package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"bbwaitlist/config"
	"bbwaitlist/internal/models"
	"bbwaitlist/pkg/payment"

	"gorm.io/gorm"
)

var (
	ErrEmailExists = errors.New("an account with this email already exists")
)

// StepStatus classifies each best-effort sub-step of a signup so callers and
// tests can see which side effects actually ran.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

type StepResult struct {
	Status StepStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// Best-effort step names in SignupResult.Steps.
const (
	StepPaymentSetup  = "payment_setup"
	StepReferralLink  = "referral_link"
	StepWelcomeEmail  = "welcome_email"
	StepReferralEmail = "referral_email"
)

type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	DateOfBirth     time.Time
	InstagramHandle string
	LinkedInURL     string
	AgeRange        string
	Neighborhood    string
	Occupation      string
	Interests       []string
	MarketingOptIn  bool
	ReferredBy      string // referral code entered by the applicant, may be unknown

	IPAddress string
	UserAgent string
	UTMSource string
}

type SignupResult struct {
	User         *models.User
	ClientSecret string // empty when the payment branch failed; re-drivable later
	Steps        map[string]StepResult
}

// SignupService orchestrates a waitlist signup: duplicate check, referral
// code, position, attribution, insert, then the best-effort tail (payment
// pre-setup, referral edge, emails).
type SignupService struct {
	cfg       *config.WaitlistConfig
	users     UserStore
	referrals ReferralStore
	gateway   payment.Gateway // nil disables payment pre-setup
	mailer    Mailer          // nil disables email dispatch

	rngMu sync.Mutex // rand.Rand is not safe for concurrent use
	rng   *rand.Rand
	now   func() time.Time
}

func NewSignupService(cfg *config.WaitlistConfig, users UserStore, referrals ReferralStore, gateway payment.Gateway, mailer Mailer) *SignupService {
	return &SignupService{
		cfg:       cfg,
		users:     users,
		referrals: referrals,
		gateway:   gateway,
		mailer:    mailer,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// Submit runs the orchestration. Duplicate email and store errors on the
// required path abort the whole call; failures in the payment / referral
// edge / email tail are logged, recorded in Steps, and never surfaced as
// errors. There is no cross-system rollback.
func (s *SignupService) Submit(ctx context.Context, in SignupInput) (*SignupResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// 1. Duplicate email check: nothing is created on conflict.
	_, err := s.users.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("email lookup: %w", err)
	}

	// 2. Own referral code, unique or timestamp-suffixed.
	code, err := s.uniqueReferralCode(in.FirstName)
	if err != nil {
		return nil, fmt.Errorf("referral code: %w", err)
	}

	// 4. Referral attribution. Unknown or empty codes never block a signup;
	// the code is a growth nudge, not a gate.
	var referrer *models.User
	referredBy := strings.ToUpper(strings.TrimSpace(in.ReferredBy))
	if referredBy != "" {
		referrer, err = s.users.GetByReferralCode(referredBy)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[signup] referrer lookup failed for code %s: %v", referredBy, err)
			}
			referrer = nil
		}
		if referrer != nil {
			if err := s.users.IncrementReferralCount(referrer.ID); err != nil {
				log.Printf("[signup] referral count increment failed for user %d: %v", referrer.ID, err)
			} else {
				referrer.ReferralCount++
			}
		}
	}

	// 3+5. Insert with position = count+1, assigned inside the store's
	// transaction.
	u := &models.User{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          email,
		DateOfBirth:    in.DateOfBirth,
		AgeRange:       in.AgeRange,
		Neighborhood:   in.Neighborhood,
		Occupation:     strings.TrimSpace(in.Occupation),
		Interests:      in.Interests,
		MarketingOptIn: in.MarketingOptIn,
		ReferralCode:   code,
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
	}
	if h := strings.TrimPrefix(strings.TrimSpace(in.InstagramHandle), "@"); h != "" {
		u.InstagramHandle = &h
	}
	if l := strings.TrimSpace(in.LinkedInURL); l != "" {
		u.LinkedInURL = &l
	}
	if referredBy != "" {
		u.ReferredBy = &referredBy
	}
	if in.UTMSource != "" {
		utm := in.UTMSource
		u.UTMSource = &utm
	}
	if err := s.users.CreateWithPosition(u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	res := &SignupResult{User: u, Steps: map[string]StepResult{}}

	// 6. Payment pre-setup (best effort).
	res.Steps[StepPaymentSetup] = s.setupPayment(ctx, u, res)

	// 7. Referral edge (best effort).
	if referrer != nil {
		res.Steps[StepReferralLink] = s.linkReferral(referrer, u, referredBy)
	} else {
		res.Steps[StepReferralLink] = StepResult{Status: StepSkipped, Reason: "no referrer"}
	}

	// 8. Emails (best effort).
	res.Steps[StepWelcomeEmail] = s.sendWelcome(ctx, u)
	if referrer != nil {
		res.Steps[StepReferralEmail] = s.sendReferralSuccess(ctx, referrer, u)
	} else {
		res.Steps[StepReferralEmail] = StepResult{Status: StepSkipped, Reason: "no referrer"}
	}

	return res, nil
}

// uniqueReferralCode retries generation against the store up to the
// configured bound, then appends a timestamp to the last candidate and
// accepts it unchecked. The residual collision risk after the fallback is a
// documented trade-off, not silently handled.
func (s *SignupService) uniqueReferralCode(firstName string) (string, error) {
	attempts := s.cfg.CodeAttempts
	if attempts <= 0 {
		attempts = 10
	}
	var code string
	for i := 0; i < attempts; i++ {
		s.rngMu.Lock()
		code = GenerateReferralCode(firstName, s.rng)
		s.rngMu.Unlock()
		exists, err := s.users.ReferralCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return fmt.Sprintf("%s_%d", code, s.now().UnixMilli()), nil
}

func (s *SignupService) setupPayment(ctx context.Context, u *models.User, res *SignupResult) StepResult {
	if s.gateway == nil {
		return StepResult{Status: StepSkipped, Reason: "gateway not configured"}
	}
	customerID, err := s.gateway.CreateOrGetCustomer(ctx, u.Email, u.FullName(), "")
	if err != nil {
		log.Printf("[signup] stripe customer setup failed for user %d: %v", u.ID, err)
		return StepResult{Status: StepFailed, Reason: err.Error()}
	}
	if err := s.users.SetStripeCustomer(u.ID, customerID); err != nil {
		// The customer exists at the gateway; keep going so the client can
		// still confirm the card this session.
		log.Printf("[signup] saving stripe customer id failed for user %d: %v", u.ID, err)
	} else {
		u.StripeCustomerID = &customerID
	}
	si, err := s.gateway.CreateSetupIntent(ctx, customerID)
	if err != nil {
		log.Printf("[signup] setup intent creation failed for user %d: %v", u.ID, err)
		return StepResult{Status: StepFailed, Reason: err.Error()}
	}
	res.ClientSecret = si.ClientSecret
	return StepResult{Status: StepSucceeded}
}

func (s *SignupService) linkReferral(referrer, referee *models.User, code string) StepResult {
	err := s.referrals.Create(&models.Referral{
		ReferrerID:   referrer.ID,
		RefereeID:    referee.ID,
		ReferralCode: code,
	})
	if err != nil {
		log.Printf("[signup] referral edge creation failed (%d -> %d): %v", referrer.ID, referee.ID, err)
		return StepResult{Status: StepFailed, Reason: err.Error()}
	}
	return StepResult{Status: StepSucceeded}
}

func (s *SignupService) sendWelcome(ctx context.Context, u *models.User) StepResult {
	if s.mailer == nil {
		return StepResult{Status: StepSkipped, Reason: "mailer not configured"}
	}
	if err := s.mailer.SendWelcome(ctx, u); err != nil {
		log.Printf("[signup] welcome email failed for user %d: %v", u.ID, err)
		return StepResult{Status: StepFailed, Reason: err.Error()}
	}
	return StepResult{Status: StepSucceeded}
}

func (s *SignupService) sendReferralSuccess(ctx context.Context, referrer, referee *models.User) StepResult {
	if s.mailer == nil {
		return StepResult{Status: StepSkipped, Reason: "mailer not configured"}
	}
	if err := s.mailer.SendReferralSuccess(ctx, referrer, referee.FirstName); err != nil {
		log.Printf("[signup] referral email failed for user %d: %v", referrer.ID, err)
		return StepResult{Status: StepFailed, Reason: err.Error()}
	}
	return StepResult{Status: StepSucceeded}
}
