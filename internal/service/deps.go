package service

import (
	"context"

	"bbwaitlist/internal/models"
)

// UserStore is the slice of the user repository the services need. Defined
// here so tests can swap in an in-memory store.
type UserStore interface {
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	ReferralCodeExists(code string) (bool, error)
	CreateWithPosition(u *models.User) error
	IncrementReferralCount(id uint) error
	SetStripeCustomer(id uint, customerID string) error
	SavePaymentMethod(id uint, paymentMethodID string) error
	Count() (int64, error)
}

type ReferralStore interface {
	Create(r *models.Referral) error
}

// Mailer sends the waitlist's transactional emails; always best-effort from
// the orchestrator's point of view.
type Mailer interface {
	SendWelcome(ctx context.Context, u *models.User) error
	SendReferralSuccess(ctx context.Context, referrer *models.User, refereeFirstName string) error
}
