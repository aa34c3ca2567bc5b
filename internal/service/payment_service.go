package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bbwaitlist/pkg/payment"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSetupIncomplete = errors.New("card setup has not completed")
)

// PaymentService covers the two client-driven payment operations: re-driving
// a setup intent for a user whose initial signup branch failed, and
// confirming a completed one.
type PaymentService struct {
	users   UserStore
	gateway payment.Gateway
}

func NewPaymentService(users UserStore, gateway payment.Gateway) *PaymentService {
	return &PaymentService{users: users, gateway: gateway}
}

// CreateSetupIntent issues a fresh setup intent for an existing user,
// reusing their Stripe customer when one was recorded at signup.
func (s *PaymentService) CreateSetupIntent(ctx context.Context, userID uint) (*payment.SetupIntent, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	existing := ""
	if u.StripeCustomerID != nil {
		existing = *u.StripeCustomerID
	}
	customerID, err := s.gateway.CreateOrGetCustomer(ctx, u.Email, u.FullName(), existing)
	if err != nil {
		return nil, fmt.Errorf("stripe customer: %w", err)
	}
	if existing != customerID {
		if err := s.users.SetStripeCustomer(u.ID, customerID); err != nil {
			log.Printf("[payment] saving stripe customer id failed for user %d: %v", u.ID, err)
		}
	}

	si, err := s.gateway.CreateSetupIntent(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("setup intent: %w", err)
	}
	return si, nil
}

// ConfirmSetup verifies a setup intent server-side and records the attached
// payment method. The client's word is never trusted; the intent is
// re-fetched from the gateway and must have actually succeeded.
func (s *PaymentService) ConfirmSetup(ctx context.Context, userID uint, setupIntentID string) (string, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	si, err := s.gateway.RetrieveSetupIntent(ctx, setupIntentID)
	if err != nil {
		return "", fmt.Errorf("retrieve setup intent: %w", err)
	}
	if si.Status != payment.StatusSucceeded || si.PaymentMethodID == "" {
		return "", ErrSetupIncomplete
	}

	if err := s.users.SavePaymentMethod(u.ID, si.PaymentMethodID); err != nil {
		return "", fmt.Errorf("save payment method: %w", err)
	}
	return si.PaymentMethodID, nil
}
