package service

import (
	"context"
	"testing"

	"bbwaitlist/internal/models"
	"bbwaitlist/pkg/payment"

	"github.com/stretchr/testify/require"
)

func TestConfirmSetupSucceeded(t *testing.T) {
	users := newMemUserStore()
	u := users.seed(&models.User{Email: "sarah@example.com", ReferralCode: "SARAH1234"})
	gateway := payment.NewStubGateway()
	svc := NewPaymentService(users, gateway)

	si, err := gateway.CreateSetupIntent(context.Background(), "cus_test")
	require.NoError(t, err)
	gateway.MarkSucceeded(si.ID, "pm_card_visa")

	pm, err := svc.ConfirmSetup(context.Background(), u.ID, si.ID)
	require.NoError(t, err)
	require.Equal(t, "pm_card_visa", pm)

	got, err := users.GetByID(u.ID)
	require.NoError(t, err)
	require.True(t, got.PaymentCompleted)
	require.Equal(t, "pm_card_visa", *got.StripePaymentMethodID)
}

func TestConfirmSetupNotSucceeded(t *testing.T) {
	users := newMemUserStore()
	u := users.seed(&models.User{Email: "sarah@example.com", ReferralCode: "SARAH1234"})
	gateway := payment.NewStubGateway()
	svc := NewPaymentService(users, gateway)

	si, err := gateway.CreateSetupIntent(context.Background(), "cus_test")
	require.NoError(t, err)

	// Client claims success but the intent is still pending at the gateway.
	_, err = svc.ConfirmSetup(context.Background(), u.ID, si.ID)
	require.ErrorIs(t, err, ErrSetupIncomplete)

	got, _ := users.GetByID(u.ID)
	require.False(t, got.PaymentCompleted)
	require.Nil(t, got.StripePaymentMethodID)
}

func TestConfirmSetupUnknownUser(t *testing.T) {
	users := newMemUserStore()
	svc := NewPaymentService(users, payment.NewStubGateway())

	_, err := svc.ConfirmSetup(context.Background(), 999, "seti_whatever")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateSetupIntentReusesCustomer(t *testing.T) {
	users := newMemUserStore()
	existing := "cus_existing"
	u := users.seed(&models.User{
		Email:            "sarah@example.com",
		ReferralCode:     "SARAH1234",
		StripeCustomerID: &existing,
	})
	gateway := payment.NewStubGateway()
	svc := NewPaymentService(users, gateway)

	si, err := svc.CreateSetupIntent(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "cus_existing", si.CustomerID)
	require.NotEmpty(t, si.ClientSecret)
}

func TestCreateSetupIntentBackfillsCustomer(t *testing.T) {
	users := newMemUserStore()
	u := users.seed(&models.User{Email: "sarah@example.com", ReferralCode: "SARAH1234"})
	gateway := payment.NewStubGateway()
	svc := NewPaymentService(users, gateway)

	si, err := svc.CreateSetupIntent(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, si.CustomerID)

	got, _ := users.GetByID(u.ID)
	require.NotNil(t, got.StripeCustomerID)
	require.Equal(t, si.CustomerID, *got.StripeCustomerID)
}
