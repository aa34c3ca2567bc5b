package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bbwaitlist/internal/models"
	"bbwaitlist/pkg/email"

	"github.com/stretchr/testify/require"
)

func welcomeTestUser() *models.User {
	u := &models.User{
		ID:               7,
		FirstName:        "Sarah",
		LastName:         "Chen",
		Email:            "sarah@example.com",
		ReferralCode:     "SARAH4821",
		WaitlistPosition: 43,
	}
	return u
}

func TestSendWelcome(t *testing.T) {
	dispatcher := email.NewStubDispatcher()
	logs := &memEmailLogStore{}
	svc := NewEmailService(dispatcher, logs, "https://bbmembership.com")

	err := svc.SendWelcome(context.Background(), welcomeTestUser())
	require.NoError(t, err)

	require.Len(t, dispatcher.Sent, 1)
	msg := dispatcher.Sent[0]
	require.Equal(t, "sarah@example.com", msg.To)
	require.Contains(t, msg.Subject, "#43")
	require.Contains(t, msg.HTML, "https://bbmembership.com?ref=SARAH4821")
	require.Contains(t, msg.Text, "SARAH4821")

	require.Len(t, logs.logs, 1)
	entry := logs.logs[0]
	require.Equal(t, models.EmailTypeWelcome, entry.EmailType)
	require.Equal(t, models.EmailStatusSent, entry.Status)
	require.NotNil(t, entry.ProviderID)
	require.True(t, strings.HasPrefix(*entry.ProviderID, "stub_"))
}

func TestSendWelcomeLogsFailure(t *testing.T) {
	dispatcher := email.NewStubDispatcher()
	dispatcher.FailNext(errors.New("provider 500"))
	logs := &memEmailLogStore{}
	svc := NewEmailService(dispatcher, logs, "https://bbmembership.com")

	err := svc.SendWelcome(context.Background(), welcomeTestUser())
	require.Error(t, err)

	require.Len(t, logs.logs, 1)
	require.Equal(t, models.EmailStatusFailed, logs.logs[0].Status)
	require.Nil(t, logs.logs[0].ProviderID)
}

func TestSendReferralSuccess(t *testing.T) {
	dispatcher := email.NewStubDispatcher()
	logs := &memEmailLogStore{}
	svc := NewEmailService(dispatcher, logs, "https://bbmembership.com")

	referrer := welcomeTestUser()
	referrer.Email = "marcus@example.com"
	referrer.FirstName = "Marcus"
	referrer.ReferralCount = 3

	err := svc.SendReferralSuccess(context.Background(), referrer, "Sarah")
	require.NoError(t, err)

	require.Len(t, dispatcher.Sent, 1)
	msg := dispatcher.Sent[0]
	require.Equal(t, "marcus@example.com", msg.To)
	require.Contains(t, msg.Subject, "Sarah")
	require.Contains(t, msg.HTML, "<strong>3</strong>")
	require.Equal(t, models.EmailTypeReferralSuccess, logs.logs[0].EmailType)
}
