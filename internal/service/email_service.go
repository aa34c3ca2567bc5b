package service

import (
	"context"
	"fmt"
	"log"

	"bbwaitlist/internal/models"
	"bbwaitlist/pkg/email"
)

// EmailLogStore records every dispatch attempt for the admin audit trail.
type EmailLogStore interface {
	Create(l *models.EmailLog) error
}

// EmailService renders and dispatches transactional email and logs each
// attempt. It satisfies Mailer.
type EmailService struct {
	dispatcher email.Dispatcher
	logs       EmailLogStore
	siteURL    string
}

func NewEmailService(dispatcher email.Dispatcher, logs EmailLogStore, siteURL string) *EmailService {
	return &EmailService{dispatcher: dispatcher, logs: logs, siteURL: siteURL}
}

func (s *EmailService) SendWelcome(ctx context.Context, u *models.User) error {
	referralURL := fmt.Sprintf("%s?ref=%s", s.siteURL, u.ReferralCode)
	subject := fmt.Sprintf("Welcome to BB Membership! You're #%d 🌟", u.WaitlistPosition)
	msg := email.Message{
		To:      u.Email,
		Subject: subject,
		HTML:    welcomeHTML(u, referralURL),
		Text: fmt.Sprintf(
			"Hi %s,\n\nYou're #%d on the BB Membership waitlist.\n\nShare your referral link to invite friends: %s\n\nYour referral code: %s\n",
			u.FirstName, u.WaitlistPosition, referralURL, u.ReferralCode,
		),
	}
	return s.dispatch(ctx, u, models.EmailTypeWelcome, msg)
}

func (s *EmailService) SendReferralSuccess(ctx context.Context, referrer *models.User, refereeFirstName string) error {
	subject := fmt.Sprintf("%s just joined through your invite 🎉", refereeFirstName)
	msg := email.Message{
		To:      referrer.Email,
		Subject: subject,
		HTML:    referralSuccessHTML(referrer, refereeFirstName),
		Text: fmt.Sprintf(
			"Hi %s,\n\n%s just joined the BB Membership waitlist with your code %s.\nYou've now referred %d friend(s). Keep sharing!\n",
			referrer.FirstName, refereeFirstName, referrer.ReferralCode, referrer.ReferralCount,
		),
	}
	return s.dispatch(ctx, referrer, models.EmailTypeReferralSuccess, msg)
}

func (s *EmailService) dispatch(ctx context.Context, u *models.User, emailType string, msg email.Message) error {
	providerID, err := s.dispatcher.Send(ctx, msg)

	entry := &models.EmailLog{
		UserID:       u.ID,
		EmailType:    emailType,
		EmailAddress: msg.To,
		Subject:      msg.Subject,
		Status:       models.EmailStatusSent,
	}
	if providerID != "" {
		entry.ProviderID = &providerID
	}
	if err != nil {
		entry.Status = models.EmailStatusFailed
	}
	if logErr := s.logs.Create(entry); logErr != nil {
		log.Printf("[email] logging %s email for user %d failed: %v", emailType, u.ID, logErr)
	}
	return err
}

func welcomeHTML(u *models.User, referralURL string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h1>Welcome to BB Membership, %s!</h1>
  <p>You're officially on the waitlist at position <strong>#%d</strong>.</p>
  <p>Want your friends to join you? Share your personal invite link:</p>
  <p><a href="%s">%s</a></p>
  <p>Your referral code: <strong>%s</strong></p>
  <p>We'll email you as soon as your membership is ready.</p>
</div>`, u.FirstName, u.WaitlistPosition, referralURL, referralURL, u.ReferralCode)
}

func referralSuccessHTML(referrer *models.User, refereeFirstName string) string {
	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <h1>Nice one, %s!</h1>
  <p><strong>%s</strong> just joined the waitlist using your code <strong>%s</strong>.</p>
  <p>You've now referred <strong>%d</strong> friend(s). Keep sharing your link!</p>
</div>`, referrer.FirstName, refereeFirstName, referrer.ReferralCode, referrer.ReferralCount)
}
