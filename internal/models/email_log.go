package models

import "time"

const (
	EmailTypeWelcome         = "welcome"
	EmailTypeReferralSuccess = "referral_success"

	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog records every transactional email attempt, sent or failed.
type EmailLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	EmailType    string    `gorm:"size:32;not null" json:"email_type"`
	EmailAddress string    `gorm:"size:255;not null" json:"email_address"`
	Subject      string    `gorm:"size:255" json:"subject"`
	Status       string    `gorm:"size:16;not null" json:"status"`
	ProviderID   *string   `gorm:"size:64" json:"provider_id"` // message id from the dispatcher
	CreatedAt    time.Time `json:"created_at"`
}

func (EmailLog) TableName() string { return "email_logs" }
