package models

import "time"

// Referral links one referrer to one referee. A user can be referred by
// exactly one code, captured at signup; creation is best-effort and never
// rolls back the referee's signup.
type Referral struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReferrerID   uint      `gorm:"not null;index" json:"referrer_id"`
	RefereeID    uint      `gorm:"uniqueIndex;not null" json:"referee_id"`
	ReferralCode string    `gorm:"size:32;not null" json:"referral_code"` // the code that was used
	CreatedAt    time.Time `json:"created_at"`

	Referrer User `gorm:"foreignKey:ReferrerID" json:"-"`
	Referee  User `gorm:"foreignKey:RefereeID" json:"-"`
}

func (Referral) TableName() string { return "referrals" }
