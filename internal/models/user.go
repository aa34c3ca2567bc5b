package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringSlice stores a []string as a JSON text column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return errors.New("unsupported type for StringSlice")
}

// User is one waitlist signup. Rows are created atomically at submission of
// the payment step; there is no draft state server-side. waitlist_position
// and referral_code are assigned at creation and never change.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"first_name"`
	LastName    string    `gorm:"size:100;not null" json:"last_name"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"` // stored lowercase
	DateOfBirth time.Time `json:"date_of_birth"`

	InstagramHandle *string `gorm:"size:64" json:"instagram_handle"`
	LinkedInURL     *string `gorm:"size:255" json:"linkedin_url"`

	AgeRange       string      `gorm:"size:8;not null" json:"age_range"`
	Neighborhood   string      `gorm:"size:64;not null;index" json:"neighborhood"`
	Occupation     string      `gorm:"size:500;not null" json:"occupation"`
	Interests      StringSlice `gorm:"type:text;not null" json:"interests"`
	MarketingOptIn bool        `gorm:"default:false" json:"marketing_opt_in"`

	ReferralCode  string  `gorm:"uniqueIndex;size:32;not null" json:"referral_code"`
	ReferredBy    *string `gorm:"size:32" json:"referred_by"` // code entered at signup; never validated beyond a soft lookup
	ReferralCount int     `gorm:"not null;default:0" json:"referral_count"`

	WaitlistPosition int `gorm:"uniqueIndex;not null" json:"waitlist_position"`

	StripeCustomerID      *string `gorm:"size:64" json:"-"`
	StripePaymentMethodID *string `gorm:"size:64" json:"-"`
	PaymentCompleted      bool    `gorm:"not null;default:false" json:"payment_completed"`

	IPAddress string  `gorm:"size:64" json:"-"`
	UserAgent string  `gorm:"size:512" json:"-"`
	UTMSource *string `gorm:"size:64" json:"utm_source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string { return u.FirstName + " " + u.LastName }
