package repository

import (
	"strings"

	"bbwaitlist/internal/models"

	"gorm.io/gorm"
)

// positionLockKey serializes position assignment across concurrent signups
// via a Postgres transaction-scoped advisory lock.
const positionLockKey = 0x62627761 // "bbwa"

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithPosition inserts the user with waitlist_position = existing row
// count + 1, computed inside one transaction that holds an advisory lock so
// two concurrent signups cannot read the same count.
func (r *UserRepository) CreateWithPosition(u *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", positionLockKey).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		u.WaitlistPosition = int(count) + 1
		return tx.Create(u).Error
	})
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up case-insensitively; emails are stored lowercase.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByReferralCode(code string) (*models.User, error) {
	var u models.User
	err := r.db.Where("referral_code = ?", code).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ReferralCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// IncrementReferralCount atomically bumps the referrer's counter.
func (r *UserRepository) IncrementReferralCount(id uint) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("referral_count", gorm.Expr("referral_count + 1")).Error
}

func (r *UserRepository) SetStripeCustomer(id uint, customerID string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("stripe_customer_id", customerID).Error
}

// SavePaymentMethod records the confirmed payment method and marks the
// signup payment-complete.
func (r *UserRepository) SavePaymentMethod(id uint, paymentMethodID string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stripe_payment_method_id": paymentMethodID,
			"payment_completed":        true,
		}).Error
}
