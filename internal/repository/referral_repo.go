package repository

import (
	"bbwaitlist/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create persists a referrer-to-referee edge. The unique index on
// referee_id enforces at most one edge per referee.
func (r *ReferralRepository) Create(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

func (r *ReferralRepository) CountByReferrer(referrerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Referral{}).Where("referrer_id = ?", referrerID).Count(&count).Error
	return count, err
}

// ListByReferrer returns the users a referrer brought in, newest first.
func (r *ReferralRepository) ListByReferrer(referrerID uint, limit int) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Where("referrer_id = ?", referrerID).
		Preload("Referee").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
