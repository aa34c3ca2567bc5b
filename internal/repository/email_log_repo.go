package repository

import (
	"bbwaitlist/internal/models"

	"gorm.io/gorm"
)

type EmailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

func (r *EmailLogRepository) Create(l *models.EmailLog) error {
	return r.db.Create(l).Error
}

func (r *EmailLogRepository) ListByUser(userID uint) ([]models.EmailLog, error) {
	var list []models.EmailLog
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}
