package service

import (
	"errors"

	"bbwaitlist/config"
	"bbwaitlist/internal/auth"
	"bbwaitlist/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCreds = errors.New("invalid email or password")

type AdminUserStore interface {
	GetByEmail(email string) (*models.AdminUser, error)
}

type AuthService struct {
	cfg    *config.JWTConfig
	admins AdminUserStore
}

func NewAuthService(cfg *config.JWTConfig, admins AdminUserStore) *AuthService {
	return &AuthService{cfg: cfg, admins: admins}
}

// AdminLogin checks the credentials and mints a session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) AdminLogin(email, password string) (string, *models.AdminUser, error) {
	admin, err := s.admins.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCreds
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCreds
	}
	token, err := auth.GenerateToken(s.cfg, admin.ID, admin.Email)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}
