package service

import (
	"testing"
	"time"

	"bbwaitlist/config"
	"bbwaitlist/internal/auth"
	"bbwaitlist/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type memAdminStore struct {
	admins map[string]*models.AdminUser
}

func (s *memAdminStore) GetByEmail(email string) (*models.AdminUser, error) {
	if a, ok := s.admins[email]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "bbwaitlist"}
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &memAdminStore{admins: map[string]*models.AdminUser{
		"admin@bbmembership.com": {ID: 1, Email: "admin@bbmembership.com", PasswordHash: string(hash)},
	}}
	svc := NewAuthService(testJWTConfig(), store)

	token, admin, err := svc.AdminLogin("admin@bbmembership.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, uint(1), admin.ID)

	claims, err := auth.ParseToken(testJWTConfig(), token)
	require.NoError(t, err)
	require.Equal(t, uint(1), claims.AdminID)
	require.Equal(t, "admin@bbmembership.com", claims.Email)
}

func TestAdminLoginRejects(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	store := &memAdminStore{admins: map[string]*models.AdminUser{
		"admin@bbmembership.com": {ID: 1, Email: "admin@bbmembership.com", PasswordHash: string(hash)},
	}}
	svc := NewAuthService(testJWTConfig(), store)

	_, _, err := svc.AdminLogin("admin@bbmembership.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCreds)

	_, _, err = svc.AdminLogin("nobody@bbmembership.com", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCreds)
}
