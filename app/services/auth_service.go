package services

import (
	"context"
	"errors"

	"github.com/rsharan/dinehub/app/models"
	"github.com/rsharan/dinehub/pkg/apperr"
	"github.com/rsharan/dinehub/pkg/auth"
	"gorm.io/gorm"
)

// AuthService issues JWTs for registered users. It is deliberately thin:
// everything downstream trusts the (userID, role) pair inside the token.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Login verifies credentials and returns a fresh token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Forbidden("invalid credentials")
	}
	if err != nil {
		return "", apperr.Unavailable(err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", apperr.Forbidden("invalid credentials")
	}

	return auth.GenerateToken(user.ID, user.Role)
}
