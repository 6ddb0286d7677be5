// Package users bootstraps accounts for the auth collaborator's tables.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrValidation       = errors.New("validation")
)

type GormRepo struct {
	DB *gorm.DB
}

// Create hashes password and inserts the user unless the username is taken.
func (r *GormRepo) Create(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrValidation, models.RoleUser, models.RoleAdmin)
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Username: username, PasswordHash: hashed, Role: role}
	tx := r.DB.WithContext(ctx).Where("username = ?", username).FirstOrCreate(u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrUserAlreadyExist
	}
	return u, nil
}
