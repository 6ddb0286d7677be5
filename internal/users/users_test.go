package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/storefront/internal/db/dbtest"
	"github.com/Skotchmaster/storefront/internal/models"
)

func TestCreate(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}
	ctx := context.Background()

	u, err := r.Create(ctx, " admin ", "password1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.NotZero(t, u.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")))

	_, err = r.Create(ctx, "admin", "password2", models.RoleUser)
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
}

func TestCreate_Validation(t *testing.T) {
	r := &GormRepo{DB: dbtest.New(t)}
	ctx := context.Background()

	tests := []struct {
		name, username, password, role string
	}{
		{name: "empty username", username: "", password: "password1", role: models.RoleUser},
		{name: "short password", username: "bob", password: "short", role: models.RoleUser},
		{name: "unknown role", username: "bob", password: "password1", role: "root"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(ctx, tt.username, tt.password, tt.role)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
