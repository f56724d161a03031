package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/models"
)

func TestCreateUserIfNotExists(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, r.CreateUserIfNotExists(ctx, first))

	dup := &models.User{
		Name:         "Alice Again",
		Email:        "alice@example.com",
		PasswordHash: "y",
		Role:         models.RoleCustomer,
	}
	require.ErrorIs(t, r.CreateUserIfNotExists(ctx, dup), ErrUserAlreadyExists)
}

func TestCreateUserIfNotExists_LostInsertRace(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, r.CreateUserIfNotExists(ctx, first))

	// Reuse the existing primary key so the lookup misses but the insert
	// collides, the same shape as losing a concurrent registration between
	// the existence check and the create.
	loser := &models.User{
		ID:           first.ID,
		Name:         "Bob",
		Email:        "bob@example.com",
		PasswordHash: "y",
		Role:         models.RoleCustomer,
	}
	require.ErrorIs(t, r.CreateUserIfNotExists(ctx, loser), ErrUserAlreadyExists)
}

func TestDuplicateEmailInsertIsTranslated(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, r.DB.WithContext(ctx).Create(first).Error)

	clash := &models.User{
		Name:         "Mallory",
		Email:        "alice@example.com",
		PasswordHash: "y",
		Role:         models.RoleCustomer,
	}
	err := r.DB.WithContext(ctx).Create(clash).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
