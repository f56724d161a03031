package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/tokens"
	"storefront/internal/transport"
)

func newTestAuthService(t *testing.T) *AuthService {
	return &AuthService{
		Repo:      newTestRepo(t),
		JWTSecret: []byte("test-jwt-secret"),
		JWTExpire: time.Hour,
	}
}

func TestAuthService_Register_IssuesTokenWithClaims(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, transport.RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "customer", user.Role)

	claims, err := tokens.Parse(token, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "customer", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.RegisterRequest
	}{
		{name: "short name", req: transport.RegisterRequest{Name: "A", Email: "a@b.com", Password: "secret1"}},
		{name: "bad email", req: transport.RegisterRequest{Name: "Alice", Email: "not-an-email", Password: "secret1"}},
		{name: "short password", req: transport.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "s1"}},
		{name: "password without digit", req: transport.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "secrets"}},
		{name: "bad phone", req: transport.RegisterRequest{Name: "Alice", Email: "a@b.com", Password: "secret1", Phone: "abc"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	req := transport.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"}
	_, _, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User already exists", Reason(err, ErrConflict))
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, transport.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
}

// A failed login must not reveal whether the email exists.
func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, transport.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "secret1")
	require.Error(t, unknownErr)
	assert.ErrorIs(t, unknownErr, ErrUnauthorized)

	_, _, wrongErr := svc.Login(ctx, "alice@example.com", "wrong1")
	require.Error(t, wrongErr)
	assert.ErrorIs(t, wrongErr, ErrUnauthorized)

	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_UpdatePassword(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, transport.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "wrong1", "newpass1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.UpdatePassword(ctx, user.ID, "secret1", "short")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "secret1", "newpass1"))

	_, _, err = svc.Login(ctx, "alice@example.com", "secret1")
	require.Error(t, err)
	_, _, err = svc.Login(ctx, "alice@example.com", "newpass1")
	require.NoError(t, err)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, transport.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	name := "Alice Cooper"
	phone := "+1 (555) 123-4567"
	addr := testAddress()

	updated, err := svc.UpdateProfile(ctx, user.ID, transport.UpdateProfileRequest{
		Name:    &name,
		Phone:   &phone,
		Address: &addr,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, addr, updated.Address)

	bad := "x"
	_, err = svc.UpdateProfile(ctx, user.ID, transport.UpdateProfileRequest{Name: &bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}
