package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pegasus-hq/support-core/internal/auth"
	"github.com/pegasus-hq/support-core/internal/config"
	"github.com/pegasus-hq/support-core/internal/domain"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

func newTestAuthService(t *testing.T, users ...*domain.User) *AuthService {
	t.Helper()
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
	}, &fakeUserRepo{users: users})
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return hashed
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestAuthService(t, &domain.User{
		AltID:        "user-1",
		Email:        "u@example.com",
		PasswordHash: hashFor(t, "hunter2"),
		IsAdmin:      true,
	})

	user, token, expiresAt, err := svc.Login(context.Background(), "u@example.com", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, &domain.User{
		Email:        "u@example.com",
		PasswordHash: hashFor(t, "hunter2"),
	})

	_, _, _, err := svc.Login(context.Background(), "u@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestLoginBannedAccount(t *testing.T) {
	svc := newTestAuthService(t, &domain.User{
		Email:        "u@example.com",
		PasswordHash: hashFor(t, "hunter2"),
		IsBanned:     true,
	})

	_, _, _, err := svc.Login(context.Background(), "u@example.com", "hunter2")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}
