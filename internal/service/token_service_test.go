package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pegasus-hq/support-core/internal/domain"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

func TestDeriveTokenInfo(t *testing.T) {
	tests := []struct {
		name          string
		used, limit   int
		banned        bool
		wantRemaining int
		wantPercent   float64
		wantCanUse    bool
	}{
		{"fresh user", 0, 10000, false, 10000, 0, true},
		{"half used", 5000, 10000, false, 5000, 50, true},
		{"at limit", 10000, 10000, false, 0, 100, false},
		{"over limit clamps to zero", 12000, 10000, false, 0, 120, false},
		{"banned user cannot spend", 0, 10000, true, 10000, 0, false},
		{"zero limit", 0, 0, false, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DeriveTokenInfo(tt.used, tt.limit, tt.banned)
			assert.Equal(t, tt.used, info.TokensUsed)
			assert.Equal(t, tt.limit, info.TokenLimit)
			assert.Equal(t, tt.wantRemaining, info.TokensRemaining)
			assert.InDelta(t, tt.wantPercent, info.UsagePercentage, 0.001)
			assert.Equal(t, tt.wantCanUse, info.CanUseTokens)
		})
	}
}

func newTestTokenService(users ...*domain.User) (*TokenService, *fakeUsageRepo) {
	usage := newFakeUsageRepo()
	svc := NewTokenService(&fakeUserRepo{users: users}, usage, 100000)
	return svc, usage
}

func TestGetUserTokenInfoMissingUsageMeansZero(t *testing.T) {
	svc, _ := newTestTokenService(&domain.User{AltID: "user-1"})

	info, err := svc.GetUserTokenInfo(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Zero(t, info.TokensUsed)
	assert.Equal(t, 100000, info.TokenLimit)
	assert.True(t, info.CanUseTokens)
}

func TestGetUserTokenInfoUnknownUser(t *testing.T) {
	svc, _ := newTestTokenService()

	info, err := svc.GetUserTokenInfo(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGetUserTokenInfoExplicitLimitWins(t *testing.T) {
	svc, usage := newTestTokenService(&domain.User{AltID: "user-1", TokenLimit: 500})
	require.NoError(t, usage.SetTotal(context.Background(), "user-1", 400))

	info, err := svc.GetUserTokenInfo(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 500, info.TokenLimit)
	assert.Equal(t, 100, info.TokensRemaining)
}

func TestIncrementUsageSuccess(t *testing.T) {
	svc, usage := newTestTokenService(&domain.User{AltID: "user-1", TokenLimit: 10000})
	require.NoError(t, usage.SetTotal(context.Background(), "user-1", 7500))

	info, err := svc.IncrementUsage(context.Background(), "user-1", 2000)
	require.NoError(t, err)
	assert.Equal(t, 9500, info.TokensUsed)
	assert.Equal(t, 500, info.TokensRemaining)
	assert.True(t, info.CanUseTokens)
	assert.Equal(t, 9500, usage.totals["user-1"])
}

func TestIncrementUsageQuotaExceeded(t *testing.T) {
	svc, usage := newTestTokenService(&domain.User{AltID: "user-1", TokenLimit: 10000})
	require.NoError(t, usage.SetTotal(context.Background(), "user-1", 9000))

	_, err := svc.IncrementUsage(context.Background(), "user-1", 2000)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "QUOTA_EXCEEDED", domainErr.Code)
	assert.Equal(t, 429, domainErr.HTTPStatus)
	assert.Equal(t, 1000, domainErr.Details["wouldExceedBy"])
	assert.Equal(t, 9000, domainErr.Details["tokensUsed"])
	assert.Equal(t, 10000, domainErr.Details["tokenLimit"])

	// The rejected increment writes nothing.
	assert.Equal(t, 9000, usage.totals["user-1"])
}

func TestIncrementUsageExactFillAllowed(t *testing.T) {
	svc, usage := newTestTokenService(&domain.User{AltID: "user-1", TokenLimit: 10000})
	require.NoError(t, usage.SetTotal(context.Background(), "user-1", 9000))

	info, err := svc.IncrementUsage(context.Background(), "user-1", 1000)
	require.NoError(t, err)
	assert.Equal(t, 10000, info.TokensUsed)
	assert.Zero(t, info.TokensRemaining)
	assert.False(t, info.CanUseTokens)
}

func TestIncrementUsageUnknownUser(t *testing.T) {
	svc, _ := newTestTokenService()

	_, err := svc.IncrementUsage(context.Background(), "ghost", 100)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAddTokensOnTopOfDefaultLimit(t *testing.T) {
	user := &domain.User{AltID: "user-1"}
	svc, _ := newTestTokenService(user)

	ok, err := svc.AddTokens(context.Background(), "user-1", 5000)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 105000, user.TokenLimit)
}

func TestAddTokensUnknownUser(t *testing.T) {
	svc, _ := newTestTokenService()

	ok, err := svc.AddTokens(context.Background(), "ghost", 5000)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetAndResetUsage(t *testing.T) {
	svc, usage := newTestTokenService(&domain.User{AltID: "user-1"})

	require.NoError(t, svc.SetUsage(context.Background(), "user-1", 1234))
	assert.Equal(t, 1234, usage.totals["user-1"])

	require.NoError(t, svc.ResetUsage(context.Background(), "user-1"))
	assert.Equal(t, 0, usage.totals["user-1"])
}

func TestNewTokenServiceDefaultFallback(t *testing.T) {
	svc := NewTokenService(&fakeUserRepo{users: []*domain.User{{AltID: "u"}}}, newFakeUsageRepo(), 0)
	info, err := svc.GetUserTokenInfo(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, 100000, info.TokenLimit)
}
