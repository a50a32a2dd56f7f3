package service

import (
	"context"
	"time"

	"github.com/pegasus-hq/support-core/internal/domain"
	"github.com/pegasus-hq/support-core/internal/repository"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// TokenService joins identity and usage records into quota views and applies
// token administration. The default limit is configured once; the historical
// 100000-vs-10000 split between accounting paths collapses into that single
// value.
type TokenService struct {
	users        repository.UserRepository
	usage        repository.TokenUsageRepository
	defaultLimit int
}

// NewTokenService constructs the service.
func NewTokenService(users repository.UserRepository, usage repository.TokenUsageRepository, defaultLimit int) *TokenService {
	if defaultLimit <= 0 {
		defaultLimit = 100000
	}
	return &TokenService{users: users, usage: usage, defaultLimit: defaultLimit}
}

// DeriveTokenInfo computes the quota view from raw used/limit values.
func DeriveTokenInfo(used, limit int, banned bool) domain.TokenInfo {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	percentage := 0.0
	if limit > 0 {
		percentage = float64(used) / float64(limit) * 100
	}
	return domain.TokenInfo{
		TokensUsed:      used,
		TokenLimit:      limit,
		TokensRemaining: remaining,
		UsagePercentage: percentage,
		CanUseTokens:    remaining > 0 && !banned,
	}
}

// GetUserTokenInfo resolves the identity record through the dual-identifier
// lookup and the usage record by the string id only. Returns nil when no
// identity record exists; a missing usage record means zero tokens used.
func (s *TokenService) GetUserTokenInfo(ctx context.Context, userID string) (*domain.TokenInfo, error) {
	user, err := s.users.GetByRef(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	used := 0
	usage, err := s.usage.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usage != nil {
		used = usage.TotalTokens
	}

	info := DeriveTokenInfo(used, s.limitFor(user), user.IsBanned)
	return &info, nil
}

// SetLimit overwrites the identity record's token limit.
func (s *TokenService) SetLimit(ctx context.Context, userID string, limit int) (bool, error) {
	matched, err := s.users.ResolveAndUpdate(ctx, userID, repository.UserUpdate{Set: map[string]any{
		"tokenLimit": limit,
		"updatedAt":  time.Now(),
	}})
	if err != nil {
		return false, err
	}
	return matched > 0, nil
}

// AddTokens raises the limit by the given amount on top of the current
// (or default) limit.
func (s *TokenService) AddTokens(ctx context.Context, userID string, amount int) (bool, error) {
	user, err := s.users.GetByRef(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return s.SetLimit(ctx, userID, s.limitFor(user)+amount)
}

// SetUsage overwrites the usage counter (upsert by string id).
func (s *TokenService) SetUsage(ctx context.Context, userID string, total int) error {
	return s.usage.SetTotal(ctx, userID, total)
}

// ResetUsage zeroes the usage counter (upsert by string id).
func (s *TokenService) ResetUsage(ctx context.Context, userID string) error {
	return s.usage.SetTotal(ctx, userID, 0)
}

// IncrementUsage records token consumption after a capacity check. The check
// and the write are separate store calls; concurrent increments for the same
// user can race past the limit.
func (s *TokenService) IncrementUsage(ctx context.Context, userID string, tokensToAdd int) (*domain.TokenInfo, error) {
	user, err := s.users.GetByRef(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user", map[string]any{"userId": userID})
	}

	used := 0
	usage, err := s.usage.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usage != nil {
		used = usage.TotalTokens
	}

	limit := s.limitFor(user)
	if used+tokensToAdd > limit {
		return nil, apperrors.NewQuotaExceeded("token limit exceeded", map[string]any{
			"wouldExceedBy": used + tokensToAdd - limit,
			"tokensUsed":    used,
			"tokenLimit":    limit,
		})
	}

	if err := s.usage.IncrementTotal(ctx, userID, tokensToAdd); err != nil {
		return nil, err
	}

	info := DeriveTokenInfo(used+tokensToAdd, limit, user.IsBanned)
	return &info, nil
}

func (s *TokenService) limitFor(user *domain.User) int {
	if user.TokenLimit > 0 {
		return user.TokenLimit
	}
	return s.defaultLimit
}
