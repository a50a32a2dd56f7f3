package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pegasus-hq/support-core/internal/repository"
	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

// BulkAction enumerates the administrative bulk mutations.
type BulkAction string

const (
	BulkActionBan           BulkAction = "ban"
	BulkActionUnban         BulkAction = "unban"
	BulkActionSetAdmin      BulkAction = "setAdmin"
	BulkActionRemoveAdmin   BulkAction = "removeAdmin"
	BulkActionResetTokens   BulkAction = "resetTokens"
	BulkActionSetTokenLimit BulkAction = "setTokenLimit"
)

// BulkActionData carries per-action parameters.
type BulkActionData struct {
	Reason     string
	TokenLimit int
}

// BulkFailure records one identifier that could not be processed.
type BulkFailure struct {
	ID     string
	Reason string
}

// BulkResult accumulates per-user outcomes of a bulk operation. Partial
// success is a first-class outcome, not a failure.
type BulkResult struct {
	Succeeded []string
	Failed    []BulkFailure
}

// AffectedUsers returns the count of successful mutations.
func (r *BulkResult) AffectedUsers() int {
	return len(r.Succeeded)
}

// Errors renders the failures as human-readable strings.
func (r *BulkResult) Errors() []string {
	if len(r.Failed) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(r.Failed))
	for _, failure := range r.Failed {
		msgs = append(msgs, fmt.Sprintf("%s: %s", failure.ID, failure.Reason))
	}
	return msgs
}

// ModerationService performs bulk administrative mutations against the
// identity and usage collections.
type ModerationService struct {
	users repository.UserRepository
	usage repository.TokenUsageRepository
}

// NewModerationService constructs the service.
func NewModerationService(users repository.UserRepository, usage repository.TokenUsageRepository) *ModerationService {
	return &ModerationService{users: users, usage: usage}
}

// ApplyBulk folds the action over the identifiers sequentially. One malformed
// or missing identifier never aborts the batch; it becomes a failure entry.
func (s *ModerationService) ApplyBulk(ctx context.Context, action BulkAction, userIDs []string, data BulkActionData) (*BulkResult, error) {
	result := &BulkResult{Succeeded: []string{}, Failed: []BulkFailure{}}

	for _, userID := range userIDs {
		if err := s.applyOne(ctx, action, userID, data); err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: userID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, userID)
	}

	return result, nil
}

func (s *ModerationService) applyOne(ctx context.Context, action BulkAction, userID string, data BulkActionData) error {
	switch action {
	case BulkActionBan:
		reason := data.Reason
		if reason == "" {
			reason = "No reason provided"
		}
		return s.updateIdentity(ctx, userID, repository.UserUpdate{Set: map[string]any{
			"isBanned":  true,
			"bannedAt":  time.Now(),
			"banReason": reason,
			"updatedAt": time.Now(),
		}})
	case BulkActionUnban:
		return s.updateIdentity(ctx, userID, repository.UserUpdate{
			Set:   map[string]any{"isBanned": false, "updatedAt": time.Now()},
			Unset: []string{"bannedAt", "banReason"},
		})
	case BulkActionSetAdmin:
		return s.updateIdentity(ctx, userID, repository.UserUpdate{Set: map[string]any{
			"isAdmin":   true,
			"updatedAt": time.Now(),
		}})
	case BulkActionRemoveAdmin:
		return s.updateIdentity(ctx, userID, repository.UserUpdate{Set: map[string]any{
			"isAdmin":   false,
			"updatedAt": time.Now(),
		}})
	case BulkActionResetTokens:
		// Usage documents are keyed by the string identifier and upserted,
		// so a reset always succeeds.
		return s.usage.SetTotal(ctx, userID, 0)
	case BulkActionSetTokenLimit:
		return s.updateIdentity(ctx, userID, repository.UserUpdate{Set: map[string]any{
			"tokenLimit": data.TokenLimit,
			"updatedAt":  time.Now(),
		}})
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown action %q", action), nil)
	}
}

func (s *ModerationService) updateIdentity(ctx context.Context, userID string, update repository.UserUpdate) error {
	matched, err := s.users.ResolveAndUpdate(ctx, userID, update)
	if err != nil {
		return err
	}
	if matched == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}
