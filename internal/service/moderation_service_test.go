package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pegasus-hq/support-core/internal/domain"
)

func newTestModerationService(users ...*domain.User) (*ModerationService, *fakeUserRepo, *fakeUsageRepo) {
	userRepo := &fakeUserRepo{users: users}
	usageRepo := newFakeUsageRepo()
	return NewModerationService(userRepo, usageRepo), userRepo, usageRepo
}

func TestApplyBulkPartialSuccess(t *testing.T) {
	svc, _, _ := newTestModerationService(&domain.User{AltID: "user-1"})

	result, err := svc.ApplyBulk(context.Background(), BulkActionBan,
		[]string{"user-1", "ghost"}, BulkActionData{Reason: "spam"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.AffectedUsers())
	assert.Equal(t, []string{"user-1"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "ghost", result.Failed[0].ID)

	errs := result.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "ghost")
	assert.Contains(t, errs[0], "user not found")
}

func TestApplyBulkBanSetsFieldsTogether(t *testing.T) {
	user := &domain.User{AltID: "user-1"}
	svc, _, _ := newTestModerationService(user)

	_, err := svc.ApplyBulk(context.Background(), BulkActionBan,
		[]string{"user-1"}, BulkActionData{Reason: "abuse"})
	require.NoError(t, err)

	assert.True(t, user.IsBanned)
	require.NotNil(t, user.BannedAt)
	assert.Equal(t, "abuse", user.BanReason)
}

func TestApplyBulkBanDefaultReason(t *testing.T) {
	user := &domain.User{AltID: "user-1"}
	svc, _, _ := newTestModerationService(user)

	_, err := svc.ApplyBulk(context.Background(), BulkActionBan, []string{"user-1"}, BulkActionData{})
	require.NoError(t, err)
	assert.Equal(t, "No reason provided", user.BanReason)
}

func TestApplyBulkUnbanClearsBanFields(t *testing.T) {
	user := &domain.User{AltID: "user-1"}
	svc, _, _ := newTestModerationService(user)

	_, err := svc.ApplyBulk(context.Background(), BulkActionBan,
		[]string{"user-1"}, BulkActionData{Reason: "oops"})
	require.NoError(t, err)

	result, err := svc.ApplyBulk(context.Background(), BulkActionUnban, []string{"user-1"}, BulkActionData{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AffectedUsers())

	assert.False(t, user.IsBanned)
	assert.Nil(t, user.BannedAt)
	assert.Empty(t, user.BanReason)
}

func TestApplyBulkAdminFlags(t *testing.T) {
	user := &domain.User{AltID: "user-1"}
	svc, _, _ := newTestModerationService(user)

	_, err := svc.ApplyBulk(context.Background(), BulkActionSetAdmin, []string{"user-1"}, BulkActionData{})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	_, err = svc.ApplyBulk(context.Background(), BulkActionRemoveAdmin, []string{"user-1"}, BulkActionData{})
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
}

func TestApplyBulkResetTokensAlwaysSucceeds(t *testing.T) {
	svc, _, usage := newTestModerationService()
	usage.totals["known"] = 5000

	// Usage records are upserted by string id, so even an id with no identity
	// record resets cleanly.
	result, err := svc.ApplyBulk(context.Background(), BulkActionResetTokens,
		[]string{"known", "never-seen"}, BulkActionData{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.AffectedUsers())
	assert.Empty(t, result.Failed)
	assert.Equal(t, 0, usage.totals["known"])
	assert.Equal(t, 0, usage.totals["never-seen"])
}

func TestApplyBulkSetTokenLimit(t *testing.T) {
	user := &domain.User{AltID: "user-1"}
	svc, _, _ := newTestModerationService(user)

	result, err := svc.ApplyBulk(context.Background(), BulkActionSetTokenLimit,
		[]string{"user-1"}, BulkActionData{TokenLimit: 250000})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AffectedUsers())
	assert.Equal(t, 250000, user.TokenLimit)
}

func TestApplyBulkUnknownAction(t *testing.T) {
	svc, _, _ := newTestModerationService(&domain.User{AltID: "user-1"})

	result, err := svc.ApplyBulk(context.Background(), BulkAction("explode"),
		[]string{"user-1"}, BulkActionData{})
	require.NoError(t, err)

	assert.Zero(t, result.AffectedUsers())
	require.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Reason, "unknown action")
}

func TestApplyBulkEmptyBatch(t *testing.T) {
	svc, _, _ := newTestModerationService()

	result, err := svc.ApplyBulk(context.Background(), BulkActionBan, nil, BulkActionData{})
	require.NoError(t, err)
	assert.Zero(t, result.AffectedUsers())
	assert.Empty(t, result.Failed)
	assert.Nil(t, result.Errors())
}
