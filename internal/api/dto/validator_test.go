package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/pegasus-hq/support-core/pkg/util"
)

func TestValidateLoginRequest(t *testing.T) {
	assert.NoError(t, Validate(LoginRequest{Email: "u@example.com", Password: "pw"}))

	err := Validate(LoginRequest{Email: "not-an-email", Password: "pw"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Details, "Email")
}

func TestValidateBulkManageRequest(t *testing.T) {
	assert.NoError(t, Validate(BulkManageRequest{Action: "ban", UserIDs: []string{"u1"}}))

	err := Validate(BulkManageRequest{Action: "", UserIDs: []string{"u1"}})
	require.Error(t, err)

	err = Validate(BulkManageRequest{Action: "ban", UserIDs: []string{}})
	require.Error(t, err)
}

func TestValidateTokenRequests(t *testing.T) {
	assert.NoError(t, Validate(TokenAdminRequest{Action: "setLimit", UserID: "u1", Amount: 100}))
	assert.Error(t, Validate(TokenAdminRequest{Action: "destroy", UserID: "u1"}))

	assert.NoError(t, Validate(TokenIncrementRequest{TokensToAdd: 5}))
	assert.Error(t, Validate(TokenIncrementRequest{TokensToAdd: 0}))
	assert.Error(t, Validate(TokenIncrementRequest{TokensToAdd: -5}))
}

func TestValidateSatisfactionBounds(t *testing.T) {
	assert.NoError(t, Validate(SatisfactionRequest{Rating: 1}))
	assert.NoError(t, Validate(SatisfactionRequest{Rating: 5}))
	assert.Error(t, Validate(SatisfactionRequest{Rating: 0}))
	assert.Error(t, Validate(SatisfactionRequest{Rating: 6}))
}
