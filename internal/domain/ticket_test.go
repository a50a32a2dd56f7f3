package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	number := NewTicketNumber(now)

	require.Len(t, number, 14)
	assert.True(t, strings.HasPrefix(number, "TKT-"))

	millis := number[4:10]
	for _, r := range millis {
		assert.True(t, r >= '0' && r <= '9', "millis part must be digits, got %q", number)
	}

	suffix := number[10:]
	for _, r := range suffix {
		ok := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
		assert.True(t, ok, "suffix must be uppercase hex, got %q", number)
	}
}

func TestNewTicketNumberRandomSuffix(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewTicketNumber(now)] = true
	}
	// Same millisecond, different suffixes.
	assert.Greater(t, len(seen), 1)
}

func TestMessageAuthorRoleIsStaff(t *testing.T) {
	assert.True(t, AuthorRoleAdmin.IsStaff())
	assert.True(t, AuthorRoleAgent.IsStaff())
	assert.False(t, AuthorRoleUser.IsStaff())
	assert.False(t, AuthorRoleSystem.IsStaff())
}

func TestUserKeyPrefersAltID(t *testing.T) {
	u := &User{AltID: "user_2abc"}
	assert.Equal(t, "user_2abc", u.Key())

	native := &User{}
	assert.Equal(t, native.ID.Hex(), native.Key())
}
