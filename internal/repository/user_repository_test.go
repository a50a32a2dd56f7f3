package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectIDPattern(t *testing.T) {
	assert.True(t, objectIDPattern.MatchString("507f1f77bcf86cd799439011"))
	assert.True(t, objectIDPattern.MatchString("507F1F77BCF86CD799439011"))

	// Opaque string ids from historical imports must not be mistaken for
	// native ids.
	assert.False(t, objectIDPattern.MatchString("user_2abc"))
	assert.False(t, objectIDPattern.MatchString("507f1f77bcf86cd79943901"))
	assert.False(t, objectIDPattern.MatchString("507f1f77bcf86cd7994390112"))
	assert.False(t, objectIDPattern.MatchString("507f1f77bcf86cd79943901g"))
	assert.False(t, objectIDPattern.MatchString(""))
}

func TestUserUpdateIsZero(t *testing.T) {
	assert.True(t, UserUpdate{}.IsZero())
	assert.False(t, UserUpdate{Set: map[string]any{"isBanned": true}}.IsZero())
	assert.False(t, UserUpdate{Unset: []string{"banReason"}}.IsZero())
}
