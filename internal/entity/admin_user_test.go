package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAdminUserHashesPassword(t *testing.T) {
	u, err := NewAdminUser("admin", "admin@example.com", "correct-horse-battery")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.NotEmpty(t, u.PasswordHash)
	// the plaintext must never end up in the hash field
	assert.NotContains(t, string(u.PasswordHash), "correct-horse-battery")

	assert.NoError(t, u.CheckPassword("correct-horse-battery"))
	assert.ErrorIs(t, u.CheckPassword("wrong-password"), ErrAuthenticationFailed)
}

func TestNewAdminUserRejectsShortPassword(t *testing.T) {
	_, err := NewAdminUser("admin", "", "short")
	assert.Error(t, err)
}

func TestNewAdminUserRequiresUsername(t *testing.T) {
	_, err := NewAdminUser("", "", "long-enough-password")
	assert.Error(t, err)
}
