package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x@sub.domain.org"}
	invalid := []string{"", "plain", "@nouser.com", "user@", "user@domain", "user name@example.com"}

	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"+2348012345678", "08012345678", "1234567"}
	invalid := []string{"", "123", "phone", "+123-456-7890", "123456789012345678"}

	for _, p := range valid {
		assert.True(t, IsValidPhone(p), p)
	}
	for _, p := range invalid {
		assert.False(t, IsValidPhone(p), p)
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"abc", "user_name", "user.name", "user-123", "Acme2024"}
	invalid := []string{"", "ab", "user name", "user@name", "こんにちは"}

	for _, u := range valid {
		assert.True(t, IsValidUsername(u), u)
	}
	for _, u := range invalid {
		assert.False(t, IsValidUsername(u), u)
	}
}

func TestIsValidPassword(t *testing.T) {
	ok, _ := IsValidPassword("abcdef")
	assert.True(t, ok)

	ok, msg := IsValidPassword("abc")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("123e4567-e89b-12d3-a456-426614174000"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
}
