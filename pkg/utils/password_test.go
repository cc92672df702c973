package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	assert.NotEqual(t, "Secret123", h)

	assert.True(t, CheckPassword("Secret123", h))
	assert.False(t, CheckPassword("secret123", h))
	assert.False(t, CheckPassword("", h))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("Secret123")
	require.NoError(t, err)
	h2, err := HashPassword("Secret123")
	require.NoError(t, err)

	// 同一明文两次哈希不同，但都能校验通过
	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword("Secret123", h1))
	assert.True(t, CheckPassword("Secret123", h2))
}

func TestHashPasswordLengthLimit(t *testing.T) {
	// bcrypt 上限 72 字节：到上限能正常往返，超限必须报错而不是返回空串
	h, err := HashPassword(strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.True(t, CheckPassword(strings.Repeat("a", 72), h))

	h, err = HashPassword(strings.Repeat("a", 80))
	require.Error(t, err)
	assert.Empty(t, h)
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("Secret123", ""))
	assert.False(t, CheckPassword("Secret123", "not-a-bcrypt-hash"))
}
