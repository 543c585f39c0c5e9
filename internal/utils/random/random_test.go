package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	token, err := Hex(32)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	other, err := Hex(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestPassword(t *testing.T) {
	password, err := Password(32)
	require.NoError(t, err)
	assert.Len(t, password, 32)

	assert.True(t, strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz"))
	assert.True(t, strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	assert.True(t, strings.ContainsAny(password, "0123456789"))
}

func TestURLSafe(t *testing.T) {
	state, err := URLSafe(16)
	require.NoError(t, err)
	assert.NotEmpty(t, state)
	assert.NotContains(t, state, "+")
	assert.NotContains(t, state, "/")
	assert.NotContains(t, state, "=")
}
