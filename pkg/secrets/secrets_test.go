package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenFormat(t *testing.T) {
	token, err := NewToken("a@example.org")
	require.NoError(t, err)
	assert.Len(t, token, TokenLength)
	assert.Regexp(t, "^[0-9a-f]+$", token)
}

// Tokens back unauthenticated confirmation and reset links, so uniqueness
// across a large population matters even for identical seed material.
func TestNewTokenUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, 2*n)

	for i := 0; i < n; i++ {
		confirmation, err := NewToken("a@example.org")
		require.NoError(t, err)
		reset, err := NewToken("a@example.org")
		require.NoError(t, err)

		for _, token := range []string{confirmation, reset} {
			_, dup := seen[token]
			require.False(t, dup, "duplicate token generated")
			seen[token] = struct{}{}
		}
	}
}
