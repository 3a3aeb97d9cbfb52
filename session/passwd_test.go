package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)
	require.NotContains(t, hash, "secret123")
	require.True(t, CheckPassword("secret123", hash))
	require.False(t, CheckPassword("secret124", hash))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$"} {
		require.False(t, CheckPassword("secret123", hash))
	}
}
