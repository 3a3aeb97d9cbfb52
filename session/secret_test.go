package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecretFromEnv(t *testing.T) {
	os.Setenv("STACCOA_TEST_SECRET", "super-secret")
	secret, err := SecretFromEnv("STACCOA_TEST_SECRET", true)
	require.NoError(t, err)
	require.Equal(t, []byte("super-secret"), secret)
	require.Empty(t, os.Getenv("STACCOA_TEST_SECRET"), "reading the secret should remove it from the environment")
}

func TestSecretFromEnvDevFallback(t *testing.T) {
	os.Setenv("STACCOA_TEST_SECRET", "")
	secret, err := SecretFromEnv("STACCOA_TEST_SECRET", false)
	require.NoError(t, err)
	require.NotEmpty(t, secret)
}

func TestSecretRequiredInProduction(t *testing.T) {
	os.Setenv("STACCOA_TEST_SECRET", "")
	_, err := SecretFromEnv("STACCOA_TEST_SECRET", true)
	require.Error(t, err)
}
