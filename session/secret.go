package session

import (
	"fmt"
	"os"
)

const (
	SecretEnvVar = "STACCOA_AUTH_SECRET"

	// only ever used outside production mode
	devSecret = "staccoa-dev-secret"
)

// SecretFromEnv reads the signing secret from the environment variable named
// varname and wipes the variable afterwards so the secret cannot be read
// back from the process environment.
//
// Outside production an empty variable falls back to a fixed development
// secret; in production the secret must be set explicitly.
func SecretFromEnv(varname string, production bool) ([]byte, error) {
	if varname == "" {
		varname = SecretEnvVar
	}
	val := os.Getenv(varname)
	os.Setenv(varname, "")
	if val == "" {
		if production {
			return nil, fmt.Errorf("session: %v must be set when running in production", varname)
		}
		val = devSecret
	}
	return []byte(val), nil
}
