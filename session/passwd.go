package session

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// work factor fixed for every stored credential
const bcryptCost = 10

// HashPassword derives a salted bcrypt hash from plain.
func HashPassword(plain string) (string, error) {
	buf, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password, cause %w", err)
	}
	return string(buf), nil
}

// CheckPassword reports whether plain matches hash. A malformed hash simply
// fails the check.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
