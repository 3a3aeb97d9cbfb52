package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andrebq/staccoa/userstore"
)

type (
	// tokenIssuer signs an expiring HS256 token scoped to a user. Nothing is
	// kept on the server, the signature and expiry are checked on every
	// request.
	tokenIssuer struct {
		secret []byte
		secure bool
		now    func() time.Time
	}

	userClaims struct {
		Email string `json:"email"`
		jwt.RegisteredClaims
	}
)

// NewTokenIssuer returns an Issuer backed by signed stateless tokens.
// secure controls the Secure attribute of the session cookie.
func NewTokenIssuer(secret []byte, secure bool) Issuer {
	return &tokenIssuer{secret: secret, secure: secure, now: time.Now}
}

func (t *tokenIssuer) Issue(ctx context.Context, w http.ResponseWriter, user *userstore.User) error {
	now := t.now()
	claims := userClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return fmt.Errorf("unable to sign session token, cause %w", err)
	}
	http.SetCookie(w, newCookie(signed, t.secure))
	return nil
}

func (t *tokenIssuer) Authenticate(r *http.Request) (string, bool) {
	raw, ok := readArtifact(r)
	if !ok {
		return "", false
	}
	var claims userClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

func (t *tokenIssuer) Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	// stateless tokens cannot be recalled, clearing the cookie is all
	// there is to do
	http.SetCookie(w, expiredCookie(t.secure))
	return nil
}
