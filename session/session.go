// Package session turns a verified user into an authentication artifact
// carried by an HTTP cookie, and back.
//
// Two flavors exist behind the same Issuer contract: a signed stateless
// token (nothing kept on the server) and a server-side session record keyed
// by an opaque id. Handler code never learns which one is active.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/andrebq/staccoa/userstore"
)

const (
	// CookieName carries the artifact on every request.
	CookieName = "staccoa_session"

	// TTL is the fixed artifact lifetime, there is no rolling renewal.
	TTL = 7 * 24 * time.Hour
)

type (
	// Issuer creates, verifies and revokes session artifacts.
	//
	// Authenticate never surfaces an error: a malformed, expired, tampered
	// or unknown artifact simply reads as unauthenticated.
	Issuer interface {
		Issue(ctx context.Context, w http.ResponseWriter, user *userstore.User) error
		Authenticate(r *http.Request) (userID string, ok bool)
		Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	}
)

func newCookie(value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

func expiredCookie(secure bool) *http.Cookie {
	c := newCookie("", secure)
	// net/http renders MaxAge < 0 as Max-Age=0
	c.MaxAge = -1
	return c
}

func readArtifact(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
