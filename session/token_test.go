package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrebq/staccoa/userstore"
)

var testUser = &userstore.User{
	ID:    "user-1",
	Email: "ada@x.com",
}

func issueCookie(t *testing.T, iss Issuer, user *userstore.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	err := iss.Issue(context.Background(), rec, user)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func requestWith(cookie *http.Cookie) *http.Request {
	r := httptest.NewRequest("GET", "/api/session", nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return r
}

func TestTokenRoundTrip(t *testing.T) {
	iss := NewTokenIssuer([]byte("test-secret"), false)
	cookie := issueCookie(t, iss, testUser)

	require.Equal(t, CookieName, cookie.Name)
	require.Equal(t, "/", cookie.Path)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 604800, cookie.MaxAge)
	require.False(t, cookie.Secure)

	id, ok := iss.Authenticate(requestWith(cookie))
	require.True(t, ok)
	require.Equal(t, "user-1", id)

	_, ok = iss.Authenticate(requestWith(nil))
	require.False(t, ok)
}

func TestTokenSecureInProduction(t *testing.T) {
	iss := NewTokenIssuer([]byte("test-secret"), true)
	cookie := issueCookie(t, iss, testUser)
	require.True(t, cookie.Secure)
}

func TestTokenTamperedOrForeign(t *testing.T) {
	iss := NewTokenIssuer([]byte("test-secret"), false)
	cookie := issueCookie(t, iss, testUser)

	other := NewTokenIssuer([]byte("other-secret"), false)
	_, ok := other.Authenticate(requestWith(cookie))
	require.False(t, ok)

	cookie.Value = cookie.Value + "x"
	_, ok = iss.Authenticate(requestWith(cookie))
	require.False(t, ok)

	_, ok = iss.Authenticate(requestWith(&http.Cookie{Name: CookieName, Value: "not-a-token"}))
	require.False(t, ok)
}

func TestTokenExpiry(t *testing.T) {
	// issue from eight days in the past, the signature is valid but the
	// expiry is behind us
	past := time.Now().Add(-8 * 24 * time.Hour)
	stale := &tokenIssuer{
		secret: []byte("test-secret"),
		now:    func() time.Time { return past },
	}
	cookie := issueCookie(t, stale, testUser)

	fresh := &tokenIssuer{
		secret: []byte("test-secret"),
		now:    time.Now,
	}
	_, ok := fresh.Authenticate(requestWith(cookie))
	require.False(t, ok)

	// the stale issuer still lives in the past and accepts its own token
	id, ok := stale.Authenticate(requestWith(cookie))
	require.True(t, ok)
	require.Equal(t, "user-1", id)
}

func TestTokenRevokeClearsCookie(t *testing.T) {
	iss := NewTokenIssuer([]byte("test-secret"), false)
	cookie := issueCookie(t, iss, testUser)

	rec := httptest.NewRecorder()
	err := iss.Revoke(context.Background(), rec, requestWith(cookie))
	require.NoError(t, err)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, CookieName, cleared[0].Name)
	require.Empty(t, cleared[0].Value)
	require.Less(t, cleared[0].MaxAge, 0)
}
