package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerSessionRoundTrip(t *testing.T) {
	iss := NewServerIssuer(InMemoryRecords(), false)
	cookie := issueCookie(t, iss, testUser)

	require.Equal(t, CookieName, cookie.Name)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, 604800, cookie.MaxAge)

	id, ok := iss.Authenticate(requestWith(cookie))
	require.True(t, ok)
	require.Equal(t, "user-1", id)

	_, ok = iss.Authenticate(requestWith(&http.Cookie{Name: CookieName, Value: "unknown-session"}))
	require.False(t, ok)
}

func TestServerSessionRevoke(t *testing.T) {
	iss := NewServerIssuer(InMemoryRecords(), false)
	cookie := issueCookie(t, iss, testUser)

	rec := httptest.NewRecorder()
	err := iss.Revoke(context.Background(), rec, requestWith(cookie))
	require.NoError(t, err)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Less(t, cleared[0].MaxAge, 0)

	// the record is gone, presenting the old id no longer works
	_, ok := iss.Authenticate(requestWith(cookie))
	require.False(t, ok)

	// revoking again is harmless
	err = iss.Revoke(context.Background(), httptest.NewRecorder(), requestWith(cookie))
	require.NoError(t, err)
}

func TestServerSessionsAreIndependent(t *testing.T) {
	iss := NewServerIssuer(InMemoryRecords(), false)
	first := issueCookie(t, iss, testUser)
	second := issueCookie(t, iss, testUser)
	require.NotEqual(t, first.Value, second.Value)

	err := iss.Revoke(context.Background(), httptest.NewRecorder(), requestWith(first))
	require.NoError(t, err)

	_, ok := iss.Authenticate(requestWith(first))
	require.False(t, ok)
	id, ok := iss.Authenticate(requestWith(second))
	require.True(t, ok)
	require.Equal(t, "user-1", id)
}
