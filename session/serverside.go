package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/allegro/bigcache/v3"
	"github.com/google/uuid"

	"github.com/andrebq/staccoa/internal/logutil"
	"github.com/andrebq/staccoa/userstore"
)

type (
	// Records keeps live server-side sessions keyed by an opaque session id.
	Records interface {
		Save(ctx context.Context, sessionID, userID string) error
		Lookup(ctx context.Context, sessionID string) (userID string, ok bool, err error)
		Delete(ctx context.Context, sessionID string) error
	}

	// serverIssuer puts only an opaque id in the cookie, the user binding
	// lives in a Records store and disappears on revocation or expiry.
	serverIssuer struct {
		records Records
		secure  bool
	}

	memRecords struct {
		cache *bigcache.BigCache
	}
)

// NewServerIssuer returns an Issuer backed by server-side session records.
func NewServerIssuer(records Records, secure bool) Issuer {
	return &serverIssuer{records: records, secure: secure}
}

// InMemoryRecords keeps session records in process memory, entries expire
// naturally after the artifact TTL.
func InMemoryRecords() Records {
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(TTL))
	return &memRecords{
		cache: cache,
	}
}

func (s *serverIssuer) Issue(ctx context.Context, w http.ResponseWriter, user *userstore.User) error {
	sid := uuid.NewString()
	err := s.records.Save(ctx, sid, user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, newCookie(sid, s.secure))
	return nil
}

func (s *serverIssuer) Authenticate(r *http.Request) (string, bool) {
	sid, ok := readArtifact(r)
	if !ok {
		return "", false
	}
	userID, found, err := s.records.Lookup(r.Context(), sid)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Msg("Unexpected error when checking session records")
		return "", false
	}
	return userID, found
}

func (s *serverIssuer) Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if sid, ok := readArtifact(r); ok {
		err := s.records.Delete(ctx, sid)
		if err != nil {
			return err
		}
	}
	http.SetCookie(w, expiredCookie(s.secure))
	return nil
}

func (m *memRecords) Save(ctx context.Context, sessionID, userID string) error {
	return m.cache.Set(sessionID, []byte(userID))
}

func (m *memRecords) Lookup(ctx context.Context, sessionID string) (string, bool, error) {
	buf, err := m.cache.Get(sessionID)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return string(buf), true, nil
}

func (m *memRecords) Delete(ctx context.Context, sessionID string) error {
	err := m.cache.Delete(sessionID)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}
