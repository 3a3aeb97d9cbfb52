// Package userstore persists account records behind a small Store contract
// with two interchangeable backends: a sqlite database and a flat file.
//
// Which backend to use is decided once at process startup, callers only see
// the Store interface.
package userstore

import (
	"context"
	"strings"
	"time"
)

type (
	// User is a stored account record. The password hash never leaves the
	// process: only the SafeView projection is serialized to clients.
	User struct {
		ID           string
		FirstName    string
		LastName     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	// SafeUser is the client-facing projection of a User.
	SafeUser struct {
		ID        string    `json:"id"`
		FirstName string    `json:"firstName"`
		LastName  string    `json:"lastName"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// Store gives access to account records. Lookups return (nil, nil) for
	// missing records, an error always indicates a transport failure.
	//
	// The backing structure (table or file) is created lazily on first use,
	// re-opening an existing store is always safe.
	Store interface {
		FindByEmail(ctx context.Context, email string) (*User, error)
		FindByID(ctx context.Context, id string) (*User, error)
		Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error)
		Close() error
	}
)

// SafeView strips the password hash from the record.
func (u *User) SafeView() SafeUser {
	return SafeUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// NormalizeEmail is applied to every email before it is stored or compared,
// which makes lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
