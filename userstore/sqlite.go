package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

type (
	sqliteStore struct {
		db *sql.DB

		// schema creation runs at most once per store instance,
		// safe under concurrent first use
		init    sync.Once
		initErr error
	}
)

// OpenSQLite opens (creating it if needed) the user database at dbfile.
func OpenSQLite(ctx context.Context, dbfile string) (Store, error) {
	if dir := filepath.Dir(dbfile); dir != "." {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory %v to store user database, cause %w", dir, err)
		}
	}
	connstr := fmt.Sprintf("file:%v?_journal=wal&mode=rwc", dbfile)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", dbfile, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping user database %v, cause %w", dbfile, err)
	}
	return &sqliteStore{db: conn}, nil
}

func (s *sqliteStore) ensureSchema(ctx context.Context) error {
	s.init.Do(func() {
		for _, cmd := range []string{
			`create table if not exists users(
				user_id text not null primary key,
				first_name text not null,
				last_name text not null,
				email text not null unique,
				email_hash64 integer not null,
				password_hash text not null,
				created_at timestamp not null
			)`,
			`create index if not exists idx_users_email_hash64
				on users(email_hash64)
			`,
		} {
			_, err := s.db.ExecContext(ctx, cmd)
			if err != nil {
				s.initErr = fmt.Errorf("unable to create users table, cause %w", err)
				return
			}
		}
	})
	return s.initErr
}

func (s *sqliteStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	email, hash := normalizeEmailHash(email)
	var u User
	err := s.db.QueryRowContext(ctx, `select user_id, first_name, last_name, email, password_hash, created_at
		from users where email_hash64 = ? and email = ?`, hash, email).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to lookup user by email, cause %w", err)
	}
	return &u, nil
}

func (s *sqliteStore) FindByID(ctx context.Context, id string) (*User, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	var u User
	err := s.db.QueryRowContext(ctx, `select user_id, first_name, last_name, email, password_hash, created_at
		from users where user_id = ?`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to lookup user %v, cause %w", id, err)
	}
	return &u, nil
}

func (s *sqliteStore) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error) {
	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	email, hash := normalizeEmailHash(email)
	if existing != nil {
		return nil, DuplicateEmail{Email: email}
	}
	u := User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `insert into users(user_id, first_name, last_name, email, email_hash64, password_hash, created_at)
		values (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, hash, u.PasswordHash, u.CreatedAt)
	if err != nil {
		// two registrations may race past the duplicate check above,
		// the unique constraint catches the loser
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, DuplicateEmail{Email: email}
		}
		return nil, fmt.Errorf("unable to store user, cause %w", err)
	}
	return &u, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func normalizeEmailHash(email string) (string, int64) {
	email = NormalizeEmail(email)
	return email, int64(xxhash.Sum64String(email))
}
