package userstore

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type (
	// fileStore keeps one JSON document per line. It is meant for small
	// single-process deployments: concurrent registrations may interleave
	// the duplicate check and the append, the sqlite backend should be
	// used when that matters.
	fileStore struct {
		path string

		init    sync.Once
		initErr error
	}

	fileRecord struct {
		ID           string    `json:"id"`
		FirstName    string    `json:"firstName"`
		LastName     string    `json:"lastName"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"passwordHash"`
		CreatedAt    time.Time `json:"createdAt"`
	}
)

// OpenFile opens the flat-file user store at path, the file itself is
// created lazily on first use.
func OpenFile(path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory %v to store users file, cause %w", dir, err)
		}
	}
	return &fileStore{path: path}, nil
}

func (f *fileStore) ensureFile() error {
	f.init.Do(func() {
		// O_EXCL keeps a re-open from truncating existing records
		fd, err := os.OpenFile(f.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, fs.ErrExist) {
			return
		} else if err != nil {
			f.initErr = fmt.Errorf("unable to create users file %v, cause %w", f.path, err)
			return
		}
		fd.Close()
	})
	return f.initErr
}

func (f *fileStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = NormalizeEmail(email)
	return f.scan(ctx, func(u *User) bool { return u.Email == email })
}

func (f *fileStore) FindByID(ctx context.Context, id string) (*User, error) {
	return f.scan(ctx, func(u *User) bool { return u.ID == id })
}

func (f *fileStore) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error) {
	existing, err := f.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
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
	buf, err := json.Marshal(fileRecord(u))
	if err != nil {
		return nil, fmt.Errorf("unable to encode user record, cause %w", err)
	}
	fd, err := os.OpenFile(f.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open users file %v for append, cause %w", f.path, err)
	}
	defer fd.Close()
	_, err = fd.Write(append(buf, '\n'))
	if err != nil {
		return nil, fmt.Errorf("unable to append user record to %v, cause %w", f.path, err)
	}
	return &u, nil
}

func (f *fileStore) Close() error {
	// nothing held open between calls
	return nil
}

func (f *fileStore) scan(ctx context.Context, match func(*User) bool) (*User, error) {
	if err := f.ensureFile(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fd, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("unable to open users file %v, cause %w", f.path, err)
	}
	defer fd.Close()
	lines := bufio.NewScanner(fd)
	for lines.Scan() {
		if len(lines.Bytes()) == 0 {
			continue
		}
		var rec fileRecord
		err = json.Unmarshal(lines.Bytes(), &rec)
		if err != nil {
			return nil, fmt.Errorf("unable to decode user record from %v, cause %w", f.path, err)
		}
		u := User(rec)
		if match(&u) {
			return &u, nil
		}
	}
	if err := lines.Err(); err != nil {
		return nil, fmt.Errorf("unable to read users file %v, cause %w", f.path, err)
	}
	return nil, nil
}
