package testutil

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/andrebq/staccoa/userstore"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireSQLiteStore opens a sqlite user store in a temp directory,
// the returned cleanup closes the store and removes the directory.
func AcquireSQLiteStore(ctx context.Context, t TestLog) (userstore.Store, func()) {
	dir, err := ioutil.TempDir("", "staccoa-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := userstore.OpenSQLite(ctx, filepath.Join(dir, "users.db"))
	if err != nil {
		t.Fatal(err)
	}
	return store, cleanupFn(t, store, dir)
}

// AcquireFileStore opens a flat-file user store in a temp directory,
// the returned cleanup closes the store and removes the directory.
func AcquireFileStore(ctx context.Context, t TestLog) (userstore.Store, func()) {
	dir, err := ioutil.TempDir("", "staccoa-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := userstore.OpenFile(filepath.Join(dir, "users.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	return store, cleanupFn(t, store, dir)
}

func cleanupFn(t TestLog, store userstore.Store, dir string) func() {
	return func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close user store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
