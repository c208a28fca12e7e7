package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/parleyhq/parley/internal/store"
	"github.com/parleyhq/parley/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "parley.db"))
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	return s
}

func TestSqliteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}
