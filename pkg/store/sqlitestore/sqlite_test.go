package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-settingspage/pkg/store"
	"github.com/goliatone/go-settingspage/pkg/store/sqlitestore"
	"github.com/goliatone/go-settingspage/pkg/store/storetest"
)

func TestSQLiteContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := sqlitestore.Open(context.Background(), filepath.Join(t.TempDir(), "options.db"), sqlitestore.Config{})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.db")
	ctx := context.Background()

	s, err := sqlitestore.Open(ctx, path, sqlitestore.DefaultConfig())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Put(ctx, "wporg_options", map[string]string{"radio": "2"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := sqlitestore.Open(ctx, path, sqlitestore.DefaultConfig())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "wporg_options")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["radio"] != "2" {
		t.Fatalf("expected persisted radio value, got %q", got["radio"])
	}
}
