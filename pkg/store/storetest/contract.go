// Package storetest holds the behaviour every store.Store implementation must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-settingspage/pkg/store"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store

// Run exercises the store contract against stores built by factory.
func Run(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		s := factory(t)
		_, err := s.Get(context.Background(), "wporg_options")
		if !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		ok, err := s.Exists(context.Background(), "wporg_options")
		if err != nil {
			t.Fatalf("exists: %v", err)
		}
		if ok {
			t.Fatalf("expected option to be absent")
		}
	})

	t.Run("put then get", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		value := map[string]string{"activate": "activate", "text": "<b>hi</b>"}
		if err := s.Put(ctx, "wporg_options", value); err != nil {
			t.Fatalf("put: %v", err)
		}
		got, err := s.Get(ctx, "wporg_options")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if diff := cmp.Diff(value, got); diff != "" {
			t.Fatalf("stored value mismatch (-want +got):\n%s", diff)
		}
		ok, err := s.Exists(ctx, "wporg_options")
		if err != nil || !ok {
			t.Fatalf("expected option to exist, ok=%v err=%v", ok, err)
		}
	})

	t.Run("put overwrites wholesale", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		if err := s.Put(ctx, "wporg_options", map[string]string{"radio": "1", "text": "a"}); err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := s.Put(ctx, "wporg_options", map[string]string{"radio": "2"}); err != nil {
			t.Fatalf("put: %v", err)
		}
		got, err := s.Get(ctx, "wporg_options")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if diff := cmp.Diff(map[string]string{"radio": "2"}, got); diff != "" {
			t.Fatalf("expected wholesale overwrite (-want +got):\n%s", diff)
		}
	})

	t.Run("add is create only", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		wrote, err := s.Add(ctx, "wporg_options", map[string]string{"text": "first"})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if !wrote {
			t.Fatalf("expected first add to write")
		}
		wrote, err = s.Add(ctx, "wporg_options", map[string]string{"text": "second"})
		if err != nil {
			t.Fatalf("second add: %v", err)
		}
		if wrote {
			t.Fatalf("expected second add to be a no-op")
		}
		got, err := s.Get(ctx, "wporg_options")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got["text"] != "first" {
			t.Fatalf("expected first value to survive, got %q", got["text"])
		}
	})

	t.Run("empty value round trips", func(t *testing.T) {
		s := factory(t)
		ctx := context.Background()
		if err := s.Put(ctx, "empty", map[string]string{}); err != nil {
			t.Fatalf("put: %v", err)
		}
		got, err := s.Get(ctx, "empty")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty map, got %v", got)
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		s := factory(t)
		if err := s.Put(context.Background(), "  ", map[string]string{}); err == nil {
			t.Fatalf("expected error for empty key")
		}
	})
}
