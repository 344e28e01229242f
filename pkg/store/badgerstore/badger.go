// Package badgerstore persists options in an embedded Badger database.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/goliatone/go-settingspage/pkg/store"
)

const keyPrefix = "opt:"

// Store keeps each option under "opt:<name>" as JSON.
type Store struct {
	db *badger.DB
}

var _ store.Store = (*Store)(nil)

// Open opens the Badger database rooted at path. An empty path opens an
// in-memory database.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return nil, err
	}

	var out map[string]string
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := store.Decode(val)
			if err != nil {
				return err
			}
			out = decoded
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badgerstore: get %q: %w", key, err)
	}
	return out, nil
}

func (s *Store) Put(ctx context.Context, key string, value map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return err
	}
	payload, err := store.Encode(value)
	if err != nil {
		return err
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey(key), payload)
	}); err != nil {
		return fmt.Errorf("badgerstore: put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(dbKey(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badgerstore: exists %q: %w", key, err)
	}
	return true, nil
}

// Add checks and writes inside one transaction; a concurrent writer surfaces
// as badger.ErrConflict rather than a silent overwrite.
func (s *Store) Add(ctx context.Context, key string, value map[string]string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}
	payload, err := store.Encode(value)
	if err != nil {
		return false, err
	}

	wrote := false
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(dbKey(key))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(dbKey(key), payload); err != nil {
			return err
		}
		wrote = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("badgerstore: add %q: %w", key, err)
	}
	return wrote, nil
}

func (s *Store) Close() error { return s.db.Close() }

func dbKey(key string) []byte {
	return []byte(keyPrefix + key)
}
