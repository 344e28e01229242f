// Package filestore keeps every option in a single YAML document on disk.
// Writes go through renameio so a crash never leaves a half-written file.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingspage/pkg/store"
)

type document struct {
	Options map[string]map[string]string `yaml:"options"`
}

// Store reads the document on every call so edits made by other processes are
// picked up; writers in this process are serialised by mu.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ store.Store = (*Store)(nil)

// Open returns a store for path, creating parent directories as needed. The
// file itself is created on first write.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Get(ctx context.Context, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	value, ok := doc.Options[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	if value == nil {
		value = map[string]string{}
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Options[key] = store.Clone(value)
	return s.write(doc)
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return false, err
	}
	_, ok := doc.Options[key]
	return ok, nil
}

func (s *Store) Add(ctx context.Context, key string, value map[string]string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return false, err
	}
	if _, ok := doc.Options[key]; ok {
		return false, nil
	}
	doc.Options[key] = store.Clone(value)
	if err := s.write(doc); err != nil {
		return false, err
	}
	return true, nil
}

// Close is a no-op; the file is not held open between calls.
func (s *Store) Close() error { return nil }

func (s *Store) read() (document, error) {
	doc := document{Options: make(map[string]map[string]string)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("filestore: read %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("filestore: parse %s: %w", s.path, err)
	}
	if doc.Options == nil {
		doc.Options = make(map[string]map[string]string)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("filestore: encode: %w", err)
	}

	pending, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("filestore: create pending file: %w", err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("filestore: write: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("filestore: replace %s: %w", s.path, err)
	}
	return nil
}
