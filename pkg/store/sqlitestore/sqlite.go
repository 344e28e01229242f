// Package sqlitestore persists options in a SQLite table using the pure Go
// modernc driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/goliatone/go-settingspage/pkg/store"
)

const schema = `CREATE TABLE IF NOT EXISTS options (
	option_name  TEXT PRIMARY KEY,
	option_value TEXT NOT NULL,
	updated_at   INTEGER NOT NULL
)`

// Config defines SQLite operational parameters.
type Config struct {
	BusyTimeout  time.Duration
	MaxOpenConns int
}

// DefaultConfig returns the settings used when callers pass a zero Config.
func DefaultConfig() Config {
	return Config{
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}
}

// Store is a store.Store backed by a single SQLite table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open creates (or reuses) the database at path and ensures the options table
// exists. WAL mode and busy_timeout are applied to every pooled connection.
func Open(ctx context.Context, path string, cfg Config) (*Store, error) {
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = DefaultConfig().BusyTimeout
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = DefaultConfig().MaxOpenConns
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: migrate: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Get(ctx context.Context, key string) (map[string]string, error) {
	key, err := store.ValidateKey(key)
	if err != nil {
		return nil, err
	}

	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT option_value FROM options WHERE option_name = ?`, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: get %q: %w", key, err)
	}
	return store.Decode([]byte(raw))
}

func (s *Store) Put(ctx context.Context, key string, value map[string]string) error {
	key, err := store.ValidateKey(key)
	if err != nil {
		return err
	}
	payload, err := store.Encode(value)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO options (option_name, option_value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(option_name) DO UPDATE SET option_value = excluded.option_value, updated_at = excluded.updated_at`,
		key, string(payload), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}

	var one int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM options WHERE option_name = ?`, key,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlitestore: exists %q: %w", key, err)
	}
	return true, nil
}

func (s *Store) Add(ctx context.Context, key string, value map[string]string) (bool, error) {
	key, err := store.ValidateKey(key)
	if err != nil {
		return false, err
	}
	payload, err := store.Encode(value)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO options (option_name, option_value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(option_name) DO NOTHING`,
		key, string(payload), s.now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("sqlitestore: add %q: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlitestore: add %q: %w", key, err)
	}
	return affected == 1, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
