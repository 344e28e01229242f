// Package store defines the key-value option storage the settings page
// persists its record through, plus an in-memory implementation. Durable
// backends live in the sqlitestore, badgerstore, redisstore and filestore
// subpackages.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("store: option not found")

// Store persists option values keyed by option name. Values are flat string
// maps; Put overwrites wholesale and Add only writes when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (map[string]string, error)
	Put(ctx context.Context, key string, value map[string]string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Add creates the option when absent and reports whether it wrote.
	Add(ctx context.Context, key string, value map[string]string) (bool, error)
	Close() error
}

// ValidateKey trims key and rejects empty names.
func ValidateKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("store: option key is required")
	}
	return trimmed, nil
}

// Encode serialises an option value for byte-oriented backends.
func Encode(value map[string]string) ([]byte, error) {
	if value == nil {
		value = map[string]string{}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("store: encode option: %w", err)
	}
	return data, nil
}

// Decode parses a payload produced by Encode.
func Decode(data []byte) (map[string]string, error) {
	out := map[string]string{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("store: decode option: %w", err)
	}
	return out, nil
}

// Clone copies an option value so callers cannot mutate stored state.
func Clone(value map[string]string) map[string]string {
	if value == nil {
		return nil
	}
	out := make(map[string]string, len(value))
	for k, v := range value {
		out[k] = v
	}
	return out
}
