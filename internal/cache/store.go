package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMiss is returned by Store.Get when a key is absent or has expired.
var ErrMiss = errors.New("cache miss")

// Store is a key/value store for JSON documents with per-key expiry.
// A zero ttl means the entry does not expire.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a deterministic key from the parameters that affect a cached
// value, so different locations, methods and schools never share an entry.
func Key(kind string, parts ...any) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteByte('|')
		switch v := p.(type) {
		case float64:
			fmt.Fprintf(&b, "%.6f", v)
		case time.Time:
			b.WriteString(v.Format("2006-01-02"))
		default:
			fmt.Fprint(&b, v)
		}
	}
	h := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s_%x", kind, h[:8]) // 16 hex chars is plenty for uniqueness
}

// Load reads and decodes the value stored under key. It reports false on a
// miss and on any read or decode failure: a broken cache only costs a
// recomputation.
func Load[T any](ctx context.Context, s Store, key string) (T, bool) {
	var v T
	data, err := s.Get(ctx, key)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// Save encodes v as JSON and stores it under key.
func Save(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return s.Set(ctx, key, data, ttl)
}
