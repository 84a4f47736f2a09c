package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/geo"
)

const (
	entryFile = "%s.json"
	geoKey    = "geolocation"
	geoTTL    = 24 * time.Hour
)

// Cache is a file-based Store: one JSON file per key under a directory.
type Cache struct {
	dir string
	now func() time.Time
}

// fileEntry is the on-disk form of a cached value.
type fileEntry struct {
	ExpiresAt time.Time       `json:"expires_at,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to ~/.cache/miqat/.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "miqat")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &Cache{dir: dir, now: time.Now}, nil
}

// Dir returns the directory holding the cache files.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf(entryFile, key))
}

// Get implements Store.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("corrupt cache file %s: %w", c.path(key), err)
	}
	if !entry.ExpiresAt.IsZero() && c.now().After(entry.ExpiresAt) {
		return nil, ErrMiss
	}
	return entry.Value, nil
}

// Set implements Store. The file is written to a temporary name first so a
// concurrent reader never sees a partial entry.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo(ctx context.Context) *geo.Location {
	loc, ok := Load[geo.Location](ctx, c, geoKey)
	if !ok {
		return nil
	}
	return &loc
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(ctx context.Context, loc *geo.Location) error {
	if err := Save(ctx, c, geoKey, loc, geoTTL); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}
	return nil
}
