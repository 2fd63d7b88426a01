// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flightcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// Persister loads the cache at startup and rewrites it at shutdown.
type Persister interface {
	Load(ctx context.Context) ([]types.FlightCacheEntry, error)
	Save(ctx context.Context, entries []types.FlightCacheEntry) error
	Close() error
}

// ErrMissing is returned when the configured cache does not exist yet.
var ErrMissing = errors.New("flight cache not initialized")

// Open returns the persister selected by cfg.Backend for an existing cache.
// A missing cache is an error; Create makes a new one.
func Open(cfg types.CacheConfig) (Persister, error) {
	if err := checkBackend(cfg.Backend); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run \"world-explorer cache init\")", ErrMissing, cfg.Path)
		}
		return nil, fmt.Errorf("checking flight cache %s: %w", cfg.Path, err)
	}
	return open(cfg)
}

// Create returns the persister for cfg, writing an empty cache first when
// none exists. An existing cache is left untouched.
func Create(ctx context.Context, cfg types.CacheConfig) (Persister, error) {
	_, statErr := os.Stat(cfg.Path)
	p, err := open(cfg)
	if err != nil {
		return nil, err
	}
	if os.IsNotExist(statErr) {
		if err := p.Save(ctx, nil); err != nil {
			p.Close()
			return nil, err
		}
	}
	return p, nil
}

func open(cfg types.CacheConfig) (Persister, error) {
	if err := checkBackend(cfg.Backend); err != nil {
		return nil, err
	}
	if cfg.Backend == types.CacheSQLite {
		return NewSQLiteStore(cfg.Path)
	}
	return NewFileStore(cfg.Path), nil
}

func checkBackend(b types.CacheBackend) error {
	switch b {
	case types.CacheJSON, types.CacheSQLite, "":
		return nil
	}
	return fmt.Errorf("unsupported cache backend %q: use json or sqlite", b)
}

// LoadCache opens the persisted entries through p into a new Cache.
func LoadCache(ctx context.Context, p Persister, radiusKm float64) (*Cache, error) {
	entries, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(radiusKm, entries), nil
}

// FileStore persists the cache as a JSON array in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the cache file. A missing, empty, or malformed file is an error.
func (s *FileStore) Load(_ context.Context) ([]types.FlightCacheEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, s.path)
		}
		return nil, fmt.Errorf("reading flight cache %s: %w", s.path, err)
	}
	entries, err := readEntries(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return entries, nil
}

// Save rewrites the cache file. The new content is written to a temporary
// file and renamed over the old one.
func (s *FileStore) Save(_ context.Context, entries []types.FlightCacheEntry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".flights-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeEntries(tmp, entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting cache file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing flight cache %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
