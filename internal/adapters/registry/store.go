package registry

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/zerr"
)

// MetaStore implements ports.TokenStore using a flat JSON file. The file
// holds one entry per package key: the registry's validation token plus the
// digest of the cached archive bytes.
type MetaStore struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.CacheToken
}

// NewMetaStore creates a MetaStore backed by the file at the given path.
func NewMetaStore(path string) (*MetaStore, error) {
	s := &MetaStore{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.CacheToken),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MetaStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read registry metadata store")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal registry metadata store")
	}

	return nil
}

func (s *MetaStore) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal registry metadata store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for registry metadata store")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write registry metadata store")
	}

	return nil
}

// Get returns the recorded token for key, or nil when none is recorded.
func (s *MetaStore) Get(key domain.PackageKey) (*domain.CacheToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.cache[key.String()]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

// Put records the token for key, replacing any previous one.
func (s *MetaStore) Put(key domain.PackageKey, token domain.CacheToken) error {
	s.mu.Lock()
	s.cache[key.String()] = token
	s.mu.Unlock()

	return s.save()
}
