// Package config provides the configuration and lock file loader.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the configuration filename looked up in the
	// working directory.
	DefaultConfigFile = "hexfetch.yaml"
	// DefaultLockFile is the lock filename looked up in the working
	// directory.
	DefaultLockFile = "hexfetch.lock"

	defaultRegistry       = "https://repo.hex.pm"
	defaultDepsRoot       = "deps"
	defaultRequestTimeout = 15 * time.Second
)

// Loader reads the engine configuration and the host lock file from a
// working directory.
type Loader struct {
	ConfigFile string
	LockFile   string
}

// NewLoader creates a Loader using the default filenames.
func NewLoader() *Loader {
	return &Loader{
		ConfigFile: DefaultConfigFile,
		LockFile:   DefaultLockFile,
	}
}

// Load reads hexfetch.yaml from cwd and applies defaults. A missing file
// yields the default configuration. The legacy manifest capability is
// resolved here, once, and never re-checked at runtime.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	var file File

	data, err := os.ReadFile(filepath.Join(cwd, l.ConfigFile)) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, zerr.Wrap(err, "failed to read config file")
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.Wrap(err, "failed to parse config file")
		}
	}

	cfg := &domain.Config{
		RegistryURL:    file.Registry,
		CacheRoot:      file.CacheRoot,
		DepsRoot:       file.DepsRoot,
		Offline:        file.Offline || os.Getenv("HEX_OFFLINE") != "",
		RequestTimeout: defaultRequestTimeout,
		LegacyManifest: file.LegacyManifest,
	}

	if cfg.RegistryURL == "" {
		cfg.RegistryURL = defaultRegistry
	}
	if cfg.DepsRoot == "" {
		cfg.DepsRoot = filepath.Join(cwd, defaultDepsRoot)
	}
	if cfg.CacheRoot == "" {
		root, err := os.UserCacheDir()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to determine user cache directory")
		}
		cfg.CacheRoot = filepath.Join(root, "hexfetch")
	}
	if file.RequestTimeout != "" {
		timeout, err := time.ParseDuration(file.RequestTimeout)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid request timeout"), "value", file.RequestTimeout)
		}
		cfg.RequestTimeout = timeout
	}

	return cfg, nil
}

// LoadLock reads the lock file from cwd and normalizes every entry into a
// domain.LockEntry. A missing lock file yields an empty map.
func (l *Loader) LoadLock(cwd string) (map[string]*domain.LockEntry, error) {
	locks := make(map[string]*domain.LockEntry)

	data, err := os.ReadFile(filepath.Join(cwd, l.LockFile)) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return locks, nil
		}
		return nil, zerr.Wrap(err, "failed to read lock file")
	}

	var file LockFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse lock file")
	}

	for app, dto := range file.Packages {
		if dto.Name == "" || dto.Version == "" {
			return nil, zerr.With(zerr.New("lock entry is missing name or version"), "app", app)
		}
		entry := domain.NewLockEntry(dto.Name, dto.Version)
		if dto.Source != "" {
			entry.Source = dto.Source
		}
		entry.Checksum = dto.Checksum
		entry.Managers = dto.Managers
		entry.Deps = dto.Deps
		locks[app] = entry
	}

	return locks, nil
}

// SaveLock re-emits the lock entries to the lock file in cwd.
func (l *Loader) SaveLock(cwd string, locks map[string]*domain.LockEntry) error {
	file := LockFile{Packages: make(map[string]LockEntryDTO, len(locks))}
	for app, entry := range locks {
		file.Packages[app] = LockEntryDTO{
			Source:   entry.Source,
			Name:     entry.Name,
			Version:  entry.Version,
			Checksum: entry.Checksum,
			Managers: entry.Managers,
			Deps:     entry.Deps,
		}
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal lock file")
	}

	//nolint:gosec // path is provided by user
	if err := os.WriteFile(filepath.Join(cwd, l.LockFile), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write lock file")
	}
	return nil
}
