package ports

import "go.trai.ch/hexfetch/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks

// ConfigLoader loads the engine configuration.
type ConfigLoader interface {
	// Load reads the configuration from the given working directory,
	// applying defaults for anything not set.
	Load(cwd string) (*domain.Config, error)
}

// LockLoader reads and re-emits the host's lock file. The lock format is
// owned by the host; entries are normalized into domain.LockEntry at this
// boundary.
type LockLoader interface {
	// LoadLock returns the lock entries keyed by application name.
	// A missing lock file yields an empty map.
	LoadLock(cwd string) (map[string]*domain.LockEntry, error)

	// SaveLock writes the (possibly updated) entries back.
	SaveLock(cwd string, locks map[string]*domain.LockEntry) error
}
