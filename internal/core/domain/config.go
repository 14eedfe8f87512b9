package domain

import (
	"path/filepath"
	"time"
)

// Config carries the process-wide settings of the engine. It is an explicit
// value passed into constructors so tests can vary configuration per case
// without shared mutable state.
type Config struct {
	// RegistryURL is the base URL of the package registry.
	RegistryURL string

	// CacheRoot is the directory holding cached package archives.
	CacheRoot string

	// DepsRoot is the directory under which packages are checked out,
	// one destination per application.
	DepsRoot string

	// Offline disables all network access; fetches are served from the
	// cache or fail.
	Offline bool

	// RequestTimeout bounds a single registry request.
	RequestTimeout time.Duration

	// LegacyManifest selects the historical one-line manifest format.
	// Resolved once at startup, never re-checked.
	LegacyManifest bool
}

// FetchTimeout is how long a checkout waits for its fetch result before
// giving up: twice the per-request timeout.
func (c *Config) FetchTimeout() time.Duration {
	return 2 * c.RequestTimeout
}

// DestDir returns the checkout destination for the given application.
func (c *Config) DestDir(app string) string {
	return filepath.Join(c.DepsRoot, app)
}
