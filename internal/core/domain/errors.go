package domain

import "go.trai.ch/zerr"

var (
	// ErrLockMissing is returned when a checkout is requested for a package
	// that has no entry in the lock file.
	ErrLockMissing = zerr.New("package is not locked, no version to fetch")

	// ErrFetchFailed is returned when the registry could not deliver an
	// archive and no cached copy exists to fall back to.
	ErrFetchFailed = zerr.New("package fetch failed")

	// ErrFetchTimeout is returned when waiting on an in-flight fetch exceeds
	// the configured fetch timeout. The fetch itself keeps running.
	ErrFetchTimeout = zerr.New("timed out waiting for package fetch")

	// ErrUnpackFailed is returned when the archive could not be extracted
	// into the destination directory.
	ErrUnpackFailed = zerr.New("failed to unpack package archive")

	// ErrCacheCorrupt is returned when a cached archive no longer matches
	// the digest recorded when it was written.
	ErrCacheCorrupt = zerr.New("cached archive digest mismatch")

	// ErrManifestMalformed is returned when a manifest's first line does not
	// carry at least a name and a version. Status evaluation folds it into
	// a Mismatch rather than surfacing it.
	ErrManifestMalformed = zerr.New("malformed checkout manifest")
)
