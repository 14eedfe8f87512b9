package domain

// FetchStatus classifies how a checkout obtained its archive.
type FetchStatus string

const (
	// FetchUsedCache means the registry confirmed the cached archive is
	// still current.
	FetchUsedCache FetchStatus = "cached"
	// FetchUsedCacheOffline means the cached archive was used without any
	// network access because offline mode is set.
	FetchUsedCacheOffline FetchStatus = "cached offline"
	// FetchDownloaded means a new archive was downloaded and cached.
	FetchDownloaded FetchStatus = "downloaded"
	// FetchCacheFallback means the fetch failed but a previously cached
	// archive was used instead.
	FetchCacheFallback FetchStatus = "cached fallback"
)

// FetchOutcome is the result of a single coordinated fetch. Shared verbatim
// by every waiter on the same package key.
type FetchOutcome struct {
	Status FetchStatus

	// ETag is the validation token returned with a download, empty
	// otherwise.
	ETag string

	// FallbackErr records why the fetch failed when Status is
	// FetchCacheFallback.
	FallbackErr error
}

// LockStatus is the result of reconciling an on-disk manifest against the
// current lock entry for a destination.
type LockStatus int

const (
	// LockMismatch means the checkout does not match the lock entry (or
	// there is no readable manifest) and must be redone.
	LockMismatch LockStatus = iota
	// LockOk means the checkout is current.
	LockOk
	// LockOutdated means the lock entry is not managed by this engine.
	LockOutdated
)

// String implements fmt.Stringer.
func (s LockStatus) String() string {
	switch s {
	case LockOk:
		return "ok"
	case LockOutdated:
		return "outdated"
	default:
		return "mismatch"
	}
}
