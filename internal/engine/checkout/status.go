package checkout

import (
	"os"
	"path/filepath"

	"go.trai.ch/hexfetch/internal/core/domain"
)

// Evaluate reconciles the on-disk manifest at dest against the current lock
// entry. An unreadable or absent manifest is never an error; it simply
// means the checkout must be redone.
func Evaluate(dest string, lock *domain.LockEntry) domain.LockStatus {
	if lock == nil {
		return domain.LockMismatch
	}
	if lock.Source != domain.SourceHex {
		return domain.LockOutdated
	}

	data, err := os.ReadFile(filepath.Join(dest, domain.ManifestFile)) //nolint:gosec // dest is derived from the deps root
	if err != nil {
		return domain.LockMismatch
	}
	m, err := domain.DecodeManifest(string(data))
	if err != nil {
		return domain.LockMismatch
	}

	if m.Name != lock.Name || m.Version != lock.Version {
		return domain.LockMismatch
	}

	// An unset lock checksum accepts any manifest checksum. The reverse
	// does not hold: a set lock checksum requires the manifest to carry
	// the identical one, so historical unpinned lock entries keep working
	// while a pinned entry never trusts an unverified checkout.
	if lock.Checksum == "" || m.Checksum == lock.Checksum {
		return domain.LockOk
	}
	return domain.LockMismatch
}
