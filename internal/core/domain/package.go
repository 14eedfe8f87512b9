// Package domain contains the core types of the checkout engine.
package domain

import "slices"

// SourceHex is the lock entry source tag this engine is responsible for.
// Entries carrying any other tag belong to a different fetcher.
const SourceHex = "hex"

// PackageKey is the identity of a fetchable, cacheable package unit.
// No two distinct archives may share a key.
type PackageKey struct {
	Name    string
	Version string
}

// String returns the canonical "<name>-<version>" form used for cache
// filenames and coordinator keys.
func (k PackageKey) String() string {
	return k.Name + "-" + k.Version
}

// LockEntry is a resolved dependency pin consumed from the host's lock file.
// Name and Version are always present; Checksum and Managers may be empty.
// The engine only reads and re-emits lock entries, it never resolves them.
type LockEntry struct {
	Source   string
	Name     string
	Version  string
	Checksum string
	Managers []string
	Deps     []string
}

// NewLockEntry builds a hex-sourced lock entry for the given pin.
func NewLockEntry(name, version string) *LockEntry {
	return &LockEntry{
		Source:  SourceHex,
		Name:    name,
		Version: version,
	}
}

// Key returns the package identity of the entry.
func (l *LockEntry) Key() PackageKey {
	return PackageKey{Name: l.Name, Version: l.Version}
}

// Updated returns a copy of the entry carrying the managers inferred during
// checkout and the dependency list in sorted order. The original entry is
// left untouched.
func (l *LockEntry) Updated(managers []string) *LockEntry {
	deps := slices.Clone(l.Deps)
	slices.Sort(deps)

	return &LockEntry{
		Source:   l.Source,
		Name:     l.Name,
		Version:  l.Version,
		Checksum: l.Checksum,
		Managers: slices.Clone(managers),
		Deps:     deps,
	}
}

// PackageMeta is what the unpacker reports about an extracted archive: the
// relative paths it wrote and the build tools the package metadata declares.
// BuildTools is nil when the metadata carries no build_tools entry at all,
// as opposed to an explicitly empty list.
type PackageMeta struct {
	Files      []string
	BuildTools []string
}
