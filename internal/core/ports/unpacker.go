package ports

import (
	"context"

	"go.trai.ch/hexfetch/internal/core/domain"
)

// Unpacker extracts a package archive into a destination directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=unpacker.go -destination=mocks/mock_unpacker.go -package=mocks
type Unpacker interface {
	// Unpack extracts the archive at archivePath into dest and reports the
	// package metadata. It fails on corrupt or unreadable input; dest must
	// not be trusted afterwards in that case.
	Unpack(ctx context.Context, archivePath, dest string, key domain.PackageKey) (domain.PackageMeta, error)
}
