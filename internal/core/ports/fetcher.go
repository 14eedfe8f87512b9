// Package ports defines the interfaces between the engine and its adapters.
package ports

import (
	"context"

	"go.trai.ch/hexfetch/internal/core/domain"
)

// FetchResponse is the outcome of a single conditional fetch attempt.
type FetchResponse struct {
	// NotModified is set when the registry confirmed the cached archive is
	// still current for the supplied validation token.
	NotModified bool

	// Offline is set when the fetch was skipped entirely because offline
	// mode is enabled. No network access happened.
	Offline bool

	// Body holds the archive bytes of a successful download.
	Body []byte

	// ETag is the validation token issued with a successful download.
	ETag string
}

// Fetcher performs conditional fetches against the package registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch requests the archive for key, sending etag as the cache
	// validation token when non-empty. Transport and HTTP-level failures
	// are returned as errors; no retry or backoff is attempted here.
	Fetch(ctx context.Context, key domain.PackageKey, etag string) (FetchResponse, error)
}
