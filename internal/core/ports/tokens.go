package ports

import "go.trai.ch/hexfetch/internal/core/domain"

// TokenStore keeps registry metadata for cached archives: the validation
// token from the last download plus the digest of the cached bytes.
//
//go:generate go run go.uber.org/mock/mockgen -source=tokens.go -destination=mocks/mock_tokens.go -package=mocks
type TokenStore interface {
	// Get returns the recorded token for key. Returns nil when none is
	// recorded.
	Get(key domain.PackageKey) (*domain.CacheToken, error)

	// Put records the token for key, replacing any previous one.
	Put(key domain.PackageKey, token domain.CacheToken) error
}
