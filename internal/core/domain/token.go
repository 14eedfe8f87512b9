package domain

// CacheToken is the registry metadata recorded for a cached archive: the
// server-issued validation token plus the digest and size of the bytes that
// were written. The digest lets the cached-fallback path reject a corrupted
// archive instead of silently using wrong content.
type CacheToken struct {
	ETag   string `json:"etag"`
	Digest string `json:"digest,omitempty"`
	Size   int64  `json:"size,omitempty"`
}
