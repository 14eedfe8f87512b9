// Package registry implements the HTTP registry client and the metadata
// store for cached archives.
package registry

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/core/ports"
	"go.trai.ch/zerr"
)

// Client performs conditional fetches against the package registry.
// It distinguishes "unchanged" from "new body" via ETags and does not
// retry; fallback policy lives in the checkout engine.
type Client struct {
	base    string
	offline bool
	client  *http.Client
	log     ports.Logger
}

// NewClient creates a registry client from the engine configuration.
func NewClient(cfg *domain.Config, log ports.Logger) *Client {
	return &Client{
		base:    strings.TrimRight(cfg.RegistryURL, "/"),
		offline: cfg.Offline,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		log:     log,
	}
}

// Fetch requests the archive for key, validating against etag when set.
// In offline mode it returns immediately without touching the network.
func (c *Client) Fetch(ctx context.Context, key domain.PackageKey, etag string) (ports.FetchResponse, error) {
	if c.offline {
		return ports.FetchResponse{Offline: true}, nil
	}

	url := c.base + "/tarballs/" + key.String() + ".tar"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.FetchResponse{}, zerr.Wrap(err, "failed to build registry request")
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ports.FetchResponse{}, zerr.With(zerr.Wrap(err, "registry request failed"), "package", key.String())
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return ports.FetchResponse{NotModified: true}, nil
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return ports.FetchResponse{}, zerr.With(zerr.Wrap(err, "failed to read registry response"), "package", key.String())
		}
		return ports.FetchResponse{Body: body, ETag: resp.Header.Get("ETag")}, nil
	default:
		err := zerr.With(zerr.New("unexpected registry response"), "status", resp.StatusCode)
		return ports.FetchResponse{}, zerr.With(err, "package", key.String())
	}
}
