// Package checkout implements the checkout orchestrator: it ensures a
// package archive is present and current, extracts it into its destination
// and records a manifest for later status checks.
package checkout

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/hexfetch/internal/adapters/cache"
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/core/ports"
	"go.trai.ch/hexfetch/internal/engine/fetchgroup"
	"go.trai.ch/zerr"
)

// Engine coordinates fetching, caching and unpacking of locked packages.
// Concurrent checkouts of shared dependencies are deduplicated per package
// key; the caller guarantees at most one checkout per destination directory.
type Engine struct {
	cfg       *domain.Config
	cache     *cache.Cache
	fetcher   ports.Fetcher
	tokens    ports.TokenStore
	unpacker  ports.Unpacker
	group     *fetchgroup.Group[domain.FetchOutcome]
	log       ports.Logger
	telemetry ports.Telemetry
}

// NewEngine creates an Engine from its collaborators.
func NewEngine(
	cfg *domain.Config,
	archives *cache.Cache,
	fetcher ports.Fetcher,
	tokens ports.TokenStore,
	unpacker ports.Unpacker,
	log ports.Logger,
	telemetry ports.Telemetry,
) *Engine {
	return &Engine{
		cfg:       cfg,
		cache:     archives,
		fetcher:   fetcher,
		tokens:    tokens,
		unpacker:  unpacker,
		group:     fetchgroup.New[domain.FetchOutcome](),
		log:       log,
		telemetry: telemetry,
	}
}

// WithTelemetry swaps the telemetry recorder. Used by the CLI to enable
// progress rendering.
func (e *Engine) WithTelemetry(t ports.Telemetry) *Engine {
	e.telemetry = t
	return e
}

// Opts describes a single checkout request.
type Opts struct {
	// App is the application identifier naming this dependency.
	App string
	// Dest is the destination directory; it is wiped and repopulated.
	Dest string
	// Lock is the pinned entry to check out. Nil means the package is not
	// locked, which is fatal.
	Lock *domain.LockEntry
}

// Checkout runs the full checkout sequence for one package and returns the
// updated lock entry together with how the archive was obtained.
func (e *Engine) Checkout(ctx context.Context, opts Opts) (*domain.LockEntry, domain.FetchOutcome, error) {
	var zero domain.FetchOutcome

	if opts.Lock == nil {
		return nil, zero, zerr.With(domain.ErrLockMissing, "package", opts.App)
	}
	lock := opts.Lock
	key := lock.Key()

	ctx, vtx := e.telemetry.Record(ctx, key.String())

	outcome, err := e.ensureFetched(ctx, key)
	if err != nil {
		vtx.Complete(err)
		return nil, zero, err
	}
	if outcome.Status != domain.FetchDownloaded {
		vtx.Cached()
	}

	if err := os.RemoveAll(opts.Dest); err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to clear destination"), "dest", opts.Dest)
		vtx.Complete(err)
		return nil, zero, err
	}

	meta, err := e.unpacker.Unpack(ctx, e.cache.Path(key), opts.Dest, key)
	if err != nil {
		// A failed extraction leaves no partial state behind: the next
		// attempt redoes the whole checkout.
		_ = os.RemoveAll(opts.Dest)
		err = zerr.With(errors.Join(domain.ErrUnpackFailed, err), "package", key.String())
		vtx.Complete(err)
		return nil, zero, err
	}

	managers := domain.InferManagers(meta)
	slices.Sort(managers)

	manifest := &domain.Manifest{
		Name:     lock.Name,
		Version:  lock.Version,
		Checksum: lock.Checksum,
		Managers: managers,
	}
	if err := e.writeManifest(opts.Dest, manifest); err != nil {
		vtx.Complete(err)
		return nil, zero, err
	}

	e.log.Info("checked out " + key.String() + " (" + string(outcome.Status) + ")")
	vtx.Complete(nil)
	return lock.Updated(managers), outcome, nil
}

// Prefetch walks a lock map and schedules coordinator work for every
// hex-sourced entry whose checkout is not current. It returns immediately;
// a later sequential pass of Checkout calls finds most awaits already
// resolved.
func (e *Engine) Prefetch(ctx context.Context, locks map[string]*domain.LockEntry) {
	fetchCtx := context.WithoutCancel(ctx)
	for app, lock := range locks {
		if lock == nil || lock.Source != domain.SourceHex {
			continue
		}
		if Evaluate(e.cfg.DestDir(app), lock) == domain.LockOk {
			continue
		}
		key := lock.Key()
		e.group.Run(key.String(), func() (domain.FetchOutcome, error) {
			return e.fetch(fetchCtx, key)
		})
	}
}

// Wait blocks until all scheduled fetches have completed.
func (e *Engine) Wait() {
	e.group.Wait()
}

// ensureFetched schedules the fetch for key (a no-op when prefetch already
// did) and waits for its shared result.
func (e *Engine) ensureFetched(ctx context.Context, key domain.PackageKey) (domain.FetchOutcome, error) {
	// The fetch must outlive a timed-out waiter, so it is detached from
	// the caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	e.group.Run(key.String(), func() (domain.FetchOutcome, error) {
		return e.fetch(fetchCtx, key)
	})
	return e.group.Await(key.String(), e.cfg.FetchTimeout())
}

// fetch performs the actual conditional fetch for key. It runs at most
// once per key per Engine, under the coordinator.
func (e *Engine) fetch(ctx context.Context, key domain.PackageKey) (domain.FetchOutcome, error) {
	var zero domain.FetchOutcome
	path := e.cache.Path(key)

	var etag, digest string
	token, err := e.tokens.Get(key)
	if err != nil {
		return zero, err
	}
	if token != nil {
		etag = token.ETag
		digest = token.Digest
	}

	resp, err := e.fetcher.Fetch(ctx, key, etag)
	if err != nil {
		if !e.cache.Exists(path) {
			return zero, zerr.With(errors.Join(domain.ErrFetchFailed, err), "package", key.String())
		}
		if _, verr := e.cache.ReadVerified(path, digest); verr != nil {
			// A corrupt cached archive is no fallback.
			return zero, zerr.With(errors.Join(domain.ErrFetchFailed, err, verr), "package", key.String())
		}
		e.log.Warn("fetch of " + key.String() + " failed, using cached archive")
		return domain.FetchOutcome{Status: domain.FetchCacheFallback, FallbackErr: err}, nil
	}

	switch {
	case resp.Offline:
		if !e.cache.Exists(path) {
			err := zerr.New("offline mode is enabled and no cached copy exists")
			return zero, zerr.With(errors.Join(domain.ErrFetchFailed, err), "package", key.String())
		}
		if _, verr := e.cache.ReadVerified(path, digest); verr != nil {
			return zero, verr
		}
		return domain.FetchOutcome{Status: domain.FetchUsedCacheOffline}, nil

	case resp.NotModified:
		// The cache file and the stored token stay untouched.
		return domain.FetchOutcome{Status: domain.FetchUsedCache}, nil

	default:
		newDigest, err := e.cache.Write(path, resp.Body)
		if err != nil {
			return zero, err
		}
		err = e.tokens.Put(key, domain.CacheToken{
			ETag:   resp.ETag,
			Digest: newDigest,
			Size:   int64(len(resp.Body)),
		})
		if err != nil {
			return zero, err
		}
		return domain.FetchOutcome{Status: domain.FetchDownloaded, ETag: resp.ETag}, nil
	}
}

// writeManifest persists the manifest at dest, atomically from the
// perspective of concurrent readers. The legacy capability, resolved once
// at startup, selects the historical one-line format.
func (e *Engine) writeManifest(dest string, m *domain.Manifest) error {
	text := m.Encode()
	if e.cfg.LegacyManifest {
		text = m.EncodeLegacy()
	}

	tmp, err := os.CreateTemp(dest, ".hex-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create manifest file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text + "\n"); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write manifest")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to close manifest")
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dest, domain.ManifestFile)); err != nil {
		return zerr.Wrap(err, "failed to move manifest into place")
	}
	return nil
}
