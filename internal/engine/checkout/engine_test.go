package checkout_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hexfetch/internal/adapters/cache"
	"go.trai.ch/hexfetch/internal/adapters/telemetry"
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/core/ports"
	"go.trai.ch/hexfetch/internal/core/ports/mocks"
	"go.trai.ch/hexfetch/internal/engine/checkout"
	"go.uber.org/mock/gomock"
)

type engineFixture struct {
	cfg      *domain.Config
	cache    *cache.Cache
	fetcher  *mocks.MockFetcher
	tokens   *mocks.MockTokenStore
	unpacker *mocks.MockUnpacker
	logger   *mocks.MockLogger
	engine   *checkout.Engine
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *engineFixture {
	t.Helper()

	cfg := &domain.Config{
		RegistryURL:    "https://repo.example.com",
		CacheRoot:      filepath.Join(t.TempDir(), "cache"),
		DepsRoot:       filepath.Join(t.TempDir(), "deps"),
		RequestTimeout: time.Second,
	}

	f := &engineFixture{
		cfg:      cfg,
		cache:    cache.New(cfg),
		fetcher:  mocks.NewMockFetcher(ctrl),
		tokens:   mocks.NewMockTokenStore(ctrl),
		unpacker: mocks.NewMockUnpacker(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	f.engine = checkout.NewEngine(
		cfg, f.cache, f.fetcher, f.tokens, f.unpacker, f.logger, telemetry.NewNoOp(),
	)
	return f
}

func (f *engineFixture) opts(lock *domain.LockEntry, app string) checkout.Opts {
	return checkout.Opts{App: app, Dest: f.cfg.DestDir(app), Lock: lock}
}

// expectUnpack registers an unpack expectation that creates the destination
// directory, as the real unpacker does.
func (f *engineFixture) expectUnpack(meta domain.PackageMeta) *gomock.Call {
	return f.unpacker.EXPECT().
		Unpack(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dest string, _ domain.PackageKey) (domain.PackageMeta, error) {
			if err := os.MkdirAll(dest, 0o750); err != nil {
				return domain.PackageMeta{}, err
			}
			return meta, nil
		})
}

func plugLock() *domain.LockEntry {
	lock := domain.NewLockEntry("plug", "1.14.0")
	lock.Checksum = "deadbeef"
	lock.Deps = []string{"telemetry", "mime"}
	return lock
}

func TestEngine_CheckoutDownloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	key := lock.Key()
	body := []byte("archive bytes")

	f.tokens.EXPECT().Get(key).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), key, "").
		Return(ports.FetchResponse{Body: body, ETag: `"abc123"`}, nil)
	f.tokens.EXPECT().Put(key, domain.CacheToken{
		ETag:   `"abc123"`,
		Digest: cache.Digest(body),
		Size:   int64(len(body)),
	}).Return(nil)
	f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs", "lib/plug.ex"}})

	updated, outcome, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	require.NoError(t, err)

	assert.Equal(t, domain.FetchDownloaded, outcome.Status)
	assert.Equal(t, `"abc123"`, outcome.ETag)

	// Archive landed in the cache.
	data, err := f.cache.Read(f.cache.Path(key))
	require.NoError(t, err)
	assert.Equal(t, body, data)

	// Manifest records the checkout.
	manifest, err := os.ReadFile(filepath.Join(f.cfg.DestDir("plug"), domain.ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, "plug,1.14.0,deadbeef\nmix\n", string(manifest))

	// Updated lock entry carries inferred managers and sorted deps.
	assert.Equal(t, []string{"mix"}, updated.Managers)
	assert.Equal(t, []string{"mime", "telemetry"}, updated.Deps)

	// And the checkout now evaluates as current.
	assert.Equal(t, domain.LockOk, checkout.Evaluate(f.cfg.DestDir("plug"), lock))
}

func TestEngine_CheckoutNotModifiedKeepsCacheAndToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	key := lock.Key()

	_, err := f.cache.Write(f.cache.Path(key), []byte("cached archive"))
	require.NoError(t, err)

	f.tokens.EXPECT().Get(key).Return(&domain.CacheToken{ETag: `"abc123"`}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), key, `"abc123"`).
		Return(ports.FetchResponse{NotModified: true}, nil)
	// No Put: the stored token stays untouched.
	f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs"}})

	_, outcome, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	require.NoError(t, err)
	assert.Equal(t, domain.FetchUsedCache, outcome.Status)

	data, err := f.cache.Read(f.cache.Path(key))
	require.NoError(t, err)
	assert.Equal(t, []byte("cached archive"), data)
}

func TestEngine_CheckoutOfflineUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	key := lock.Key()

	digest, err := f.cache.Write(f.cache.Path(key), []byte("cached archive"))
	require.NoError(t, err)

	f.tokens.EXPECT().Get(key).Return(&domain.CacheToken{ETag: `"abc123"`, Digest: digest}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), key, `"abc123"`).
		Return(ports.FetchResponse{Offline: true}, nil)
	f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs"}})

	_, outcome, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	require.NoError(t, err)
	assert.Equal(t, domain.FetchUsedCacheOffline, outcome.Status)
}

func TestEngine_CheckoutOfflineWithoutCacheFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	f.tokens.EXPECT().Get(lock.Key()).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), lock.Key(), "").
		Return(ports.FetchResponse{Offline: true}, nil)

	_, _, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestEngine_CheckoutFallsBackToCacheOnFetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	key := lock.Key()
	boom := errors.New("connection refused")

	digest, err := f.cache.Write(f.cache.Path(key), []byte("cached archive"))
	require.NoError(t, err)

	f.tokens.EXPECT().Get(key).Return(&domain.CacheToken{ETag: `"abc123"`, Digest: digest}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), key, `"abc123"`).
		Return(ports.FetchResponse{}, boom)
	f.logger.EXPECT().Warn(gomock.Any())
	f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs"}})

	_, outcome, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	require.NoError(t, err)

	assert.Equal(t, domain.FetchCacheFallback, outcome.Status)
	assert.ErrorIs(t, outcome.FallbackErr, boom)
}

func TestEngine_CheckoutFetchErrorWithoutCacheIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	f.tokens.EXPECT().Get(lock.Key()).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), lock.Key(), "").
		Return(ports.FetchResponse{}, errors.New("connection refused"))

	_, _, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestEngine_CheckoutCorruptCacheIsNoFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	key := lock.Key()

	digest, err := f.cache.Write(f.cache.Path(key), []byte("cached archive"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(f.cache.Path(key), []byte("tampered"), 0o644))

	f.tokens.EXPECT().Get(key).Return(&domain.CacheToken{ETag: `"abc123"`, Digest: digest}, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), key, `"abc123"`).
		Return(ports.FetchResponse{}, errors.New("connection refused"))

	_, _, err = f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestEngine_CheckoutMissingLock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	_, _, err := f.engine.Checkout(t.Context(), f.opts(nil, "plug"))
	assert.ErrorIs(t, err, domain.ErrLockMissing)
}

func TestEngine_CheckoutUnpackFailureLeavesNoDestination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	key := lock.Key()

	f.tokens.EXPECT().Get(key).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), key, "").
		Return(ports.FetchResponse{Body: []byte("bad archive"), ETag: `"x"`}, nil)
	f.tokens.EXPECT().Put(key, gomock.Any()).Return(nil)
	f.unpacker.EXPECT().
		Unpack(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dest string, _ domain.PackageKey) (domain.PackageMeta, error) {
			// Simulate a partial extraction before the failure.
			_ = os.MkdirAll(dest, 0o750)
			return domain.PackageMeta{}, errors.New("corrupt archive")
		})

	dest := f.cfg.DestDir("plug")
	_, _, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	assert.ErrorIs(t, err, domain.ErrUnpackFailed)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEngine_CheckoutSharedDependencyFetchesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	lock := plugLock()
	key := lock.Key()
	body := []byte("archive bytes")

	f.tokens.EXPECT().Get(key).Return(nil, nil).Times(1)
	f.fetcher.EXPECT().Fetch(gomock.Any(), key, "").
		Return(ports.FetchResponse{Body: body, ETag: `"abc123"`}, nil).Times(1)
	f.tokens.EXPECT().Put(key, gomock.Any()).Return(nil).Times(1)
	f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs"}}).Times(2)

	// Two applications pin the same package: the second checkout reuses
	// the memoized fetch outcome.
	_, first, err := f.engine.Checkout(t.Context(), f.opts(lock, "app_a"))
	require.NoError(t, err)
	_, second, err := f.engine.Checkout(t.Context(), f.opts(lock, "app_b"))
	require.NoError(t, err)

	assert.Equal(t, domain.FetchDownloaded, first.Status)
	assert.Equal(t, first, second)
}

func TestEngine_CheckoutLegacyManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)
	f.cfg.LegacyManifest = true

	lock := plugLock()
	f.tokens.EXPECT().Get(lock.Key()).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), lock.Key(), "").
		Return(ports.FetchResponse{Body: []byte("archive"), ETag: `"x"`}, nil)
	f.tokens.EXPECT().Put(lock.Key(), gomock.Any()).Return(nil)
	f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs"}})

	_, _, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
	require.NoError(t, err)

	manifest, err := os.ReadFile(filepath.Join(f.cfg.DestDir("plug"), domain.ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, "plug,1.14.0,deadbeef\n", string(manifest))

	// Both formats evaluate as current.
	assert.Equal(t, domain.LockOk, checkout.Evaluate(f.cfg.DestDir("plug"), lock))
}

func TestEngine_CheckoutTimeoutLeavesFetchRunning(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newFixture(t, ctrl)

		lock := plugLock()
		key := lock.Key()
		release := make(chan struct{})

		f.tokens.EXPECT().Get(key).Return(nil, nil)
		f.fetcher.EXPECT().Fetch(gomock.Any(), key, "").
			DoAndReturn(func(context.Context, domain.PackageKey, string) (ports.FetchResponse, error) {
				<-release
				return ports.FetchResponse{Body: []byte("archive"), ETag: `"x"`}, nil
			})
		f.tokens.EXPECT().Put(key, gomock.Any()).Return(nil)
		f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs"}})

		_, _, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
		assert.ErrorIs(t, err, domain.ErrFetchTimeout)

		// The fetch was not cancelled: once the registry responds, a retry
		// finds the memoized result and completes without a new request.
		close(release)
		f.engine.Wait()

		_, outcome, err := f.engine.Checkout(t.Context(), f.opts(lock, "plug"))
		require.NoError(t, err)
		assert.Equal(t, domain.FetchDownloaded, outcome.Status)
	})
}

func TestEngine_PrefetchSchedulesOnlyStaleEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	current := domain.NewLockEntry("mime", "2.0.0")
	writeManifest(t, f.cfg.DestDir("mime"), "mime,2.0.0,")

	stale := plugLock()
	foreign := domain.NewLockEntry("local_dep", "0.1.0")
	foreign.Source = "path"

	f.tokens.EXPECT().Get(stale.Key()).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), stale.Key(), "").
		Return(ports.FetchResponse{Body: []byte("archive"), ETag: `"x"`}, nil)
	f.tokens.EXPECT().Put(stale.Key(), gomock.Any()).Return(nil)

	f.engine.Prefetch(t.Context(), map[string]*domain.LockEntry{
		"mime":      current,
		"plug":      stale,
		"local_dep": foreign,
	})
	f.engine.Wait()

	// The later checkout of the prefetched package resolves from the
	// memoized outcome without touching the fetcher again.
	f.expectUnpack(domain.PackageMeta{Files: []string{"mix.exs"}})
	_, outcome, err := f.engine.Checkout(t.Context(), f.opts(stale, "plug"))
	require.NoError(t, err)
	assert.Equal(t, domain.FetchDownloaded, outcome.Status)
}
