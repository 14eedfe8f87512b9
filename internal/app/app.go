// Package app implements the application layer for hexfetch.
package app

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/hexfetch/internal/core/ports"
	"go.trai.ch/hexfetch/internal/engine/checkout"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	cfg       *domain.Config
	locks     ports.LockLoader
	engine    *checkout.Engine
	log       ports.Logger
	telemetry ports.Telemetry
}

// New creates a new App instance.
func New(cfg *domain.Config, locks ports.LockLoader, engine *checkout.Engine, log ports.Logger) *App {
	return &App{
		cfg:    cfg,
		locks:  locks,
		engine: engine,
		log:    log,
	}
}

// SetTelemetry swaps the engine's telemetry recorder. Used by the CLI to
// enable progress rendering.
func (a *App) SetTelemetry(t ports.Telemetry) {
	a.telemetry = t
	a.engine.WithTelemetry(t)
}

// Close flushes the telemetry recorder, if one was set.
func (a *App) Close() error {
	if a.telemetry == nil {
		return nil
	}
	return a.telemetry.Close()
}

// CheckoutAll brings every locked package up to date with the lock file in
// the working directory. Fetches for stale entries start concurrently up
// front; checkouts then run sequentially in application order and the lock
// file is re-emitted with the updated entries.
func (a *App) CheckoutAll(ctx context.Context) error {
	locks, err := a.locks.LoadLock(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load lock file")
	}
	if len(locks) == 0 {
		a.log.Info("no locked packages")
		return nil
	}

	a.engine.Prefetch(ctx, locks)

	updated := maps.Clone(locks)
	for _, name := range slices.Sorted(maps.Keys(locks)) {
		lock := locks[name]
		if lock == nil || lock.Source != domain.SourceHex {
			continue
		}

		dest := a.cfg.DestDir(name)
		if checkout.Evaluate(dest, lock) == domain.LockOk {
			continue
		}

		entry, _, err := a.engine.Checkout(ctx, checkout.Opts{App: name, Dest: dest, Lock: lock})
		if err != nil {
			return err
		}
		updated[name] = entry
	}
	a.engine.Wait()

	if err := a.locks.SaveLock(".", updated); err != nil {
		return zerr.Wrap(err, "failed to save lock file")
	}
	return nil
}

// Prefetch warms the archive cache for every stale locked package without
// touching any checkout.
func (a *App) Prefetch(ctx context.Context) error {
	locks, err := a.locks.LoadLock(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load lock file")
	}

	a.engine.Prefetch(ctx, locks)
	a.engine.Wait()
	return nil
}

// PackageStatus pairs an application name with the reconciliation result of
// its checkout.
type PackageStatus struct {
	App     string
	Name    string
	Version string
	Status  domain.LockStatus
}

// Statuses reconciles every locked package against its checkout, in
// application order.
func (a *App) Statuses() ([]PackageStatus, error) {
	locks, err := a.locks.LoadLock(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load lock file")
	}

	statuses := make([]PackageStatus, 0, len(locks))
	for _, name := range slices.Sorted(maps.Keys(locks)) {
		lock := locks[name]
		statuses = append(statuses, PackageStatus{
			App:     name,
			Name:    lock.Name,
			Version: lock.Version,
			Status:  checkout.Evaluate(a.cfg.DestDir(name), lock),
		})
	}
	return statuses, nil
}
