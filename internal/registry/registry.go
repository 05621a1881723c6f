// Package registry owns the installed and remote package catalogs and
// publishes catalog and package notifications to observers.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopak/plugpak/internal/cache"
	"github.com/gopak/plugpak/internal/catalog"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/gopak/plugpak/internal/notify"
	"golang.org/x/sync/errgroup"
)

// LocalSource lists installed packages. A nil list with an error means the
// install directory could not be read at all.
type LocalSource interface {
	Scan(ctx context.Context) ([]catalog.Package, error)
}

// RemoteSource fetches the package index.
type RemoteSource interface {
	Fetch(ctx context.Context) ([]catalog.Package, error)
}

// CacheStore persists the last-known lists between runs.
type CacheStore interface {
	Snapshot() cache.Snapshot
	Save(cache.Snapshot) error
}

type Options struct {
	Local  LocalSource
	Remote RemoteSource
	// Cache is optional; without it nothing survives the process.
	Cache CacheStore
	// CacheErr is the error returned when Cache was opened. It is reported by
	// the first Load or ReloadPackages.
	CacheErr error
	// Bus is optional; a private bus is created when nil.
	Bus *notify.Bus[notify.Event]
	// CacheTTL bounds how long Load trusts the cached remote list. Zero never expires.
	CacheTTL time.Duration
	Now      func() time.Time
}

type Registry struct {
	local  LocalSource
	remote RemoteSource
	cache  CacheStore
	bus    *notify.Bus[notify.Event]
	ttl    time.Duration
	now    func() time.Time

	snap atomic.Pointer[catalog.Catalog]

	// guarded by reloadMu
	reloadMu  sync.Mutex
	baseline  cache.Snapshot
	fetchedAt time.Time
	cacheErr  error
}

// New builds a registry seeded with the cached lists, so readers see the
// last-known catalog before the first Load.
func New(opts Options) *Registry {
	r := &Registry{
		local:    opts.Local,
		remote:   opts.Remote,
		cache:    opts.Cache,
		bus:      opts.Bus,
		ttl:      opts.CacheTTL,
		now:      opts.Now,
		cacheErr: opts.CacheErr,
	}
	if r.bus == nil {
		r.bus = notify.NewBus[notify.Event]()
	}
	if r.bus.OnPanic == nil {
		r.bus.OnPanic = func(v any) { logging.Warn("notification dropped", "err", v) }
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.cache != nil {
		r.baseline = r.cache.Snapshot()
		r.fetchedAt = r.baseline.FetchedAt
	}
	r.snap.Store(&catalog.Catalog{
		Local:       catalog.Dedupe(r.baseline.LocalPackages),
		Remote:      catalog.Dedupe(r.baseline.RemotePackages),
		AddedLocal:  []string{},
		AddedRemote: []string{},
	})
	return r
}

// Snapshot returns the current catalog. It must not be modified.
func (r *Registry) Snapshot() *catalog.Catalog { return r.snap.Load() }

func (r *Registry) LocalPackages() []catalog.Package {
	return clonePackages(r.snap.Load().Local)
}

func (r *Registry) RemotePackages() []catalog.Package {
	return clonePackages(r.snap.Load().Remote)
}

// AllPackages is the merged view: installed records win over index entries.
func (r *Registry) AllPackages() []catalog.Package {
	return r.snap.Load().All()
}

func (r *Registry) AddedLocalPackages() []string {
	return append([]string(nil), r.snap.Load().AddedLocal...)
}

func (r *Registry) AddedRemotePackages() []string {
	return append([]string(nil), r.snap.Load().AddedRemote...)
}

// Find looks name up in the merged view.
func (r *Registry) Find(name string) (catalog.Package, bool) {
	return catalog.Find(r.AllPackages(), name)
}

// Load is the startup path: the cached remote list is used while it is fresh.
func (r *Registry) Load(ctx context.Context) error {
	return r.reload(ctx, true)
}

// ReloadPackages re-scans the install dir and re-fetches the index concurrently,
// then swaps the catalog in one step. The returned error is either a context
// error (nothing swapped) or a *DegradedError (swapped with fallbacks).
func (r *Registry) ReloadPackages(ctx context.Context) error {
	return r.reload(ctx, false)
}

func (r *Registry) reload(ctx context.Context, preferCache bool) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	prev := r.snap.Load()
	start := r.now()

	var (
		local, remote       []catalog.Package
		localErr, remoteErr error
		fromCache           bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		local, localErr = r.local.Scan(gctx)
		return ctx.Err()
	})
	g.Go(func() error {
		if preferCache && r.cache != nil && r.cacheFresh(start) {
			remote, fromCache = r.cache.Snapshot().RemotePackages, true
			return nil
		}
		remote, remoteErr = r.remote.Fetch(gctx)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var warnings []error
	if r.cacheErr != nil {
		warnings = append(warnings, r.cacheErr)
		r.cacheErr = nil
	}
	switch {
	case localErr == nil:
	case local != nil:
		warnings = append(warnings, warn(ErrInvalidRecords, localErr))
	default:
		warnings = append(warnings, warn(ErrLocalUnreadable, localErr))
		local = prev.Local
	}
	fetchedAt := r.fetchedAt
	switch {
	case fromCache:
	case remoteErr != nil:
		warnings = append(warnings, warn(ErrRemoteUnavailable, remoteErr))
		remote = prev.Remote
	default:
		fetchedAt = start
	}

	local, remote = catalog.Dedupe(local), catalog.Dedupe(remote)
	next := &catalog.Catalog{
		Local:       local,
		Remote:      remote,
		AddedLocal:  added(r.baseline.LocalPackages, local),
		AddedRemote: added(r.baseline.RemotePackages, remote),
		LoadedAt:    start,
	}
	r.snap.Store(next)
	r.fetchedAt = fetchedAt

	if r.cache != nil {
		err := r.cache.Save(cache.Snapshot{RemotePackages: remote, LocalPackages: local, FetchedAt: fetchedAt})
		if err != nil {
			warnings = append(warnings, fmt.Errorf("%w: save: %w", ErrCacheCorrupt, err))
		}
	}

	logging.Debug("catalog reloaded",
		"local", len(local), "remote", len(remote),
		"new", len(next.AddedRemote), "cached", fromCache, "warnings", len(warnings))
	r.publish(notify.Event{Kind: notify.ListUpdated, At: start})

	if len(warnings) > 0 {
		return &DegradedError{Warnings: warnings}
	}
	return nil
}

func (r *Registry) cacheFresh(now time.Time) bool {
	snap := r.cache.Snapshot()
	if len(snap.RemotePackages) == 0 {
		return false
	}
	return snap.Fresh(r.ttl, now)
}

// PostUserNotificationForInstalledPackage tells observers p was just installed.
func (r *Registry) PostUserNotificationForInstalledPackage(p catalog.Package) {
	r.publish(notify.Event{Kind: notify.PackageInstalled, Package: p, At: r.now()})
}

// PostUserNotificationForUpdatedPackage tells observers p was just updated.
func (r *Registry) PostUserNotificationForUpdatedPackage(p catalog.Package) {
	r.publish(notify.Event{Kind: notify.PackageUpdated, Package: p, At: r.now()})
}

// Subscribe registers fn for every event and returns its unsubscribe function.
func (r *Registry) Subscribe(fn func(notify.Event)) func() {
	return r.bus.Subscribe(fn)
}

func (r *Registry) publish(ev notify.Event) {
	logging.Debug("notify", "event", ev.String())
	r.bus.Publish(ev)
}

func added(baseline, current []catalog.Package) []string {
	if len(baseline) == 0 {
		return []string{}
	}
	return catalog.Added(baseline, current)
}

func clonePackages(pkgs []catalog.Package) []catalog.Package {
	if pkgs == nil {
		return []catalog.Package{}
	}
	out := make([]catalog.Package, len(pkgs))
	copy(out, pkgs)
	return out
}

// IsCancelled reports whether err came from context cancellation rather than degradation.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
