package cmd

import (
	"context"
	"errors"

	"github.com/gopak/plugpak/internal/cache"
	"github.com/gopak/plugpak/internal/config"
	"github.com/gopak/plugpak/internal/index"
	"github.com/gopak/plugpak/internal/installer"
	"github.com/gopak/plugpak/internal/local"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/gopak/plugpak/internal/registry"
	"github.com/gopak/plugpak/internal/settings"
	"github.com/gopak/plugpak/internal/ui/console"
)

// app wires the components every command needs.
type app struct {
	cfg       config.Config
	settings  *settings.Store
	cache     *cache.Store
	registry  *registry.Registry
	installer *installer.Installer
	ui        *console.ConsoleUI
}

func newApp() (*app, error) {
	cfg := config.Get()
	dataDir := cfg.ResolvedDataDir()
	installDir := cfg.ResolvedInstallDir()

	st, err := settings.Open(dataDir)
	if err != nil {
		return nil, err
	}
	store, cacheErr := cache.Open(dataDir)
	ttl, err := cfg.TTL()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	client := index.NewClient(index.Options{Timeout: timeout, Retries: cfg.Retries()})
	source := index.NewSource(cfg.RepoURL, st.PackageSourcesPath(), client)
	logging.Debug("package source", "source", source.String())

	reg := registry.New(registry.Options{
		Local:    local.NewScanner(installDir),
		Remote:   source,
		Cache:    store,
		CacheErr: cacheErr,
		CacheTTL: ttl,
	})
	in := installer.New(installer.Options{
		Root:         installDir,
		Downloader:   client,
		Notifier:     reg,
		BuildCommand: cfg.BuildCommand,
		Settings:     st,
	})
	return &app{
		cfg:       cfg,
		settings:  st,
		cache:     store,
		registry:  reg,
		installer: in,
		ui:        console.NewConsoleUI(reg, in, st),
	}, nil
}

func (a *app) Close() { a.ui.Close() }

// load brings the catalog up at startup, reporting degradation as warnings.
func (a *app) load(ctx context.Context) error {
	if err := a.reportDegraded(a.registry.Load(ctx)); err != nil {
		return err
	}
	a.warnIncompatible()
	return nil
}

func (a *app) reportDegraded(err error) error {
	var degraded *registry.DegradedError
	if !errors.As(err, &degraded) {
		return err
	}
	for _, w := range degraded.Warnings {
		logging.Warn(w.Error())
	}
	return nil
}

func (a *app) warnIncompatible() {
	if a.cfg.HostUUID == "" {
		return
	}
	for _, p := range a.registry.LocalPackages() {
		if !p.CompatibleWith(a.cfg.HostUUID) {
			logging.Warn("installed plugin does not declare compatibility with this host", "package", p.Name)
		}
	}
}

// withApp builds the app, loads the catalog and runs fn.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.load(ctx); err != nil {
		return err
	}
	return fn(a)
}
