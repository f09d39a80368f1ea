// Package app assembles the sitemap service from its configuration: the
// backing store, one extractor per site and the cache in front of them.
package app

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitemapd/internal/config"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
	"git.home.luguber.info/inful/sitemapd/internal/metrics"
	"git.home.luguber.info/inful/sitemapd/internal/retry"
	"git.home.luguber.info/inful/sitemapd/internal/sitemap"
	"git.home.luguber.info/inful/sitemapd/internal/sitemapcache"
	"git.home.luguber.info/inful/sitemapd/internal/store"
)

// App holds the wired components.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Registry *sitemap.Registry
	Cache    *sitemapcache.Cache
	Metrics  *prom.Registry

	sites []*Site
}

// New wires cfg. The returned App owns the store; call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	sites := make([]*Site, 0, len(cfg.Sites))
	reg := sitemap.NewRegistry()
	for _, sc := range cfg.Sites {
		site, err := NewSite(sc)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(site.Extractor()); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}

	backend, err := OpenBackend(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	st := store.New(backend,
		store.WithName(string(cfg.Store.Backend)),
		store.WithAllowedIdentities(cfg.Store.AllowedIdentities...))

	promReg := metrics.NewRegistry()
	cache := sitemapcache.New(st, reg, sitemapcache.Config{
		Location:          cfg.Cache.Location,
		MaxEntriesCount:   cfg.Cache.MaxEntriesCount,
		MaxFileSize:       cfg.Cache.MaxFileSize,
		ServiceSubservice: cfg.Cache.ServiceSubservice,
	}, sitemapcache.WithRecorder(metrics.NewPrometheusRecorder(promReg)))

	slog.Info("Sitemap service configured",
		logfields.Store(st.Name()),
		slog.Int("sites", len(sites)),
		slog.String("location", cfg.Cache.Location))

	return &App{
		Config:   cfg,
		Store:    st,
		Registry: reg,
		Cache:    cache,
		Metrics:  promReg,
		sites:    sites,
	}, nil
}

// OpenBackend creates the store backend selected by cfg.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (store.Backend, error) {
	switch cfg.Backend {
	case config.StoreMemory:
		return store.NewMemoryBackend(), nil
	case config.StoreSQLite:
		return store.NewSQLiteBackend(cfg.SQLite.Path)
	case config.StoreNATS:
		policy := retry.NewPolicy(retry.ModeExponential, 0, 0, cfg.NATS.ConnectRetries)
		return store.NewNATSBackend(ctx, cfg.NATS.URL, cfg.NATS.Bucket, policy)
	default:
		return nil, errors.ConfigError("unsupported store backend").
			WithContext("backend", string(cfg.Backend)).
			Build()
	}
}

// Sites returns the configured sites in configuration order.
func (a *App) Sites() []*Site { return a.sites }

// Site returns the site named name.
func (a *App) Site(name string) (*Site, bool) {
	for _, s := range a.sites {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
