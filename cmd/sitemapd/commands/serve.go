package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitemapd/internal/daemon"
	"git.home.luguber.info/inful/sitemapd/internal/metrics"
	"git.home.luguber.info/inful/sitemapd/internal/server/handlers"
	"git.home.luguber.info/inful/sitemapd/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Listen address, overrides server.addr"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := loadApp(ctx, root)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	cfg := a.Config
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	httpSites := make([]handlers.Site, 0, len(a.Sites()))
	daemonSites := make([]daemon.Site, 0, len(a.Sites()))
	for _, site := range a.Sites() {
		httpSites = append(httpSites, site)
		daemonSites = append(daemonSites, site)
	}

	opts := httpserver.Options{Addr: cfg.Server.Addr, StoreName: a.Store.Name()}
	if cfg.Monitoring.Metrics.Enabled {
		opts.MetricsPath = cfg.Monitoring.Metrics.Path
		opts.Metrics = metrics.HTTPHandler(a.Metrics)
	}
	srv := httpserver.New(a.Cache, httpSites, opts)

	d, err := daemon.New(cfg.Invalidation, a.Cache, daemonSites, srv)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	slog.Info("Starting sitemapd", slog.String("addr", cfg.Server.Addr), slog.Int("sites", len(httpSites)))
	return d.Run(ctx)
}
