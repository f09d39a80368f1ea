package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitemapd/internal/config"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP surface the daemon starts and stops.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Daemon runs the server together with the configured invalidation triggers.
type Daemon struct {
	cfg       config.InvalidationConfig
	cache     Cache
	sites     []Site
	server    Server
	scheduler *Scheduler
	watcher   *ContentWatcher
}

// New creates a daemon. Triggers disabled in cfg are not created.
func New(cfg config.InvalidationConfig, cache Cache, sites []Site, server Server) (*Daemon, error) {
	d := &Daemon{cfg: cfg, cache: cache, sites: sites, server: server}

	if cfg.Interval > 0 {
		s, err := NewScheduler(cache, cfg.Warm)
		if err != nil {
			return nil, err
		}
		if _, err := s.ScheduleRefresh(cfg.Interval, sites); err != nil {
			_ = s.Stop()
			return nil, err
		}
		d.scheduler = s
	}

	if cfg.Watch {
		w, err := NewContentWatcher(cache, sites, cfg.Debounce, cfg.Warm)
		if err != nil {
			if d.scheduler != nil {
				_ = d.scheduler.Stop()
			}
			return nil, err
		}
		d.watcher = w
	}
	return d, nil
}

// Run starts everything and blocks until ctx is done, then shuts down.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.server.Start(ctx); err != nil {
		d.stopTriggers()
		return err
	}

	if d.cfg.Warm {
		go WarmAll(ctx, d.cache, d.sites)
	}
	if d.scheduler != nil {
		d.scheduler.Start(ctx)
		slog.Info("Periodic invalidation enabled", slog.Duration("interval", d.cfg.Interval))
	}
	if d.watcher != nil {
		if err := d.watcher.Start(ctx); err != nil {
			slog.Error("Content watcher failed to start", logfields.Error(err))
		}
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	errs := []error{d.server.Stop(stopCtx)}
	errs = append(errs, d.stopTriggers()...)
	return errors.Join(errs...)
}

func (d *Daemon) stopTriggers() []error {
	var errs []error
	if d.scheduler != nil {
		errs = append(errs, d.scheduler.Stop())
	}
	if d.watcher != nil {
		errs = append(errs, d.watcher.Stop())
	}
	return errs
}
