// Package daemon keeps cached sitemaps fresh while sitemapd serves them:
// periodic invalidation through gocron and change-driven invalidation through
// fsnotify.
package daemon

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitemapd/internal/config"
	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
	"git.home.luguber.info/inful/sitemapd/internal/sitemap"
)

// Site is a served sitemap root backed by a source directory.
type Site interface {
	Name() string
	RootPath() string
	SourceDir() string
	Format() config.SiteFormat
	Page() content.Page
	URLBuilder() sitemap.URLBuilder
}

// Cache is the part of the sitemap cache the daemon drives.
type Cache interface {
	Invalidate(ctx context.Context, rootPath string) error
	Warm(ctx context.Context, root content.Page, ub sitemap.URLBuilder) bool
}

// refresh drops the site's cached parts and optionally regenerates them.
func refresh(ctx context.Context, cache Cache, site Site, warm bool) error {
	if err := cache.Invalidate(ctx, site.RootPath()); err != nil {
		return err
	}
	if warm && !cache.Warm(ctx, site.Page(), site.URLBuilder()) {
		slog.Warn("Sitemap warm-up failed", logfields.Site(site.Name()))
	}
	return nil
}

// WarmAll generates every site's sitemap unless it is already cached.
func WarmAll(ctx context.Context, cache Cache, sites []Site) {
	for _, s := range sites {
		if ctx.Err() != nil {
			return
		}
		if !cache.Warm(ctx, s.Page(), s.URLBuilder()) {
			slog.Warn("Sitemap warm-up failed", logfields.Site(s.Name()))
		}
	}
}
