package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultApplier sets defaults for one configuration domain.
type DefaultApplier interface {
	Domain() string
	ApplyDefaults(cfg *Config) error
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite applier with every domain applier.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&CacheDefaultApplier{},
			&StoreDefaultApplier{},
			&SiteDefaultApplier{},
			&ServerDefaultApplier{},
			&InvalidationDefaultApplier{},
			&MonitoringDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// GetApplierByDomain returns a specific domain applier.
func (c *CompositeDefaultApplier) GetApplierByDomain(domain string) DefaultApplier {
	for _, applier := range c.appliers {
		if applier.Domain() == domain {
			return applier
		}
	}
	return nil
}

// CacheDefaultApplier handles cache defaults.
type CacheDefaultApplier struct{}

func (*CacheDefaultApplier) Domain() string { return "cache" }

func (*CacheDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Cache.Location == "" {
		cfg.Cache.Location = "/var/sitemaps"
	}
	if cfg.Cache.ServiceSubservice == "" {
		cfg.Cache.ServiceSubservice = "sitemap"
	}
	return nil
}

// StoreDefaultApplier handles store defaults.
type StoreDefaultApplier struct{}

func (*StoreDefaultApplier) Domain() string { return "store" }

func (*StoreDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = StoreSQLite
	} else if b := storeBackendNormalizer.Normalize(string(cfg.Store.Backend)); b != "" {
		cfg.Store.Backend = b
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = "./sitemap-cache.db"
	}
	if cfg.Store.NATS.URL == "" {
		cfg.Store.NATS.URL = "nats://127.0.0.1:4222"
	}
	if cfg.Store.NATS.Bucket == "" {
		cfg.Store.NATS.Bucket = "sitemap_cache"
	}
	if cfg.Store.NATS.ConnectRetries == 0 {
		cfg.Store.NATS.ConnectRetries = 3
	}
	return nil
}

// SiteDefaultApplier handles per-site defaults.
type SiteDefaultApplier struct{}

func (*SiteDefaultApplier) Domain() string { return "sites" }

func (*SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	for i := range cfg.Sites {
		s := &cfg.Sites[i]
		if s.Format == "" {
			s.Format = FormatMarkdown
		} else if f := siteFormatNormalizer.Normalize(string(s.Format)); f != "" {
			s.Format = f
		}
		if s.Root == "" && s.Name != "" {
			s.Root = "/" + s.Name
		}
		if len(s.Root) > 1 {
			s.Root = strings.TrimSuffix(s.Root, "/")
		}
		if s.StripPrefix == "" {
			s.StripPrefix = s.Root
		}
		if s.Extension == "" {
			s.Extension = ".html"
		}
		if len(s.Properties) == 0 {
			s.Properties = []string{"lastmod"}
		}
	}
	return nil
}

// ServerDefaultApplier handles HTTP defaults.
type ServerDefaultApplier struct{}

func (*ServerDefaultApplier) Domain() string { return "server" }

func (*ServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	return nil
}

// InvalidationDefaultApplier handles daemon defaults.
type InvalidationDefaultApplier struct{}

func (*InvalidationDefaultApplier) Domain() string { return "invalidation" }

func (*InvalidationDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Invalidation.Debounce == 0 {
		cfg.Invalidation.Debounce = 2 * time.Second
	}
	return nil
}

// MonitoringDefaultApplier handles monitoring defaults.
type MonitoringDefaultApplier struct{}

func (*MonitoringDefaultApplier) Domain() string { return "monitoring" }

func (*MonitoringDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = "/metrics"
	}
	cfg.Monitoring.Logging.Level = NormalizeLogLevel(string(cfg.Monitoring.Logging.Level))
	cfg.Monitoring.Logging.Format = NormalizeLogFormat(string(cfg.Monitoring.Logging.Format))
	return nil
}
