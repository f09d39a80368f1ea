package config

import (
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
)

// NATSMaxFileSize bounds cache.max_file_size for the nats backend: every
// sitemap part is one KV value and must fit the default 1 MiB max payload
// together with message headers.
const NATSMaxFileSize = 1<<20 - 64<<10

var knownProperties = map[string]bool{"lastmod": true, "changefreq": true, "priority": true, "image": true}

var changeFreqs = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

// Validate checks the defaulted configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) { problems = append(problems, fmt.Sprintf(format, args...)) }

	if !strings.HasPrefix(c.Cache.Location, "/") {
		add("cache.location must be an absolute path, got %q", c.Cache.Location)
	}

	if !storeBackendNormalizer.Valid(string(c.Store.Backend)) {
		add("store.backend %q is not one of %v", c.Store.Backend, storeBackendNormalizer.Keys())
	}
	if c.Store.Backend == StoreNATS && (c.Cache.MaxFileSize <= 0 || c.Cache.MaxFileSize > NATSMaxFileSize) {
		add("cache.max_file_size must be between 1 and %d bytes with the nats backend, got %d", NATSMaxFileSize, c.Cache.MaxFileSize)
	}

	if len(c.Sites) == 0 {
		add("at least one site is required")
	}
	seen := make(map[string]bool, len(c.Sites))
	roots := make(map[string]bool, len(c.Sites))
	for i, s := range c.Sites {
		label := fmt.Sprintf("sites[%d]", i)
		if s.Name == "" {
			add("%s.name is required", label)
		} else if seen[s.Name] {
			add("%s.name %q is duplicated", label, s.Name)
		}
		seen[s.Name] = true

		if !strings.HasPrefix(s.Root, "/") {
			add("%s.root must start with '/', got %q", label, s.Root)
		} else if roots[s.Root] {
			add("%s.root %q is used by another site", label, s.Root)
		}
		roots[s.Root] = true

		if s.Source == "" {
			add("%s.source is required", label)
		}
		if !siteFormatNormalizer.Valid(string(s.Format)) {
			add("%s.format %q is not one of %v", label, s.Format, siteFormatNormalizer.Keys())
		}
		for _, p := range s.Properties {
			if !knownProperties[p] {
				add("%s.properties: unknown property %q", label, p)
			}
		}
		if s.ChangeFreq != "" && !changeFreqs[strings.ToLower(s.ChangeFreq)] {
			add("%s.changefreq %q is not a sitemap change frequency", label, s.ChangeFreq)
		}
		if s.Priority != "" {
			if f, err := strconv.ParseFloat(s.Priority, 64); err != nil || f < 0 || f > 1 {
				add("%s.priority %q must be a number between 0.0 and 1.0", label, s.Priority)
			}
		}
	}

	if c.Invalidation.Interval < 0 {
		add("invalidation.interval cannot be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.ConfigError("invalid configuration").
		WithContext("problems", problems).
		WithCause(fmt.Errorf("%s", strings.Join(problems, "; "))).
		Build()
}
