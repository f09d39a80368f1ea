package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
)

// Config represents the sitemapd configuration.
type Config struct {
	Cache        CacheConfig        `yaml:"cache"`
	Store        StoreConfig        `yaml:"store"`
	Sites        []SiteConfig       `yaml:"sites"`
	Server       ServerConfig       `yaml:"server"`
	Invalidation InvalidationConfig `yaml:"invalidation"`
	Monitoring   MonitoringConfig   `yaml:"monitoring"`
}

// CacheConfig configures cache locations and split bounds. Bounds <= 0 are unbounded.
type CacheConfig struct {
	Location          string `yaml:"location"`
	MaxEntriesCount   int    `yaml:"max_entries_count"`
	MaxFileSize       int    `yaml:"max_file_size"`
	ServiceSubservice string `yaml:"service_subservice"`
}

// StoreConfig selects and configures the backing store.
type StoreConfig struct {
	Backend           StoreBackend `yaml:"backend"`
	AllowedIdentities []string     `yaml:"allowed_identities,omitempty"`
	SQLite            SQLiteConfig `yaml:"sqlite"`
	NATS              NATSConfig   `yaml:"nats"`
}

// SQLiteConfig configures the sqlite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// NATSConfig configures the JetStream KV backend.
type NATSConfig struct {
	URL            string `yaml:"url"`
	Bucket         string `yaml:"bucket"`
	ConnectRetries int    `yaml:"connect_retries"`
}

// SiteConfig describes one sitemap root and the tree behind it.
type SiteConfig struct {
	Name        string     `yaml:"name"`
	Root        string     `yaml:"root"`   // content path of the sitemap root
	Source      string     `yaml:"source"` // directory backing the tree
	Format      SiteFormat `yaml:"format"`
	BaseURL     string     `yaml:"base_url,omitempty"`
	StripPrefix string     `yaml:"strip_prefix,omitempty"`
	Extension   string     `yaml:"extension,omitempty"`
	GitInfo     bool       `yaml:"git_info,omitempty"`
	Properties  []string   `yaml:"properties,omitempty"`
	ChangeFreq  string     `yaml:"changefreq,omitempty"`
	Priority    string     `yaml:"priority,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// InvalidationConfig drives the daemon. A zero interval disables periodic invalidation.
type InvalidationConfig struct {
	Interval time.Duration `yaml:"interval"`
	Warm     bool          `yaml:"warm"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// MonitoringConfig groups metrics and logging.
type MonitoringConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads, expands, defaults and validates the configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	// #nosec G304 - config path is provided by the operator
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration after ${VAR} expansion, then applies
// defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Site returns the site configured under name.
func (c *Config) Site(name string) (*SiteConfig, bool) {
	for i := range c.Sites {
		if c.Sites[i].Name == name {
			return &c.Sites[i], true
		}
	}
	return nil, false
}
