package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemapd/internal/app"
	"git.home.luguber.info/inful/sitemapd/internal/config"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
)

// Global carries shared state into subcommands.
type Global struct {
	Out io.Writer // command output; stdout when nil
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitemapd.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve      ServeCmd      `cmd:"" help:"Serve sitemaps over HTTP and keep the cache fresh"`
	Generate   GenerateCmd   `cmd:"" help:"Write every sitemap part of the configured sites to a directory"`
	Invalidate InvalidateCmd `cmd:"" help:"Drop cached sitemap parts so the next request regenerates them"`
	Extract    ExtractCmd    `cmd:"" help:"Print the entries a site's sitemap would contain"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// newLogger builds the logger described by cfg. verbose forces debug.
func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if config.NormalizeLogFormat(string(cfg.Format)) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadApp loads the configuration, applies its logging settings and wires the app.
func loadApp(ctx context.Context, root *CLI) (*app.App, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(newLogger(os.Stderr, cfg.Monitoring.Logging, root.Verbose))

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return a, nil
}

// selectSites returns the site called name, or every site when name is empty.
func selectSites(a *app.App, name string) ([]*app.Site, error) {
	if name == "" {
		return a.Sites(), nil
	}
	s, ok := a.Site(name)
	if !ok {
		return nil, errors.NotFoundError("unknown site").WithContext("site", name).Build()
	}
	return []*app.Site{s}, nil
}
