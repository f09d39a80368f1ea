package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/sitemap"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Site   string `short:"s" help:"Only generate this site"`
	Output string `short:"o" help:"Output directory" default:"./public"`
	Cached bool   `help:"Write cached parts as they are instead of regenerating them"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	ctx := context.Background()
	a, err := loadApp(ctx, root)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	sites, err := selectSites(a, g.Site)
	if err != nil {
		return err
	}

	for _, site := range sites {
		if !g.Cached {
			if err := a.Cache.Invalidate(ctx, site.RootPath()); err != nil {
				return fmt.Errorf("invalidate %s: %w", site.Name(), err)
			}
		}
		parts, ok := a.Cache.Parts(ctx, site.Page(), site.URLBuilder())
		if !ok {
			return errors.ExtractionError("sitemap generation failed").WithContext("site", site.Name()).Build()
		}
		for i, doc := range parts {
			rel := strings.TrimPrefix(sitemap.SelectorURLBuilder{}.BuildSiteMapURL(site.RootPath(), i), "/")
			target := filepath.Join(g.Output, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := os.WriteFile(target, []byte(doc), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			_, _ = fmt.Fprintln(global.out(), target)
		}
	}
	return nil
}
