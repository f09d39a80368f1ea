package commands

import (
	"context"
	"fmt"
)

// InvalidateCmd implements the 'invalidate' command.
type InvalidateCmd struct {
	Site string `short:"s" help:"Only invalidate this site"`
}

func (i *InvalidateCmd) Run(global *Global, root *CLI) error {
	ctx := context.Background()
	a, err := loadApp(ctx, root)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	sites, err := selectSites(a, i.Site)
	if err != nil {
		return err
	}
	for _, site := range sites {
		if err := a.Cache.Invalidate(ctx, site.RootPath()); err != nil {
			return fmt.Errorf("invalidate %s: %w", site.Name(), err)
		}
		_, _ = fmt.Fprintf(global.out(), "invalidated %s (%s)\n", site.Name(), site.RootPath())
	}
	return nil
}
