package commands

import (
	"context"
	"fmt"
	"strings"
)

// ExtractCmd implements the 'extract' command. It bypasses the cache.
type ExtractCmd struct {
	Site string `short:"s" help:"Only extract this site"`
}

func (e *ExtractCmd) Run(global *Global, root *CLI) error {
	a, err := loadApp(context.Background(), root)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	sites, err := selectSites(a, e.Site)
	if err != nil {
		return err
	}
	w := global.out()
	for _, site := range sites {
		for _, entry := range site.Extractor().Extract(site.Page()) {
			var b strings.Builder
			b.WriteString(entry.URL())
			for _, p := range entry.Properties() {
				if p.Value != "" {
					fmt.Fprintf(&b, "\t%s=%s", p.Name, p.Value)
				}
			}
			_, _ = fmt.Fprintln(w, b.String())
		}
	}
	return nil
}
