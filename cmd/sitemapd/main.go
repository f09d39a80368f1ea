package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitemapd/cmd/sitemapd/commands"
	"git.home.luguber.info/inful/sitemapd/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("sitemapd"),
		kong.Description("Generate, cache and serve XML sitemaps for content trees."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	parser.FatalIfErrorf(parser.Run(&commands.Global{}, &cli))
}
