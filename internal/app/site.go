package app

import (
	"log/slog"

	"git.home.luguber.info/inful/sitemapd/internal/config"
	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/content/fstree"
	"git.home.luguber.info/inful/sitemapd/internal/content/gitinfo"
	"git.home.luguber.info/inful/sitemapd/internal/content/htmltree"
	"git.home.luguber.info/inful/sitemapd/internal/content/mdtree"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
	"git.home.luguber.info/inful/sitemapd/internal/sitemap"
)

// Site is one configured sitemap root: the content tree backing it and the
// extractor that turns it into entries.
type Site struct {
	cfg       config.SiteConfig
	tree      *fstree.Tree
	extractor *sitemap.Extractor
	urls      sitemap.URLBuilder
}

// NewSite opens the site's source directory and builds its extractor.
func NewSite(cfg config.SiteConfig) (*Site, error) {
	tree, err := openTree(cfg)
	if err != nil {
		return nil, err
	}

	ext := sitemap.NewExtractor(cfg.Name,
		sitemap.WithRootPath(cfg.Root),
		sitemap.WithRecognizer(sitemap.FrontMatterRecognizer),
		sitemap.WithExternalizer(sitemap.PrefixExternalizer{
			BaseURL:     cfg.BaseURL,
			StripPrefix: cfg.StripPrefix,
			Extension:   cfg.Extension,
		}),
	)
	for _, name := range cfg.Properties {
		p, ok := sitemap.ProviderByName(name, cfg.ChangeFreq, cfg.Priority)
		if !ok {
			return nil, errors.ConfigError("unknown sitemap property").
				WithContext("site", cfg.Name).
				WithContext("property", name).
				Build()
		}
		ext.AddPropertyProvider(p)
	}

	return &Site{
		cfg:       cfg,
		tree:      tree,
		extractor: ext,
		urls:      ext.SiteMapURLBuilder(sitemap.SelectorURLBuilder{}),
	}, nil
}

func openTree(cfg config.SiteConfig) (*fstree.Tree, error) {
	if cfg.Format == config.FormatHTML {
		return htmltree.New(cfg.Source, cfg.Root)
	}

	var opts []mdtree.Option
	if cfg.GitInfo {
		dates, err := gitinfo.Open(cfg.Source)
		if err != nil {
			slog.Warn("Git dates unavailable, falling back to file times",
				logfields.Site(cfg.Name),
				logfields.Error(err))
		} else {
			opts = append(opts, mdtree.WithDates(dates))
		}
	}
	return mdtree.New(cfg.Source, cfg.Root, opts...)
}

func (s *Site) Name() string                   { return s.cfg.Name }
func (s *Site) RootPath() string               { return s.cfg.Root }
func (s *Site) SourceDir() string              { return s.tree.Dir() }
func (s *Site) Format() config.SiteFormat      { return s.cfg.Format }
func (s *Site) Extractor() *sitemap.Extractor  { return s.extractor }
func (s *Site) URLBuilder() sitemap.URLBuilder { return s.urls }

// Page returns a fresh view of the site's root. Metadata is read lazily, so
// every call observes the files as they are now.
func (s *Site) Page() content.Page {
	return content.NewPage(s.tree.Root())
}
