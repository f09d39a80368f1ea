package sitemap

import (
	"log/slog"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

// Extractor produces the ordered sitemap entries for a content tree.
type Extractor struct {
	name         string
	recognizer   PageRecognizer
	externalizer URLExternalizer
	providers    []PropertyProvider
	urlBuilder   URLBuilder
	appliesTo    func(content.Page) bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRecognizer sets the page recognizer. Without one every node is a page.
func WithRecognizer(r PageRecognizer) Option {
	return func(e *Extractor) { e.recognizer = r }
}

// WithExternalizer sets the URL externalizer.
func WithExternalizer(x URLExternalizer) Option {
	return func(e *Extractor) {
		if x != nil {
			e.externalizer = x
		}
	}
}

// WithPropertyProvider registers providers in order.
func WithPropertyProvider(providers ...PropertyProvider) Option {
	return func(e *Extractor) {
		for _, p := range providers {
			e.AddPropertyProvider(p)
		}
	}
}

// WithURLBuilder sets the builder used for sitemap part URLs.
func WithURLBuilder(b URLBuilder) Option {
	return func(e *Extractor) {
		if b != nil {
			e.urlBuilder = b
		}
	}
}

// WithAppliesTo sets the predicate used by Registry.FindFirstFor.
func WithAppliesTo(fn func(content.Page) bool) Option {
	return func(e *Extractor) { e.appliesTo = fn }
}

// WithRootPath makes the extractor apply to path and everything below it.
func WithRootPath(path string) Option {
	prefix := strings.TrimSuffix(path, "/")
	return WithAppliesTo(func(p content.Page) bool {
		return prefix == "" || p.Path() == prefix || strings.HasPrefix(p.Path(), prefix+"/")
	})
}

// NewExtractor creates a named extractor.
func NewExtractor(name string, opts ...Option) *Extractor {
	e := &Extractor{
		name:         name,
		externalizer: defaultExternalizer{},
		urlBuilder:   SelectorURLBuilder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extractor's registry name.
func (e *Extractor) Name() string { return e.name }

// AddPropertyProvider registers p. The first provider registered under a name
// wins; false is returned for an ignored duplicate.
func (e *Extractor) AddPropertyProvider(p PropertyProvider) bool {
	if p == nil {
		return false
	}
	for _, existing := range e.providers {
		if existing.Name() == p.Name() {
			slog.Debug("Ignoring duplicate property provider",
				slog.String("extractor", e.name),
				slog.String("provider", p.Name()))
			return false
		}
	}
	e.providers = append(e.providers, p)
	return true
}

// AppliesTo reports whether the extractor handles root.
func (e *Extractor) AppliesTo(root content.Page) bool {
	if e.appliesTo == nil {
		return true
	}
	return e.appliesTo(root)
}

// Extract walks the tree below root and returns its entries, parent first,
// siblings in child order.
func (e *Extractor) Extract(root content.Page) []Entry {
	var entries []Entry
	visited := make(map[string]struct{})
	e.walk(root, visited, &entries)
	return entries
}

func (e *Extractor) walk(p content.Page, visited map[string]struct{}, out *[]Entry) {
	if !e.isPage(p) {
		return
	}
	if _, seen := visited[p.Path()]; seen {
		slog.Debug("Skipping already visited node", logfields.Path(p.Path()))
		return
	}
	visited[p.Path()] = struct{}{}

	*out = append(*out, e.entry(p))
	for _, child := range p.Children() {
		e.walk(content.NewPage(child), visited, out)
	}
}

func (e *Extractor) isPage(p content.Page) bool {
	return e.recognizer == nil || e.recognizer.IsPage(p)
}

func (e *Extractor) entry(p content.Page) Entry {
	props := make([]Property, 0, len(e.providers))
	for _, provider := range e.providers {
		props = append(props, Property{Name: provider.Name(), Value: provider.Property(p)})
	}
	return Entry{url: e.externalizer.Map(p), props: props}
}

// BuildSiteMapURL returns the public URL of part index of root.
func (e *Extractor) BuildSiteMapURL(root string, index int) string {
	return e.externalizer.MapURL(e.urlBuilder.BuildSiteMapURL(root, index))
}

// GetIndex returns the part requested by r.
func (e *Extractor) GetIndex(r *http.Request) int {
	return e.urlBuilder.Index(r)
}

// SiteMapURLBuilder wraps base so its URLs pass through this extractor's
// externalizer. The result is what index documents link to. A base that was
// already wrapped by another extractor is unwrapped first.
func (e *Extractor) SiteMapURLBuilder(base URLBuilder) URLBuilder {
	if wrapped, ok := base.(externalURLBuilder); ok {
		base = wrapped.base
	}
	if base == nil {
		base = e.urlBuilder
	}
	return externalURLBuilder{base: base, ext: e.externalizer}
}
