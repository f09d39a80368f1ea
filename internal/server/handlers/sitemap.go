// Package handlers provides the HTTP handlers of the sitemap server.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/sitemap"
)

const (
	// DefaultSitemapPath serves part 0 of the first configured site.
	DefaultSitemapPath = "/sitemap.xml"

	contentTypeXML = "application/xml; charset=utf-8"
	cacheControl   = "public, max-age=3600"
)

// Site is a sitemap root served over HTTP.
type Site interface {
	Name() string
	RootPath() string
	Page() content.Page
	URLBuilder() sitemap.URLBuilder
}

// SitemapCache yields serialized sitemap parts.
type SitemapCache interface {
	Get(ctx context.Context, root content.Page, index int, ub sitemap.URLBuilder) (string, bool)
}

// SitemapHandlers serves <root>.sitemap[.N].xml for every configured site.
type SitemapHandlers struct {
	cache        SitemapCache
	sites        []Site
	byRoot       map[string]Site
	errorAdapter *errors.HTTPErrorAdapter
}

// NewSitemapHandlers creates handlers for sites, in configuration order.
func NewSitemapHandlers(cache SitemapCache, sites []Site) *SitemapHandlers {
	byRoot := make(map[string]Site, len(sites))
	for _, s := range sites {
		byRoot[s.RootPath()] = s
	}
	return &SitemapHandlers{
		cache:        cache,
		sites:        sites,
		byRoot:       byRoot,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleSitemap writes the requested sitemap part.
func (h *SitemapHandlers) HandleSitemap(w http.ResponseWriter, r *http.Request) {
	if !allowRead(h.errorAdapter, w, r) {
		return
	}

	site, ok := h.siteFor(r.URL.Path)
	if !ok {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("no sitemap at path").
			WithContext("path", r.URL.Path).
			Build())
		return
	}

	index := site.URLBuilder().Index(r)
	doc, ok := h.cache.Get(r.Context(), site.Page(), index, site.URLBuilder())
	if !ok {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("sitemap unavailable").
			WithContext("site", site.Name()).
			WithContext("part", index).
			Build())
		return
	}

	w.Header().Set("Content-Type", contentTypeXML)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(doc))
}

func (h *SitemapHandlers) siteFor(path string) (Site, bool) {
	if path == DefaultSitemapPath && len(h.sites) > 0 {
		return h.sites[0], true
	}
	root, _, ok := sitemap.ParseRequestPath(path)
	if !ok {
		return nil, false
	}
	site, ok := h.byRoot[root]
	return site, ok
}
