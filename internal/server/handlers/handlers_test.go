package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/server/responses"
	"git.home.luguber.info/inful/sitemapd/internal/sitemap"
)

type fakeSite struct {
	name string
	root string
}

func (s fakeSite) Name() string                   { return s.name }
func (s fakeSite) RootPath() string               { return s.root }
func (s fakeSite) Page() content.Page             { return content.NewPage(content.NewMemNode(s.root, nil)) }
func (s fakeSite) URLBuilder() sitemap.URLBuilder { return sitemap.SelectorURLBuilder{} }

type request struct {
	root  string
	index int
}

type fakeCache struct {
	docs     map[request]string
	requests []request
}

func (c *fakeCache) Get(_ context.Context, root content.Page, index int, _ sitemap.URLBuilder) (string, bool) {
	r := request{root: root.Path(), index: index}
	c.requests = append(c.requests, r)
	doc, ok := c.docs[r]
	return doc, ok
}

func newSitemapHandlers() (*SitemapHandlers, *fakeCache) {
	cache := &fakeCache{docs: map[request]string{
		{root: "/docs", index: 0}:        "<sitemapindex/>",
		{root: "/docs", index: 2}:        "<urlset>two</urlset>",
		{root: "/content/www", index: 0}: "<urlset>www</urlset>",
	}}
	sites := []Site{fakeSite{name: "docs", root: "/docs"}, fakeSite{name: "www", root: "/content/www"}}
	return NewSitemapHandlers(cache, sites), cache
}

func TestHandleSitemap(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		body     string
		wantCall *request
	}{
		{"part zero", http.MethodGet, "/docs.sitemap.xml", http.StatusOK, "<sitemapindex/>", &request{"/docs", 0}},
		{"numbered part", http.MethodGet, "/docs.sitemap.2.xml", http.StatusOK, "<urlset>two</urlset>", &request{"/docs", 2}},
		{"nested root", http.MethodGet, "/content/www.sitemap.xml", http.StatusOK, "<urlset>www</urlset>", &request{"/content/www", 0}},
		{"default path", http.MethodGet, "/sitemap.xml", http.StatusOK, "<sitemapindex/>", &request{"/docs", 0}},
		{"malformed index", http.MethodGet, "/docs.sitemap.x.xml", http.StatusOK, "<sitemapindex/>", &request{"/docs", 0}},
		{"head", http.MethodHead, "/docs.sitemap.xml", http.StatusOK, "", &request{"/docs", 0}},
		{"missing part", http.MethodGet, "/docs.sitemap.9.xml", http.StatusNotFound, "", &request{"/docs", 9}},
		{"unknown root", http.MethodGet, "/blog.sitemap.xml", http.StatusNotFound, "", nil},
		{"not a sitemap", http.MethodGet, "/docs/index.html", http.StatusNotFound, "", nil},
		{"post", http.MethodPost, "/docs.sitemap.xml", http.StatusBadRequest, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, cache := newSitemapHandlers()
			rec := httptest.NewRecorder()
			h.HandleSitemap(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.wantCall == nil {
				assert.Empty(t, cache.requests)
			} else {
				assert.Equal(t, []request{*tt.wantCall}, cache.requests)
			}
			if tt.status != http.StatusOK {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				return
			}
			assert.Equal(t, tt.body, rec.Body.String())
			assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestHandleSitemap_NoSites(t *testing.T) {
	h := NewSitemapHandlers(&fakeCache{}, nil)
	rec := httptest.NewRecorder()
	h.HandleSitemap(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealthCheck(t *testing.T) {
	h := NewMonitoringHandlers("memory", []Site{fakeSite{name: "docs", root: "/docs"}})

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz?pretty=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body responses.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "memory", body.Store)
	assert.Equal(t, []responses.SiteStatus{{Name: "docs", Root: "/docs", SitemapURL: "/docs.sitemap.xml"}}, body.Sites)

	rec = httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodDelete, "/healthz", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}
