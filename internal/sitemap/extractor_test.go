package sitemap

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapd/internal/content"
)

func urls(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.URL())
	}
	return out
}

func siteTree() *content.MemNode {
	root := content.NewMemNode("/content/site", nil)
	root.Add("a", nil)
	root.Add("b", nil)
	return root
}

func TestExtract_SiteScenario(t *testing.T) {
	e := NewExtractor("site")
	entries := e.Extract(content.NewPage(siteTree()))

	assert.Equal(t, []string{
		"/content/site.html",
		"/content/site/a.html",
		"/content/site/b.html",
	}, urls(entries))
}

func TestExtract_UnrecognizedRootYieldsNothing(t *testing.T) {
	e := NewExtractor("none", WithRecognizer(RecognizerFunc(func(content.Page) bool { return false })))
	assert.Empty(t, e.Extract(content.NewPage(siteTree())))
}

func TestExtract_LeafWithoutRecognizer(t *testing.T) {
	e := NewExtractor("leaf")
	entries := e.Extract(content.NewPage(content.NewMemNode("/x", nil)))
	require.Len(t, entries, 1)
	assert.Equal(t, "/x.html", entries[0].URL())
}

func TestExtract_PrunesUnrecognizedSubtrees(t *testing.T) {
	root := content.NewMemNode("/r", nil)
	a := root.Add("a", nil)
	a.Add("a1", nil)
	skip := root.Add("skip", content.ValueMap{"draft": true})
	skip.Add("hidden", nil)
	skip.Add("hidden2", nil)
	root.Add("c", nil)

	var visited []string
	rec := RecognizerFunc(func(p content.Page) bool {
		visited = append(visited, p.Path())
		return FrontMatterRecognizer.IsPage(p)
	})

	entries := NewExtractor("r", WithRecognizer(rec)).Extract(content.NewPage(root))

	assert.Equal(t, []string{"/r.html", "/r/a.html", "/r/a/a1.html", "/r/c.html"}, urls(entries))
	for _, p := range visited {
		assert.False(t, strings.HasPrefix(p, "/r/skip/"), "descendant of pruned node visited: %s", p)
	}
}

func TestExtract_ToleratesCycles(t *testing.T) {
	root := content.NewMemNode("/r", nil)
	child := root.Add("child", nil)
	child.Link(root)
	child.Link(child)

	entries := NewExtractor("r").Extract(content.NewPage(root))
	assert.Equal(t, []string{"/r.html", "/r/child.html"}, urls(entries))
}

func TestExtract_PropertiesInRegistrationOrder(t *testing.T) {
	root := content.NewMemNode("/r", content.ValueMap{"lastmod": "2024-05-06", "image": "/i.png"})

	e := NewExtractor("r", WithPropertyProvider(LastModifiedProvider(), ImageProvider()))
	assert.False(t, e.AddPropertyProvider(ProviderFunc(PropLastmod, func(content.Page) string { return "dup" })))
	assert.True(t, e.AddPropertyProvider(ContentProvider("missing", "nope", "")))

	entries := e.Extract(content.NewPage(root))
	require.Len(t, entries, 1)
	assert.Equal(t, []Property{
		{Name: PropLastmod, Value: "2024-05-06"},
		{Name: PropImage, Value: "/i.png"},
		{Name: "missing", Value: ""},
	}, entries[0].Properties())

	v, ok := entries[0].Property("missing")
	assert.True(t, ok, "providers without a value still yield a key")
	assert.Empty(t, v)
}

func TestExtract_UsesExternalizer(t *testing.T) {
	x := PrefixExternalizer{BaseURL: "https://example.com", StripPrefix: "/content/site", Extension: ".html"}
	entries := NewExtractor("site", WithExternalizer(x)).Extract(content.NewPage(siteTree()))

	assert.Equal(t, []string{
		"https://example.com/",
		"https://example.com/a.html",
		"https://example.com/b.html",
	}, urls(entries))
}

func TestExtractor_URLs(t *testing.T) {
	plain := NewExtractor("plain")
	assert.Equal(t, "/content/site.sitemap.2.xml", plain.BuildSiteMapURL("/content/site", 2))
	assert.Equal(t, 3, plain.GetIndex(httptest.NewRequest("GET", "/content/site.sitemap.3.xml", nil)))

	ext := NewExtractor("ext", WithExternalizer(PrefixExternalizer{BaseURL: "https://example.com/"}))
	assert.Equal(t, "https://example.com/content/site.sitemap.xml", ext.BuildSiteMapURL("/content/site", 0))

	short := ext.SiteMapURLBuilder(SelectorURLBuilder{})
	assert.Equal(t, "https://example.com/content/site.sitemap.1.xml", short.BuildSiteMapURL("/content/site", 1))
	assert.Equal(t, 1, short.Index(httptest.NewRequest("GET", "/content/site.sitemap.1.xml", nil)))

	other := NewExtractor("other", WithExternalizer(PrefixExternalizer{BaseURL: "https://other.example.com"}))
	rewrapped := other.SiteMapURLBuilder(short)
	assert.Equal(t, "https://other.example.com/content/site.sitemap.1.xml", rewrapped.BuildSiteMapURL("/content/site", 1))
}

func TestExtractor_AppliesTo(t *testing.T) {
	e := NewExtractor("docs", WithRootPath("/content/docs"))
	assert.True(t, e.AppliesTo(content.NewPage(content.NewMemNode("/content/docs", nil))))
	assert.True(t, e.AppliesTo(content.NewPage(content.NewMemNode("/content/docs/a", nil))))
	assert.False(t, e.AppliesTo(content.NewPage(content.NewMemNode("/content/docsx", nil))))

	assert.True(t, NewExtractor("any").AppliesTo(content.NewPage(content.NewMemNode("/else", nil))))
}
