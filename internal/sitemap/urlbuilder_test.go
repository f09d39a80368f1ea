package sitemap

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorURLBuilder_Build(t *testing.T) {
	b := SelectorURLBuilder{}
	assert.Equal(t, "/content/site.sitemap.xml", b.BuildSiteMapURL("/content/site", 0))
	assert.Equal(t, "/content/site.sitemap.2.xml", b.BuildSiteMapURL("/content/site/", 2))
	assert.Equal(t, "/.sitemap.xml", b.BuildSiteMapURL("/", 0))
}

func TestParseRequestPath(t *testing.T) {
	tests := []struct {
		path  string
		root  string
		index int
		ok    bool
	}{
		{"/content/site.sitemap.xml", "/content/site", 0, true},
		{"/content/site.sitemap.3.xml", "/content/site", 3, true},
		{"/content/site.sitemap.x.xml", "/content/site", 0, true},
		{"/content/site.sitemap.-1.xml", "/content/site", 0, true},
		{"/.sitemap.xml", "/", 0, true},
		{"/content/site.xml", "", 0, false},
		{"/content/site.html", "", 0, false},
		{"/content/site.other.2.xml", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			root, index, ok := ParseRequestPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.root, root)
			assert.Equal(t, tt.index, index)
		})
	}
}

func TestSelectorURLBuilder_Index(t *testing.T) {
	b := SelectorURLBuilder{}
	assert.Equal(t, 4, b.Index(httptest.NewRequest("GET", "/a.sitemap.4.xml", nil)))
	assert.Equal(t, 0, b.Index(httptest.NewRequest("GET", "/a.sitemap.xml", nil)))
	assert.Equal(t, 0, b.Index(httptest.NewRequest("GET", "/a.html", nil)))
	assert.Equal(t, 0, b.Index(nil))

	for i := range 5 {
		url := b.BuildSiteMapURL("/content/x", i)
		assert.Equal(t, i, b.Index(httptest.NewRequest("GET", url, nil)))
	}
}
