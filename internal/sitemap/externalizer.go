package sitemap

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/sitemapd/internal/content"
)

// URLExternalizer maps internal pages and URLs to public URLs.
type URLExternalizer interface {
	Map(p content.Page) string
	MapURL(raw string) string
}

// PrefixExternalizer publishes content paths below BaseURL.
type PrefixExternalizer struct {
	BaseURL     string // e.g. https://docs.example.com
	StripPrefix string // content path prefix removed before publishing
	Extension   string // appended to every non-root page path, e.g. ".html"
}

// Map returns the public URL of a page.
func (x PrefixExternalizer) Map(p content.Page) string {
	return x.MapPath(p.Path())
}

// MapPath returns the public URL of a content path.
func (x PrefixExternalizer) MapPath(path string) string {
	path = norm.NFC.String(path)
	if x.StripPrefix != "" && x.StripPrefix != "/" {
		prefix := strings.TrimSuffix(x.StripPrefix, "/")
		if path == prefix {
			path = ""
		} else if strings.HasPrefix(path, prefix+"/") {
			path = strings.TrimPrefix(path, prefix)
		}
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return x.base() + "/"
	}

	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return x.base() + "/" + strings.Join(segments, "/") + x.Extension
}

// MapURL resolves raw against BaseURL. Absolute URLs are returned unchanged.
func (x PrefixExternalizer) MapURL(raw string) string {
	raw = norm.NFC.String(raw)
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}
	return x.base() + "/" + strings.TrimPrefix(raw, "/")
}

func (x PrefixExternalizer) base() string {
	return strings.TrimSuffix(x.BaseURL, "/")
}

// defaultExternalizer is used when an extractor has none configured.
type defaultExternalizer struct{}

func (defaultExternalizer) Map(p content.Page) string { return p.Path() + ".html" }
func (defaultExternalizer) MapURL(raw string) string  { return raw }
