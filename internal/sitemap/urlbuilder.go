package sitemap

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	sitemapSelector = ".sitemap"
	sitemapExt      = ".xml"
)

// URLBuilder builds the URL of a sitemap part and recovers the requested part
// from an incoming request.
type URLBuilder interface {
	BuildSiteMapURL(root string, index int) string
	Index(r *http.Request) int
}

// SelectorURLBuilder addresses part 0 as <root>.sitemap.xml and part N as
// <root>.sitemap.N.xml.
type SelectorURLBuilder struct{}

// BuildSiteMapURL returns the path of part index of root.
func (SelectorURLBuilder) BuildSiteMapURL(root string, index int) string {
	root = strings.TrimSuffix(root, "/")
	if root == "" {
		root = "/"
	}
	if index <= 0 {
		return root + sitemapSelector + sitemapExt
	}
	return root + sitemapSelector + "." + strconv.Itoa(index) + sitemapExt
}

// Index returns the part requested by r; missing or malformed indexes are 0.
func (SelectorURLBuilder) Index(r *http.Request) int {
	if r == nil || r.URL == nil {
		return 0
	}
	_, index, _ := ParseRequestPath(r.URL.Path)
	return index
}

// ParseRequestPath splits a sitemap request path into its root path and part
// index. ok is false when path does not address a sitemap.
func ParseRequestPath(path string) (root string, index int, ok bool) {
	rest, found := strings.CutSuffix(path, sitemapExt)
	if !found {
		return "", 0, false
	}
	if root, found = strings.CutSuffix(rest, sitemapSelector); found {
		return rootOrSlash(root), 0, true
	}

	dot := strings.LastIndex(rest, ".")
	if dot < 0 {
		return "", 0, false
	}
	root, found = strings.CutSuffix(rest[:dot], sitemapSelector)
	if !found {
		return "", 0, false
	}
	n, err := strconv.Atoi(rest[dot+1:])
	if err != nil || n < 0 {
		return rootOrSlash(root), 0, true
	}
	return rootOrSlash(root), n, true
}

func rootOrSlash(root string) string {
	if root == "" {
		return "/"
	}
	return root
}

// externalURLBuilder passes the base builder's URLs through an externalizer.
type externalURLBuilder struct {
	base URLBuilder
	ext  URLExternalizer
}

func (b externalURLBuilder) BuildSiteMapURL(root string, index int) string {
	return b.ext.MapURL(b.base.BuildSiteMapURL(root, index))
}

func (b externalURLBuilder) Index(r *http.Request) int { return b.base.Index(r) }
