package sitemap

import (
	"math"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitemapd/internal/content"
)

// Well-known property names. The XML builder emits them as sitemap elements.
const (
	PropLastmod    = "lastmod"
	PropChangeFreq = "changefreq"
	PropPriority   = "priority"
	PropImage      = "image"
)

// PropertyProvider derives one named property from a page. Providers never
// fail: a missing value is reported as "".
type PropertyProvider interface {
	Name() string
	Property(p content.Page) string
}

type funcProvider struct {
	name string
	fn   func(content.Page) string
}

func (f funcProvider) Name() string                   { return f.name }
func (f funcProvider) Property(p content.Page) string { return f.fn(p) }

// ProviderFunc creates a provider from a function.
func ProviderFunc(name string, fn func(p content.Page) string) PropertyProvider {
	return funcProvider{name: name, fn: fn}
}

// ContentProvider reads key from the page content, or fallback when unset.
func ContentProvider(name, key, fallback string) PropertyProvider {
	return ProviderFunc(name, func(p content.Page) string {
		if v := strings.TrimSpace(p.Content().String(key)); v != "" {
			return v
		}
		return fallback
	})
}

// LastModifiedProvider reports the page's lastmod as a W3C date.
func LastModifiedProvider() PropertyProvider {
	return ProviderFunc(PropLastmod, func(p content.Page) string {
		if t, ok := p.Content().Time("lastmod"); ok {
			return t.UTC().Format("2006-01-02")
		}
		return ""
	})
}

var changeFreqs = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

// ChangeFreqProvider reads sitemap.changefreq, falling back to def. Values
// outside the sitemaps.org vocabulary are dropped.
func ChangeFreqProvider(def string) PropertyProvider {
	return ProviderFunc(PropChangeFreq, func(p content.Page) string {
		v := strings.ToLower(strings.TrimSpace(p.Content().String("sitemap.changefreq")))
		if v == "" {
			v = strings.ToLower(strings.TrimSpace(def))
		}
		if !changeFreqs[v] {
			return ""
		}
		return v
	})
}

// PriorityProvider reads sitemap.priority, falling back to def. The value is
// clamped to [0,1] and formatted with one decimal.
func PriorityProvider(def string) PropertyProvider {
	return ProviderFunc(PropPriority, func(p content.Page) string {
		v := strings.TrimSpace(p.Content().String("sitemap.priority"))
		if v == "" {
			v = strings.TrimSpace(def)
		}
		if v == "" {
			return ""
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			return ""
		}
		f = math.Max(0, math.Min(1, f))
		return strconv.FormatFloat(f, 'f', 1, 64)
	})
}

// ImageProvider reports the page's primary image location.
func ImageProvider() PropertyProvider {
	return ContentProvider(PropImage, "image", "")
}

// ProviderByName returns the built-in provider for a configured property name.
func ProviderByName(name, changefreq, priority string) (PropertyProvider, bool) {
	switch name {
	case PropLastmod:
		return LastModifiedProvider(), true
	case PropChangeFreq:
		return ChangeFreqProvider(changefreq), true
	case PropPriority:
		return PriorityProvider(priority), true
	case PropImage:
		return ImageProvider(), true
	}
	return nil, false
}
