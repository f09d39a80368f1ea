package sitemap

import "git.home.luguber.info/inful/sitemapd/internal/content"

// PageRecognizer decides whether a node is a page eligible for the sitemap.
type PageRecognizer interface {
	IsPage(p content.Page) bool
}

// RecognizerFunc adapts a function to PageRecognizer.
type RecognizerFunc func(p content.Page) bool

// IsPage calls f.
func (f RecognizerFunc) IsPage(p content.Page) bool { return f(p) }

// AllOf recognizes a page only when every recognizer does.
func AllOf(recognizers ...PageRecognizer) PageRecognizer {
	return RecognizerFunc(func(p content.Page) bool {
		for _, r := range recognizers {
			if r != nil && !r.IsPage(p) {
				return false
			}
		}
		return true
	})
}

// FrontMatterRecognizer excludes drafts and pages that opt out via
// `sitemap.disable` or `noindex`.
var FrontMatterRecognizer PageRecognizer = RecognizerFunc(func(p content.Page) bool {
	c := p.Content()
	return !c.Bool("draft") && !c.Bool("sitemap.disable") && !c.Bool("noindex")
})
