// Package htmltree exposes a directory of rendered HTML pages as a content tree.
package htmltree

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/content/fstree"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

// Metadata keys populated from page heads.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyImage       = "image"
	KeyLastmod     = "lastmod"
	KeyNoIndex     = "noindex"
)

// New creates an HTML tree over dir whose root node has rootPath.
func New(dir, rootPath string) (*fstree.Tree, error) {
	return fstree.New(dir, rootPath, fstree.Format{
		Extension:  ".html",
		IndexNames: []string{"index.html"},
		Load:       load,
	})
}

func load(file string) content.ValueMap {
	// #nosec G304 - file comes from walking the configured source directory
	f, err := os.Open(file)
	if err != nil {
		slog.Warn("Cannot read content file", logfields.Path(file), logfields.Error(err))
		return content.ValueMap{}
	}
	defer func() { _ = f.Close() }()

	meta, err := ReadMeta(f)
	if err != nil {
		slog.Warn("Cannot parse HTML", logfields.Path(file), logfields.Error(err))
	}
	if _, ok := meta.Time(KeyLastmod); !ok {
		if info, serr := f.Stat(); serr == nil {
			meta[KeyLastmod] = info.ModTime()
		}
	}
	return meta
}

// ReadMeta extracts sitemap-relevant metadata from an HTML document. The
// <title> element wins over og:title; og:image wins over the first <img>.
func ReadMeta(r io.Reader) (content.ValueMap, error) {
	meta := content.ValueMap{}
	root, err := html.Parse(r)
	if err != nil {
		return meta, err
	}
	doc := goquery.NewDocumentFromNode(root)

	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		meta[KeyTitle] = t
	}
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		readMetaTag(s, meta)
	})
	if _, ok := meta[KeyImage]; !ok {
		if src := doc.Find("img[src]").First().AttrOr("src", ""); src != "" {
			meta[KeyImage] = src
		}
	}
	return meta, nil
}

func readMetaTag(s *goquery.Selection, meta content.ValueMap) {
	key := strings.ToLower(s.AttrOr("name", ""))
	if key == "" {
		key = strings.ToLower(s.AttrOr("property", ""))
	}
	value := strings.TrimSpace(s.AttrOr("content", ""))
	if value == "" {
		return
	}

	switch key {
	case "robots":
		for _, directive := range strings.Split(strings.ToLower(value), ",") {
			if strings.TrimSpace(directive) == "noindex" {
				meta[KeyNoIndex] = true
			}
		}
	case "description":
		meta[KeyDescription] = value
	case "og:image":
		meta[KeyImage] = value
	case "article:modified_time", "lastmod":
		meta[KeyLastmod] = value
	case "og:title":
		if _, ok := meta[KeyTitle]; !ok {
			meta[KeyTitle] = value
		}
	}
}
