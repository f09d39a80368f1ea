// Package mdtree exposes a directory of markdown sources as a content tree.
// Directory metadata comes from _index.md or index.md.
package mdtree

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/content/fstree"
	"git.home.luguber.info/inful/sitemapd/internal/frontmatter"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
	"git.home.luguber.info/inful/sitemapd/internal/markdown"
)

// Keys added to the front matter fields of every node.
const (
	KeyTitle       = "title"
	KeyImage       = "image"
	KeyLastmod     = "lastmod"
	KeyFingerprint = "fingerprint"
)

// DateResolver supplies a last-modified time for a source file, e.g. from git history.
type DateResolver interface {
	LastModified(file string) (time.Time, bool)
}

type loader struct {
	dates DateResolver
}

// Option configures a markdown tree.
type Option func(*loader)

// WithDates sets the resolver consulted when front matter has no lastmod.
func WithDates(r DateResolver) Option {
	return func(l *loader) { l.dates = r }
}

// New creates a markdown tree over dir whose root node has rootPath.
func New(dir, rootPath string, opts ...Option) (*fstree.Tree, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	return fstree.New(dir, rootPath, fstree.Format{
		Extension:  ".md",
		IndexNames: []string{"_index.md", "index.md"},
		Load:       l.load,
	})
}

// load reads a markdown source into node metadata. Read or parse failures
// degrade to whatever could be recovered.
func (l *loader) load(file string) content.ValueMap {
	meta := content.ValueMap{}

	// #nosec G304 - file comes from walking the configured source directory
	raw, err := os.ReadFile(file)
	if err != nil {
		slog.Warn("Cannot read content file", logfields.Path(file), logfields.Error(err))
		return meta
	}

	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		slog.Warn("Invalid front matter", logfields.Path(file), logfields.Error(err))
		body = raw
	}
	if fields, perr := frontmatter.ParseYAML(fm); perr == nil {
		for k, v := range fields {
			meta[k] = v
		}
	} else {
		slog.Warn("Cannot parse front matter", logfields.Path(file), logfields.Error(perr))
	}

	summary := markdown.Summarize(body)
	if meta.String(KeyTitle) == "" && summary.Title != "" {
		meta[KeyTitle] = summary.Title
	}
	if meta.String(KeyImage) == "" {
		if img := firstListed(meta["images"]); img != "" {
			meta[KeyImage] = img
		} else if len(summary.Images) > 0 {
			meta[KeyImage] = summary.Images[0]
		}
	}
	if _, ok := meta.Time(KeyLastmod); !ok {
		if when, ok := l.lastModified(file, meta); ok {
			meta[KeyLastmod] = when
		}
	}
	meta[KeyFingerprint] = mdfp.CalculateFingerprintFromParts(string(fm), string(body))
	return meta
}

// lastModified applies the fallback order git history, front matter date, file mtime.
func (l *loader) lastModified(file string, meta content.ValueMap) (time.Time, bool) {
	if l.dates != nil {
		if when, ok := l.dates.LastModified(file); ok {
			return when, true
		}
	}
	if when, ok := meta.Time("date"); ok {
		return when, true
	}
	if info, err := os.Stat(file); err == nil {
		return info.ModTime(), true
	}
	return time.Time{}, false
}

// Fingerprint returns the content fingerprint of a markdown source.
func Fingerprint(file string) (string, error) {
	// #nosec G304 - caller passes a path below a configured source directory
	raw, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	fm, body, _, err := frontmatter.Split(raw)
	if err != nil {
		return mdfp.CalculateFingerprintFromParts("", string(raw)), nil
	}
	return mdfp.CalculateFingerprintFromParts(string(fm), string(body)), nil
}

func firstListed(v any) string {
	switch list := v.(type) {
	case []any:
		if len(list) > 0 {
			if s, ok := list[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	case []string:
		if len(list) > 0 {
			return strings.TrimSpace(list[0])
		}
	}
	return ""
}
