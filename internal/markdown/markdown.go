// Package markdown extracts the bits of a markdown body the sitemap needs.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Summary is what a markdown body contributes to a page's metadata.
type Summary struct {
	// Title is the text of the first level-1 heading, if any.
	Title string
	// Images lists image destinations in document order.
	Images []string
}

// Summarize parses body (front matter already removed) with goldmark.
func Summarize(body []byte) Summary {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var s Summary
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			if node.Level == 1 && s.Title == "" {
				s.Title = strings.TrimSpace(string(headingText(node, body)))
			}
		case *gmast.Image:
			if dest := strings.TrimSpace(string(node.Destination)); dest != "" {
				s.Images = append(s.Images, dest)
			}
		}
		return gmast.WalkContinue, nil
	})
	return s
}

// FirstImage returns the first image destination in body, or "".
func FirstImage(body []byte) string {
	if imgs := Summarize(body).Images; len(imgs) > 0 {
		return imgs[0]
	}
	return ""
}

func headingText(n gmast.Node, source []byte) []byte {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
			continue
		}
		out = append(out, headingText(c, source)...)
	}
	return out
}
