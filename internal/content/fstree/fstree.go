// Package fstree maps a directory of source files onto content nodes.
//
// Every directory becomes a node whose metadata is loaded from its index
// file when one exists. Every other file with the configured extension is a
// leaf named after the file without that extension. Hidden entries are skipped.
package fstree

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

// Loader reads the metadata of one source file.
type Loader func(file string) content.ValueMap

// Format describes which files a tree exposes and how they are read.
type Format struct {
	Extension  string   // e.g. ".md"
	IndexNames []string // files holding a directory's own metadata, in priority order
	Load       Loader
}

// Tree is a content tree rooted at a source directory.
type Tree struct {
	dir      string
	rootPath string
	format   Format
}

// New creates a tree over dir whose root node has rootPath.
func New(dir, rootPath string, format Format) (*Tree, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "content source unavailable").
			WithContext("dir", dir).Build()
	}
	if !info.IsDir() {
		return nil, errors.ContentError("content source is not a directory").WithContext("dir", dir).Build()
	}
	if format.Load == nil {
		return nil, errors.InternalError("fstree format has no loader").Build()
	}
	return &Tree{dir: dir, rootPath: rootPath, format: format}, nil
}

// Dir returns the source directory.
func (t *Tree) Dir() string { return t.dir }

// Root returns the node for the source directory.
func (t *Tree) Root() content.Node {
	return t.newDir(t.rootPath, t.dir)
}

func (t *Tree) newDir(path, dir string) *dirNode {
	n := &dirNode{tree: t, path: path, dir: dir}
	for _, name := range t.format.IndexNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			n.source = candidate
			break
		}
	}
	return n
}

type dirNode struct {
	tree   *Tree
	path   string
	dir    string
	source string

	once sync.Once
	meta content.ValueMap
}

func (n *dirNode) Path() string       { return n.path }
func (n *dirNode) SourcePath() string { return n.source }

func (n *dirNode) Content() content.ValueMap {
	n.once.Do(func() {
		if n.source == "" {
			n.meta = content.ValueMap{}
			return
		}
		n.meta = n.tree.format.Load(n.source)
	})
	return n.meta
}

func (n *dirNode) Children() []content.Node {
	entries, err := os.ReadDir(n.dir)
	if err != nil {
		slog.Warn("Cannot list content directory", logfields.Path(n.dir), logfields.Error(err))
		return nil
	}

	ext := n.tree.format.Extension
	children := make([]content.Node, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			children = append(children, n.tree.newDir(content.JoinPath(n.path, name), filepath.Join(n.dir, name)))
			continue
		}
		if !strings.HasSuffix(name, ext) || slices.Contains(n.tree.format.IndexNames, name) {
			continue
		}
		children = append(children, &fileNode{
			tree:   n.tree,
			path:   content.JoinPath(n.path, strings.TrimSuffix(name, ext)),
			source: filepath.Join(n.dir, name),
		})
	}
	return children
}

type fileNode struct {
	tree   *Tree
	path   string
	source string

	once sync.Once
	meta content.ValueMap
}

func (n *fileNode) Path() string             { return n.path }
func (n *fileNode) SourcePath() string       { return n.source }
func (n *fileNode) Children() []content.Node { return nil }

func (n *fileNode) Content() content.ValueMap {
	n.once.Do(func() { n.meta = n.tree.format.Load(n.source) })
	return n.meta
}
