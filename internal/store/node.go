package store

import (
	"maps"
	"path"
	"strings"
)

// RootPath is the path of the node that always exists.
const RootPath = "/"

// Node is a persisted container and its properties.
type Node struct {
	Path       string
	Properties map[string]string
}

func (n Node) clone() Node {
	props := make(map[string]string, len(n.Properties))
	maps.Copy(props, n.Properties)
	return Node{Path: n.Path, Properties: props}
}

// OpKind identifies a staged operation.
type OpKind string

const (
	OpCreate        OpKind = "create"
	OpSetProperties OpKind = "set_properties"
	OpDelete        OpKind = "delete"
)

// Op is one staged change.
type Op struct {
	Kind       OpKind
	Path       string
	Properties map[string]string // OpSetProperties only
	Replace    bool              // OpSetProperties: drop properties not in Properties
}

// ChangeSet is what a Session hands to its backend on Commit.
type ChangeSet struct {
	Identity string
	Ops      []Op
}

// CleanPath normalizes p to an absolute slash path without trailing slash.
func CleanPath(p string) (string, error) {
	if p == "" || !strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath.Wrap(nil, "path", p)
	}
	return path.Clean(p), nil
}

// Parent returns the parent path of p; the parent of "/" is "/".
func Parent(p string) string {
	return path.Dir(p)
}

// Join appends a child name to a parent path.
func Join(parent, name string) string {
	if parent == RootPath {
		return RootPath + name
	}
	return parent + "/" + name
}

// IsWithin reports whether p equals prefix or lies below it.
func IsWithin(p, prefix string) bool {
	if prefix == RootPath {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
