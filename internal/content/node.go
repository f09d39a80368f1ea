package content

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Node is one node of a hierarchical content tree.
type Node interface {
	// Path is the absolute, slash-separated content path (e.g. /content/site/a).
	Path() string
	// Children returns the child nodes in iteration order.
	Children() []Node
	// Content returns the node's metadata. It is never nil.
	Content() ValueMap
}

// Sourced is implemented by nodes backed by a file on disk.
type Sourced interface {
	SourcePath() string
}

// ValueMap holds page metadata. Nested maps (as decoded from YAML) are
// addressed with dotted keys, e.g. "sitemap.changefreq".
type ValueMap map[string]any

// Lookup resolves a possibly dotted key.
func (m ValueMap) Lookup(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[key]; ok {
		return v, true
	}
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}
	switch nested := m[head].(type) {
	case ValueMap:
		return nested.Lookup(rest)
	case map[string]any:
		return ValueMap(nested).Lookup(rest)
	default:
		return nil, false
	}
}

// String returns the value for key formatted as a string, or "" when absent.
func (m ValueMap) String(key string) string {
	v, ok := m.Lookup(key)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// Bool reports whether key holds a true-ish value.
func (m ValueMap) Bool(key string) bool {
	v, ok := m.Lookup(key)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return false
	}
}

// timeLayouts are tried in order when a date is stored as a string.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Time returns the value for key as a time.
func (m ValueMap) Time(key string) (time.Time, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// JoinPath appends name to a content path.
func JoinPath(parent, name string) string {
	if parent == "" || parent == "/" {
		return "/" + name
	}
	return strings.TrimSuffix(parent, "/") + "/" + name
}
