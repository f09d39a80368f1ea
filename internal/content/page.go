package content

// Page is a thin view over a Node. It is created per traversal step and not retained.
type Page struct {
	node Node
}

// NewPage wraps n.
func NewPage(n Node) Page {
	return Page{node: n}
}

// Path returns the node's content path.
func (p Page) Path() string { return p.node.Path() }

// Children returns the node's children in iteration order.
func (p Page) Children() []Node { return p.node.Children() }

// Content returns the node's metadata map.
func (p Page) Content() ValueMap {
	if c := p.node.Content(); c != nil {
		return c
	}
	return ValueMap{}
}

// Node returns the wrapped node.
func (p Page) Node() Node { return p.node }

// SourcePath returns the backing file when the node has one.
func (p Page) SourcePath() (string, bool) {
	if s, ok := p.node.(Sourced); ok && s.SourcePath() != "" {
		return s.SourcePath(), true
	}
	return "", false
}
