package content

// MemNode is an in-memory content node, used for tests and programmatic trees.
type MemNode struct {
	path     string
	content  ValueMap
	children []Node
}

// NewMemNode creates a detached node at path.
func NewMemNode(path string, content ValueMap) *MemNode {
	if content == nil {
		content = ValueMap{}
	}
	return &MemNode{path: path, content: content}
}

// Add creates a child named name and returns it.
func (n *MemNode) Add(name string, content ValueMap) *MemNode {
	child := NewMemNode(JoinPath(n.path, name), content)
	n.children = append(n.children, child)
	return child
}

// Link appends an existing node as a child. Linking an ancestor produces a
// cyclic graph, which the extractor tolerates.
func (n *MemNode) Link(child Node) {
	n.children = append(n.children, child)
}

func (n *MemNode) Path() string      { return n.path }
func (n *MemNode) Children() []Node  { return n.children }
func (n *MemNode) Content() ValueMap { return n.content }
