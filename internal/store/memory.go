package store

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryBackend keeps nodes in process memory. Change sets are applied to a
// copy that replaces the live map only when every operation succeeded.
type MemoryBackend struct {
	mu    sync.RWMutex
	nodes map[string]map[string]string
}

// NewMemoryBackend creates a backend holding only the root node.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{nodes: map[string]map[string]string{RootPath: {}}}
}

// Load implements Backend.
func (m *MemoryBackend) Load(_ context.Context, path string) (Node, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	props, ok := m.nodes[path]
	if !ok {
		return Node{}, false, nil
	}
	return Node{Path: path, Properties: maps.Clone(props)}, true, nil
}

// Apply implements Backend.
func (m *MemoryBackend) Apply(ctx context.Context, cs ChangeSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]map[string]string, len(m.nodes)+len(cs.Ops))
	for p, props := range m.nodes {
		next[p] = maps.Clone(props)
	}
	for _, op := range cs.Ops {
		if err := applyMemoryOp(next, op); err != nil {
			return err
		}
	}
	m.nodes = next
	return nil
}

func applyMemoryOp(nodes map[string]map[string]string, op Op) error {
	switch op.Kind {
	case OpCreate:
		if _, ok := nodes[op.Path]; !ok {
			nodes[op.Path] = map[string]string{}
		}
	case OpSetProperties:
		props, ok := nodes[op.Path]
		if !ok {
			return ErrNotFound.Wrap(nil, "path", op.Path)
		}
		if op.Replace {
			props = map[string]string{}
			nodes[op.Path] = props
		}
		maps.Copy(props, op.Properties)
	case OpDelete:
		for p := range nodes {
			if p != RootPath && IsWithin(p, op.Path) {
				delete(nodes, p)
			}
		}
	}
	return nil
}

// Paths returns every stored path in sorted order.
func (m *MemoryBackend) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.nodes))
}

// Close implements Backend.
func (m *MemoryBackend) Close() error { return nil }
