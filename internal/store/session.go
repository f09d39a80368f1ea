package store

import (
	"context"
	"maps"
	"strings"
)

// Session stages changes against a store. Staged changes are visible to the
// same session before Commit and discarded by Close. A Session is not safe for
// concurrent use.
type Session struct {
	backend  Backend
	identity string

	ops        []Op
	staged     map[string]*Node // nil value: deleted in this session
	tombstones []string         // deleted subtrees
	closed     bool
}

// Identity returns the identity the session was opened with.
func (s *Session) Identity() string { return s.identity }

// Resolve returns the node at path.
func (s *Session) Resolve(ctx context.Context, path string) (Node, bool, error) {
	if s.closed {
		return Node{}, false, ErrClosed
	}
	p, err := CleanPath(path)
	if err != nil {
		return Node{}, false, err
	}
	return s.resolve(ctx, p)
}

func (s *Session) resolve(ctx context.Context, p string) (Node, bool, error) {
	if n, ok := s.staged[p]; ok {
		if n == nil {
			return Node{}, false, nil
		}
		return n.clone(), true, nil
	}
	for _, t := range s.tombstones {
		if IsWithin(p, t) {
			return Node{}, false, nil
		}
	}

	n, ok, err := s.backend.Load(ctx, p)
	if err != nil {
		return Node{}, false, ErrUnavailable.Wrap(err, "path", p)
	}
	if !ok {
		if p != RootPath {
			return Node{}, false, nil
		}
		n = Node{Path: RootPath}
	}
	return n.clone(), true, nil
}

// CreateContainer stages a new child container name below parent.
func (s *Session) CreateContainer(ctx context.Context, parent, name string) (Node, error) {
	if s.closed {
		return Node{}, ErrClosed
	}
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return Node{}, ErrInvalidPath.Wrap(nil, "name", name)
	}
	pp, err := CleanPath(parent)
	if err != nil {
		return Node{}, err
	}
	if _, ok, err := s.resolve(ctx, pp); err != nil {
		return Node{}, err
	} else if !ok {
		return Node{}, ErrNotFound.Wrap(nil, "path", pp)
	}

	child := Join(pp, name)
	if _, ok, err := s.resolve(ctx, child); err != nil {
		return Node{}, err
	} else if ok {
		return Node{}, ErrAlreadyExists.Wrap(nil, "path", child)
	}

	n := &Node{Path: child, Properties: map[string]string{}}
	s.staged[child] = n
	s.ops = append(s.ops, Op{Kind: OpCreate, Path: child})
	return n.clone(), nil
}

// SetProperties stages property writes on path. With replace, properties not
// in props are removed.
func (s *Session) SetProperties(ctx context.Context, path string, props map[string]string, replace bool) error {
	if s.closed {
		return ErrClosed
	}
	p, err := CleanPath(path)
	if err != nil {
		return err
	}
	n, ok, err := s.resolve(ctx, p)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound.Wrap(nil, "path", p)
	}

	if replace {
		n.Properties = make(map[string]string, len(props))
	}
	maps.Copy(n.Properties, props)
	s.staged[p] = &n

	cp := make(map[string]string, len(props))
	maps.Copy(cp, props)
	s.ops = append(s.ops, Op{Kind: OpSetProperties, Path: p, Properties: cp, Replace: replace})
	return nil
}

// Delete stages removal of path and everything below it.
func (s *Session) Delete(ctx context.Context, path string) error {
	if s.closed {
		return ErrClosed
	}
	p, err := CleanPath(path)
	if err != nil {
		return err
	}
	if p == RootPath {
		return ErrInvalidPath.Wrap(nil, "path", p, "reason", "root cannot be deleted")
	}
	if _, ok, err := s.resolve(ctx, p); err != nil {
		return err
	} else if !ok {
		return ErrNotFound.Wrap(nil, "path", p)
	}

	for k := range s.staged {
		if IsWithin(k, p) {
			delete(s.staged, k)
		}
	}
	s.staged[p] = nil
	s.tombstones = append(s.tombstones, p)
	s.ops = append(s.ops, Op{Kind: OpDelete, Path: p})
	return nil
}

// Pending reports whether the session has uncommitted changes.
func (s *Session) Pending() bool { return len(s.ops) > 0 }

// Commit persists every staged change in one change set.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if len(s.ops) == 0 {
		return nil
	}
	cs := ChangeSet{Identity: s.identity, Ops: s.ops}
	if err := s.backend.Apply(ctx, cs); err != nil {
		return ErrCommit.Wrap(err, "ops", len(cs.Ops))
	}
	s.ops = nil
	s.tombstones = nil
	clear(s.staged)
	return nil
}

// Close discards uncommitted changes. It is safe to call more than once.
func (s *Session) Close() {
	s.closed = true
	s.ops = nil
	s.staged = nil
	s.tombstones = nil
}
