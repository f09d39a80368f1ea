package store

import "context"

// Backend persists nodes.
//
// Apply creates missing nodes idempotently (mkdir -p semantics) so that two
// sessions creating the same ancestors do not conflict. Setting properties on
// a node that does not exist fails the change set. Delete removes the node
// and everything below it.
type Backend interface {
	Load(ctx context.Context, path string) (Node, bool, error)
	Apply(ctx context.Context, cs ChangeSet) error
	Close() error
}

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
