// Package store is the hierarchical backing store the sitemap cache persists
// into.
//
// Nodes are addressed by slash-separated paths and carry a string property
// map. Callers open a Session for a service identity, stage changes, and
// persist them with a single Commit. A Backend applies a whole ChangeSet or
// nothing (the NATS backend applies operations in order, see nats.go).
// The root node "/" always exists.
package store
