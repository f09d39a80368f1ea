package store

import (
	"context"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

// Store hands out sessions against one backend.
type Store struct {
	name    string
	backend Backend
	allowed []string
}

// Option configures a Store.
type Option func(*Store)

// WithAllowedIdentities restricts which identities may open sessions. With
// none configured any non-empty identity is accepted.
func WithAllowedIdentities(ids ...string) Option {
	return func(s *Store) { s.allowed = append(s.allowed, ids...) }
}

// WithName labels the store in logs.
func WithName(name string) Option {
	return func(s *Store) { s.name = name }
}

// New creates a store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{name: "store", backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the store's label.
func (s *Store) Name() string { return s.name }

// Open starts a session for identity. The session must be closed.
func (s *Store) Open(ctx context.Context, identity string) (*Session, error) {
	if identity == "" || (len(s.allowed) > 0 && !slices.Contains(s.allowed, identity)) {
		return nil, ErrUnauthorized.Wrap(nil, "identity", identity)
	}
	if err := ctx.Err(); err != nil {
		return nil, ErrUnavailable.Wrap(err)
	}
	if p, ok := s.backend.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return nil, ErrUnavailable.Wrap(err, "store", s.name)
		}
	}
	slog.Debug("Store session opened", logfields.Store(s.name), logfields.Identity(identity))
	return &Session{
		backend:  s.backend,
		identity: identity,
		staged:   make(map[string]*Node),
	}, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
