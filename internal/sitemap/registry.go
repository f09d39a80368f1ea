package sitemap

import (
	"sync"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
)

// ErrDuplicateExtractor is returned when an extractor name is registered twice.
var ErrDuplicateExtractor = errors.ValidationError("duplicate extractor name").Build()

// Registry is an ordered collection of extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors []*Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends e. Names must be unique.
func (r *Registry) Register(e *Extractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.extractors {
		if existing.Name() == e.Name() {
			return ErrDuplicateExtractor.Wrap(nil, "name", e.Name())
		}
	}
	r.extractors = append(r.extractors, e)
	return nil
}

// FindFirstFor returns the first registered extractor that applies to root.
func (r *Registry) FindFirstFor(root content.Page) (*Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.extractors {
		if e.AppliesTo(root) {
			return e, true
		}
	}
	return nil, false
}

// Get returns the extractor registered under name.
func (r *Registry) Get(name string) (*Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.extractors {
		if e.Name() == name {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of registered extractors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.extractors)
}
