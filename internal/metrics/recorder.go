package metrics

import "time"

// LookupResult enumerates cache lookup outcomes for counters.
type LookupResult string

const (
	LookupHit    LookupResult = "hit"
	LookupMiss   LookupResult = "miss"
	LookupFailed LookupResult = "failed"
)

// Recorder defines observability hooks for the sitemap cache. Implementations
// may forward to Prometheus or any other backend.
type Recorder interface {
	IncCacheLookup(result LookupResult)
	IncCacheFailure(reason string)
	ObserveGeneration(root string, d time.Duration, entries, parts int)
	IncInvalidation(root string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncCacheLookup(LookupResult)                       {}
func (NoopRecorder) IncCacheFailure(string)                            {}
func (NoopRecorder) ObserveGeneration(string, time.Duration, int, int) {}
func (NoopRecorder) IncInvalidation(string)                            {}
