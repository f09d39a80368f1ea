// Package metrics provides the observability hooks for sitemap caching.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	cache := sitemapcache.New(store, registry, builder, sitemapcache.WithRecorder(rec))
//
// When monitoring.metrics.enabled is set, the CLI swaps in a PrometheusRecorder
// and mounts HTTPHandler on the configured path.
package metrics
