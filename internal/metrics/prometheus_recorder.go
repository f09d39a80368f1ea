package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	lookups       *prom.CounterVec
	failures      *prom.CounterVec
	genDuration   *prom.HistogramVec
	genEntries    *prom.GaugeVec
	genParts      *prom.GaugeVec
	invalidations *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the cache metrics on reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		lookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapd",
			Name:      "cache_lookups_total",
			Help:      "Sitemap cache lookups by result",
		}, []string{"result"}),
		failures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapd",
			Name:      "cache_failures_total",
			Help:      "Sitemap cache lookups that returned nothing, by reason",
		}, []string{"reason"}),
		genDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitemapd",
			Name:      "generation_duration_seconds",
			Help:      "Duration of sitemap extraction, splitting and persistence",
			Buckets:   prom.DefBuckets,
		}, []string{"root"}),
		genEntries: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "sitemapd",
			Name:      "generated_entries",
			Help:      "Entries produced by the most recent generation of a root",
		}, []string{"root"}),
		genParts: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "sitemapd",
			Name:      "generated_parts",
			Help:      "Documents stored by the most recent generation of a root",
		}, []string{"root"}),
		invalidations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitemapd",
			Name:      "invalidations_total",
			Help:      "Cache location invalidations by root",
		}, []string{"root"}),
	}
	reg.MustRegister(pr.lookups, pr.failures, pr.genDuration, pr.genEntries, pr.genParts, pr.invalidations)
	return pr
}

func (p *PrometheusRecorder) IncCacheLookup(result LookupResult) {
	if p == nil {
		return
	}
	p.lookups.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncCacheFailure(reason string) {
	if p == nil {
		return
	}
	p.failures.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) ObserveGeneration(root string, d time.Duration, entries, parts int) {
	if p == nil {
		return
	}
	p.genDuration.WithLabelValues(root).Observe(d.Seconds())
	p.genEntries.WithLabelValues(root).Set(float64(entries))
	p.genParts.WithLabelValues(root).Set(float64(parts))
}

func (p *PrometheusRecorder) IncInvalidation(root string) {
	if p == nil {
		return
	}
	p.invalidations.WithLabelValues(root).Inc()
}
