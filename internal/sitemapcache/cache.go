// Package sitemapcache serves generated sitemap documents from the backing
// store, generating and persisting every part of a root on first access.
package sitemapcache

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"time"

	"github.com/golang/groupcache/singleflight"

	"git.home.luguber.info/inful/sitemapd/internal/content"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
	"git.home.luguber.info/inful/sitemapd/internal/metrics"
	"git.home.luguber.info/inful/sitemapd/internal/sitemap"
	"git.home.luguber.info/inful/sitemapd/internal/store"
)

// Failure reasons reported to the recorder and in logs.
const (
	ReasonConnect          = "connect"
	ReasonLocation         = "location"
	ReasonNoExtractor      = "no_extractor"
	ReasonCommit           = "commit"
	ReasonIndexOutOfRange  = "index_out_of_range"
	defaultServiceIdentity = "sitemap"
)

// Config holds the cache settings. Bounds <= 0 are unbounded.
type Config struct {
	Location          string
	MaxEntriesCount   int
	MaxFileSize       int
	ServiceSubservice string
}

// Cache is the sitemap cache. It is safe for concurrent use.
type Cache struct {
	store    *store.Store
	registry *sitemap.Registry
	builder  sitemap.Builder
	recorder metrics.Recorder
	cfg      Config

	flights singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithBuilder replaces the XML builder.
func WithBuilder(b sitemap.Builder) Option {
	return func(c *Cache) {
		if b != nil {
			c.builder = b
		}
	}
}

// New creates a cache persisting into st with extractors from reg.
func New(st *store.Store, reg *sitemap.Registry, cfg Config, opts ...Option) *Cache {
	if cfg.Location == "" {
		cfg.Location = "/"
	}
	if cfg.ServiceSubservice == "" {
		cfg.ServiceSubservice = defaultServiceIdentity
	}
	c := &Cache{
		store:    st,
		registry: reg,
		builder:  sitemap.XMLBuilder{},
		recorder: metrics.NoopRecorder{},
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// failure carries the reason a lookup returned nothing.
type failure struct {
	reason string
	err    error
}

func fail(reason string, err error) *failure { return &failure{reason: reason, err: err} }

// LocationFor returns the store path caching rootPath.
func (c *Cache) LocationFor(rootPath string) string {
	return path.Clean(c.cfg.Location + "/" + rootPath)
}

// Get returns part index of the sitemap for root. Index documents link parts
// through ub. The second result is false when the document is unavailable for
// any reason; the cause is logged and counted, never returned.
func (c *Cache) Get(ctx context.Context, root content.Page, index int, ub sitemap.URLBuilder) (string, bool) {
	doc, f := c.get(ctx, root, index, ub)
	if f != nil {
		c.report(root.Path(), index, f)
		return "", false
	}
	return doc, true
}

func (c *Cache) get(ctx context.Context, root content.Page, index int, ub sitemap.URLBuilder) (string, *failure) {
	sess, err := c.store.Open(ctx, c.cfg.ServiceSubservice)
	if err != nil {
		return "", fail(ReasonConnect, err)
	}
	defer sess.Close()

	loc := c.LocationFor(root.Path())
	node, err := ensureLocation(ctx, sess, loc)
	if err != nil {
		return "", fail(ReasonLocation, err)
	}

	key := strconv.Itoa(index)
	if doc, ok := node.Properties[key]; ok {
		c.recorder.IncCacheLookup(metrics.LookupHit)
		slog.Debug("Sitemap cache hit", logfields.Root(root.Path()), logfields.Part(index))
		return doc, nil
	}

	// Followers share the result, so the leader's cancellation must not end the flight.
	flightCtx := context.WithoutCancel(ctx)
	res, err := c.flights.Do(loc, func() (any, error) {
		docs, f := c.regenerate(flightCtx, sess, root, ub, loc)
		if f != nil {
			return nil, f
		}
		return docs, nil
	})
	if err != nil {
		if f, ok := err.(*failure); ok {
			return "", f
		}
		return "", fail(ReasonCommit, err)
	}

	c.recorder.IncCacheLookup(metrics.LookupMiss)
	doc, ok := res.(map[string]string)[key]
	if !ok {
		return "", fail(ReasonIndexOutOfRange, errors.NotFoundError("sitemap part not generated").
			WithContext("index", index).Build())
	}
	return doc, nil
}

func (f *failure) Error() string { return f.reason + ": " + f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

// regenerate extracts, splits and serializes root, then writes every part
// into the location, replacing what was there, in a single commit. Index
// links go through the externalizer of the extractor that handled root.
func (c *Cache) regenerate(ctx context.Context, sess *store.Session, root content.Page, ub sitemap.URLBuilder, loc string) (map[string]string, *failure) {
	ext, ok := c.registry.FindFirstFor(root)
	if !ok {
		return nil, fail(ReasonNoExtractor, errors.ExtractionError("no extractor applies").
			WithContext("root", root.Path()).Build())
	}

	start := time.Now()
	entries := ext.Extract(root)
	batches := sitemap.Split(entries, c.cfg.MaxEntriesCount, c.cfg.MaxFileSize, c.builder)

	docs := make(map[string]string, len(batches)+1)
	if len(batches) > 1 {
		docs["0"] = c.builder.BuildSiteMapIndex(root.Path(), ext.SiteMapURLBuilder(ub), len(batches))
		for i, batch := range batches {
			docs[strconv.Itoa(i+1)] = c.builder.BuildURLSet(batch)
		}
	} else {
		docs["0"] = c.builder.BuildURLSet(batches[0])
	}

	if err := sess.SetProperties(ctx, loc, docs, true); err != nil {
		return nil, fail(ReasonLocation, err)
	}
	if err := sess.Commit(ctx); err != nil {
		return nil, fail(ReasonCommit, err)
	}

	elapsed := time.Since(start)
	c.recorder.ObserveGeneration(root.Path(), elapsed, len(entries), len(docs))
	slog.Info("Sitemap generated",
		logfields.Root(root.Path()),
		slog.String("extractor", ext.Name()),
		logfields.Entries(len(entries)),
		logfields.Parts(len(docs)),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return docs, nil
}

// ensureLocation resolves loc, staging any missing containers from the first
// existing ancestor downwards. The caller's commit persists them.
func ensureLocation(ctx context.Context, sess *store.Session, loc string) (store.Node, error) {
	var missing []string
	cur := loc
	for {
		node, ok, err := sess.Resolve(ctx, cur)
		if err != nil {
			return store.Node{}, err
		}
		if ok {
			if cur == loc {
				return node, nil
			}
			break
		}
		missing = append(missing, path.Base(cur))
		cur = store.Parent(cur)
	}

	var node store.Node
	for i := len(missing) - 1; i >= 0; i-- {
		created, err := sess.CreateContainer(ctx, cur, missing[i])
		if err != nil {
			return store.Node{}, err
		}
		node, cur = created, created.Path
	}
	return node, nil
}

func (c *Cache) report(root string, index int, f *failure) {
	if f.reason == ReasonIndexOutOfRange {
		slog.Debug("Sitemap part not available", logfields.Root(root), logfields.Part(index))
	} else {
		c.recorder.IncCacheLookup(metrics.LookupFailed)
		slog.Warn("Sitemap unavailable",
			logfields.Root(root),
			logfields.Part(index),
			logfields.Reason(f.reason),
			logfields.Error(f.err))
	}
	c.recorder.IncCacheFailure(f.reason)
}

// Invalidate drops every cached part of rootPath. The location itself is kept.
func (c *Cache) Invalidate(ctx context.Context, rootPath string) error {
	sess, err := c.store.Open(ctx, c.cfg.ServiceSubservice)
	if err != nil {
		return err
	}
	defer sess.Close()

	loc := c.LocationFor(rootPath)
	_, ok, err := sess.Resolve(ctx, loc)
	if err != nil || !ok {
		return err
	}
	if err := sess.SetProperties(ctx, loc, map[string]string{}, true); err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	c.recorder.IncInvalidation(rootPath)
	slog.Info("Sitemap cache invalidated", logfields.Root(rootPath))
	return nil
}

// Warm generates root's parts unless part 0 is already cached.
func (c *Cache) Warm(ctx context.Context, root content.Page, ub sitemap.URLBuilder) bool {
	_, ok := c.Get(ctx, root, 0, ub)
	return ok
}

// Parts returns every cached part of root in index order, generating them
// first when part 0 is missing.
func (c *Cache) Parts(ctx context.Context, root content.Page, ub sitemap.URLBuilder) ([]string, bool) {
	if _, ok := c.Get(ctx, root, 0, ub); !ok {
		return nil, false
	}
	sess, err := c.store.Open(ctx, c.cfg.ServiceSubservice)
	if err != nil {
		c.report(root.Path(), 0, fail(ReasonConnect, err))
		return nil, false
	}
	defer sess.Close()

	node, ok, err := sess.Resolve(ctx, c.LocationFor(root.Path()))
	if err != nil || !ok {
		c.report(root.Path(), 0, fail(ReasonLocation, errors.StoreError("location vanished").WithCause(err).Build()))
		return nil, false
	}

	indexes := make([]int, 0, len(node.Properties))
	for k := range node.Properties {
		if i, err := strconv.Atoi(k); err == nil {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)
	parts := make([]string, 0, len(indexes))
	for _, i := range indexes {
		parts = append(parts, node.Properties[strconv.Itoa(i)])
	}
	return parts, true
}
