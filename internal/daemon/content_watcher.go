package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitemapd/internal/content/mdtree"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

const defaultDebounce = 2 * time.Second

// ContentWatcher invalidates a site's sitemap when files below its source
// directory change. Markdown edits that leave the fingerprint unchanged are
// ignored.
type ContentWatcher struct {
	cache    Cache
	sites    map[string]Site // absolute source dir -> site
	debounce time.Duration
	warm     bool
	watcher  *fsnotify.Watcher

	mu       sync.Mutex
	prints   map[string]string // markdown file -> fingerprint
	timers   map[string]*time.Timer
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewContentWatcher creates a watcher for sites. A debounce <= 0 uses 2s.
func NewContentWatcher(cache Cache, sites []Site, debounce time.Duration, warm bool) (*ContentWatcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	bySource := make(map[string]Site, len(sites))
	for _, s := range sites {
		abs, err := filepath.Abs(s.SourceDir())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source of site %s: %w", s.Name(), err)
		}
		bySource[abs] = s
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &ContentWatcher{
		cache:    cache,
		sites:    bySource,
		debounce: debounce,
		warm:     warm,
		watcher:  watcher,
		prints:   make(map[string]string),
		timers:   make(map[string]*time.Timer),
		stopChan: make(chan struct{}),
	}, nil
}

// Start records the current fingerprints, watches every source directory
// recursively and begins processing events.
func (cw *ContentWatcher) Start(ctx context.Context) error {
	for dir, site := range cw.sites {
		if err := cw.addTree(dir); err != nil {
			return fmt.Errorf("failed to watch source of site %s: %w", site.Name(), err)
		}
		slog.Info("Watching site sources", logfields.Site(site.Name()), logfields.Path(dir))
	}
	go cw.watchLoop(ctx)
	return nil
}

// Stop stops the watcher and cancels pending invalidations.
func (cw *ContentWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		slog.Info("Stopping content watcher")
		close(cw.stopChan)
		cw.mu.Lock()
		for name, t := range cw.timers {
			t.Stop()
			delete(cw.timers, name)
		}
		cw.mu.Unlock()
		err = cw.watcher.Close()
	})
	return err
}

// addTree watches dir and its non-hidden subdirectories and fingerprints the
// markdown files found on the way.
func (cw *ContentWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && isHidden(p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return cw.watcher.Add(p)
		}
		if isMarkdown(p) {
			if fp, ferr := mdtree.Fingerprint(p); ferr == nil {
				cw.mu.Lock()
				cw.prints[p] = fp
				cw.mu.Unlock()
			}
		}
		return nil
	})
}

func (cw *ContentWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = cw.Stop()
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if site, ok := cw.changed(event); ok {
				cw.schedule(ctx, site)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", logfields.Error(err))
		}
	}
}

// changed reports whether event alters the sitemap of the returned site.
func (cw *ContentWatcher) changed(event fsnotify.Event) (Site, bool) {
	site, ok := cw.siteFor(event.Name)
	if !ok || isHidden(event.Name) {
		return nil, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		cw.mu.Lock()
		delete(cw.prints, event.Name)
		cw.mu.Unlock()
		slog.Debug("Source removed", logfields.Site(site.Name()), logfields.Path(event.Name))
		return site, true

	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if isDir(event.Name) {
			if err := cw.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return site, true
		}
		if !isMarkdown(event.Name) {
			return site, true
		}
		fp, err := mdtree.Fingerprint(event.Name)
		if err != nil {
			return site, true
		}
		cw.mu.Lock()
		defer cw.mu.Unlock()
		if cw.prints[event.Name] == fp {
			return nil, false
		}
		cw.prints[event.Name] = fp
		slog.Debug("Source changed", logfields.Site(site.Name()), logfields.Path(event.Name))
		return site, true
	}
	return nil, false
}

// schedule (re)arms the site's debounce timer.
func (cw *ContentWatcher) schedule(ctx context.Context, site Site) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	select {
	case <-cw.stopChan:
		return
	default:
	}
	if t, ok := cw.timers[site.Name()]; ok {
		t.Stop()
	}
	cw.timers[site.Name()] = time.AfterFunc(cw.debounce, func() {
		cw.mu.Lock()
		delete(cw.timers, site.Name())
		cw.mu.Unlock()
		if err := refresh(ctx, cw.cache, site, cw.warm); err != nil {
			slog.Error("Sitemap invalidation failed", logfields.Site(site.Name()), logfields.Error(err))
		}
	})
}

func (cw *ContentWatcher) siteFor(file string) (Site, bool) {
	for dir, site := range cw.sites {
		if file == dir || strings.HasPrefix(file, dir+string(filepath.Separator)) {
			return site, true
		}
	}
	return nil, false
}
