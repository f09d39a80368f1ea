// Package gitinfo resolves the last commit time of files inside a git work tree.
package gitinfo

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

// Resolver answers "when was this file last committed" for one repository.
// Results are memoized per file; the resolver is safe for concurrent use.
type Resolver struct {
	repo *git.Repository
	root string

	mu    sync.Mutex
	cache map[string]time.Time
}

// Open locates the repository containing dir (walking up to the .git directory).
func Open(dir string) (*Resolver, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "open git repository").
			WithContext("dir", dir).Build()
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "git repository has no work tree").
			WithContext("dir", dir).Build()
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		root = wt.Filesystem.Root()
	}
	return &Resolver{repo: repo, root: root, cache: make(map[string]time.Time)}, nil
}

// LastModified returns the committer time of the newest commit touching file.
func (r *Resolver) LastModified(file string) (time.Time, bool) {
	rel, ok := r.relative(file)
	if !ok {
		return time.Time{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.cache[rel]; ok {
		return t, !t.IsZero()
	}

	t := r.lookup(rel)
	r.cache[rel] = t
	return t, !t.IsZero()
}

func (r *Resolver) lookup(rel string) time.Time {
	iter, err := r.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		slog.Debug("git log failed", logfields.Path(rel), logfields.Error(err))
		return time.Time{}
	}
	defer iter.Close()

	c, err := iter.Next()
	if err != nil {
		return time.Time{}
	}
	return c.Committer.When
}

func (r *Resolver) relative(file string) (string, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}
