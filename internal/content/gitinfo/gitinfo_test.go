package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, wt *git.Worktree, dir, name, body string, when time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	_, err := wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "docs", Email: "docs@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestResolver_LastModified(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	first := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	second := time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)
	commitFile(t, wt, dir, "docs/a.md", "# A\n", first)
	commitFile(t, wt, dir, "docs/b.md", "# B\n", second)

	r, err := Open(filepath.Join(dir, "docs"))
	require.NoError(t, err)

	got, ok := r.LastModified(filepath.Join(dir, "docs", "a.md"))
	require.True(t, ok)
	require.True(t, got.Equal(first), "got %s", got)

	got, ok = r.LastModified(filepath.Join(dir, "docs", "b.md"))
	require.True(t, ok)
	require.True(t, got.Equal(second), "got %s", got)

	_, ok = r.LastModified(filepath.Join(dir, "docs", "missing.md"))
	require.False(t, ok)
}

func TestResolver_OutsideRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	r, err := Open(dir)
	require.NoError(t, err)
	_, ok := r.LastModified(filepath.Join(t.TempDir(), "elsewhere.md"))
	require.False(t, ok)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
}
