package fstree

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapd/internal/content"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func TestTree_LoadsLazilyOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.txt", "root")
	writeFile(t, dir, "a.txt", "a")

	var loads atomic.Int32
	tree, err := New(dir, "/r", Format{
		Extension:  ".txt",
		IndexNames: []string{"index.txt"},
		Load: func(file string) content.ValueMap {
			loads.Add(1)
			return content.ValueMap{"file": filepath.Base(file)}
		},
	})
	require.NoError(t, err)

	root := tree.Root()
	children := root.Children()
	require.Len(t, children, 1)
	assert.Equal(t, "/r/a", children[0].Path())
	assert.Equal(t, int32(0), loads.Load())

	assert.Equal(t, "a.txt", children[0].Content().String("file"))
	assert.Equal(t, "a.txt", children[0].Content().String("file"))
	assert.Equal(t, "index.txt", root.Content().String("file"))
	assert.Equal(t, int32(2), loads.Load())
}

func TestNew_Validation(t *testing.T) {
	load := func(string) content.ValueMap { return nil }

	_, err := New(filepath.Join(t.TempDir(), "missing"), "/r", Format{Load: load})
	require.Error(t, err)

	dir := t.TempDir()
	writeFile(t, dir, "f", "x")
	_, err = New(filepath.Join(dir, "f"), "/r", Format{Load: load})
	require.Error(t, err)

	_, err = New(dir, "/r", Format{})
	require.Error(t, err)
}
