package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapd/internal/config"
	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// setup writes a two-page markdown site and a config using the sqlite store.
func setup(t *testing.T, maxEntries int) *CLI {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "docs")
	writeFile(t, src, "_index.md", "---\ntitle: Docs\nlastmod: 2024-01-02\n---\n")
	writeFile(t, src, "install.md", "---\nlastmod: 2024-03-04\nsitemap:\n  changefreq: daily\n---\n")

	cfg := fmt.Sprintf(`
cache:
  max_entries_count: %d
store:
  backend: sqlite
  sqlite:
    path: %q
sites:
  - name: docs
    source: %q
    base_url: https://docs.example.com
    properties: [lastmod, changefreq]
monitoring:
  logging:
    level: error
`, maxEntries, filepath.Join(dir, "cache.db"), src)
	return &CLI{Config: writeFile(t, dir, "sitemapd.yaml", cfg)}
}

func TestGenerate_WritesEveryPart(t *testing.T) {
	root := setup(t, 1)
	out := t.TempDir()
	var buf bytes.Buffer

	cmd := &GenerateCmd{Output: out}
	require.NoError(t, cmd.Run(&Global{Out: &buf}, root))

	index, err := os.ReadFile(filepath.Join(out, "docs.sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<sitemapindex")
	assert.Contains(t, string(index), "https://docs.example.com/docs.sitemap.2.xml")

	part2, err := os.ReadFile(filepath.Join(out, "docs.sitemap.2.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(part2), "<loc>https://docs.example.com/install.html</loc>")
	assert.Contains(t, string(part2), "<changefreq>daily</changefreq>")

	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 3)
}

func TestGenerate_PicksUpContentChanges(t *testing.T) {
	root := setup(t, 0)
	out := t.TempDir()
	require.NoError(t, (&GenerateCmd{Output: out}).Run(&Global{Out: &bytes.Buffer{}}, root))

	src := filepath.Join(filepath.Dir(root.Config), "docs")
	writeFile(t, src, "upgrade.md", "---\nlastmod: 2024-05-06\n---\n")

	cached := t.TempDir()
	require.NoError(t, (&GenerateCmd{Output: cached, Cached: true}).Run(&Global{Out: &bytes.Buffer{}}, root))
	stale, err := os.ReadFile(filepath.Join(cached, "docs.sitemap.xml"))
	require.NoError(t, err)
	assert.NotContains(t, string(stale), "upgrade.html")

	require.NoError(t, (&GenerateCmd{Output: out}).Run(&Global{Out: &bytes.Buffer{}}, root))
	doc, err := os.ReadFile(filepath.Join(out, "docs.sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "<loc>https://docs.example.com/upgrade.html</loc>")
}

func TestGenerate_UnknownSite(t *testing.T) {
	root := setup(t, 0)
	cmd := &GenerateCmd{Site: "blog", Output: t.TempDir()}
	err := cmd.Run(&Global{Out: &bytes.Buffer{}}, root)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestExtract_PrintsEntries(t *testing.T) {
	root := setup(t, 0)
	var buf bytes.Buffer
	require.NoError(t, (&ExtractCmd{Site: "docs"}).Run(&Global{Out: &buf}, root))

	assert.Equal(t,
		"https://docs.example.com/\tlastmod=2024-01-02\n"+
			"https://docs.example.com/install.html\tlastmod=2024-03-04\tchangefreq=daily\n",
		buf.String())
}

func TestInvalidate(t *testing.T) {
	root := setup(t, 0)
	require.NoError(t, (&GenerateCmd{Output: t.TempDir()}).Run(&Global{Out: &bytes.Buffer{}}, root))

	var buf bytes.Buffer
	require.NoError(t, (&InvalidateCmd{}).Run(&Global{Out: &buf}, root))
	assert.Equal(t, "invalidated docs (/docs)\n", buf.String())
}

func TestLoadApp_MissingConfig(t *testing.T) {
	err := (&ExtractCmd{}).Run(&Global{}, &CLI{Config: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggingConfig{Level: config.LogLevelWarn, Format: config.LogFormatJSON}, false)
	logger.Info("hidden")
	logger.Warn("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])

	buf.Reset()
	logger = newLogger(&buf, config.LoggingConfig{Level: config.LogLevelWarn}, true)
	logger.Debug("debug")
	assert.Contains(t, buf.String(), "msg=debug")
}
