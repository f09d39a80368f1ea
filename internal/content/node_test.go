package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueMap_LookupNested(t *testing.T) {
	m := ValueMap{
		"title":   "Home",
		"sitemap": map[string]any{"changefreq": "daily", "disable": true},
	}

	v, ok := m.Lookup("sitemap.changefreq")
	require.True(t, ok)
	assert.Equal(t, "daily", v)
	assert.True(t, m.Bool("sitemap.disable"))
	assert.False(t, m.Bool("draft"))

	_, ok = m.Lookup("title.nested")
	assert.False(t, ok)
}

func TestValueMap_Time(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m := ValueMap{"a": ts, "b": "2024-05-02", "c": "not a date"}

	got, ok := m.Time("a")
	require.True(t, ok)
	assert.True(t, got.Equal(ts))

	got, ok = m.Time("b")
	require.True(t, ok)
	assert.Equal(t, 2, got.Day())

	_, ok = m.Time("c")
	assert.False(t, ok)
	_, ok = m.Time("missing")
	assert.False(t, ok)
}

func TestValueMap_String(t *testing.T) {
	m := ValueMap{"p": 0.8, "s": "  x  "}
	assert.Equal(t, "0.8", m.String("p"))
	assert.Equal(t, "x", m.String("s"))
	assert.Equal(t, "", m.String("none"))
}

func TestMemNode_Tree(t *testing.T) {
	root := NewMemNode("/content/site", nil)
	a := root.Add("a", ValueMap{"title": "A"})
	root.Add("b", nil)

	require.Len(t, root.Children(), 2)
	assert.Equal(t, "/content/site/a", a.Path())
	assert.Equal(t, "/content/site/b", root.Children()[1].Path())

	page := NewPage(a)
	assert.Equal(t, "A", page.Content().String("title"))
	_, ok := page.SourcePath()
	assert.False(t, ok)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/a", JoinPath("/", "a"))
	assert.Equal(t, "/a", JoinPath("", "a"))
	assert.Equal(t, "/x/a", JoinPath("/x/", "a"))
}
