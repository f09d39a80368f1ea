package sitemap

import (
	"encoding/xml"
	"slices"
	"strings"
)

// Builder serializes entries and reports serialized sizes. Split relies on
//
//	len(BuildURLSet(batch)) == BaseSiteMapLength() + Σ Size(e)
type Builder interface {
	BaseSiteMapLength() int
	Size(e Entry) int
	BuildURLSet(entries []Entry) string
	BuildSiteMapIndex(root string, ub URLBuilder, parts int) string
}

const (
	xmlHeader    = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	sitemapNS    = "http://www.sitemaps.org/schemas/sitemap/0.9"
	imageNS      = "http://www.google.com/schemas/sitemap-image/1.1"
	urlSetOpen   = xmlHeader + `<urlset xmlns="` + sitemapNS + `" xmlns:image="` + imageNS + `">` + "\n"
	urlSetClose  = "</urlset>\n"
	indexOpen    = xmlHeader + `<sitemapindex xmlns="` + sitemapNS + `">` + "\n"
	indexClose   = "</sitemapindex>\n"
	imagePrefix  = "<image:image><image:loc>"
	imageSuffix  = "</image:loc></image:image>"
	entryOpenLoc = "<url><loc>"
)

// XMLBuilder writes sitemaps.org 0.9 documents.
type XMLBuilder struct{}

// BaseSiteMapLength returns the length of an empty URL set.
func (XMLBuilder) BaseSiteMapLength() int {
	return len(urlSetOpen) + len(urlSetClose)
}

// Size returns the serialized length of e.
func (XMLBuilder) Size(e Entry) int {
	return len(entryXML(e))
}

// BuildURLSet serializes one batch.
func (XMLBuilder) BuildURLSet(entries []Entry) string {
	var b strings.Builder
	b.WriteString(urlSetOpen)
	for _, e := range entries {
		b.WriteString(entryXML(e))
	}
	b.WriteString(urlSetClose)
	return b.String()
}

// BuildSiteMapIndex serializes an index linking parts 1..parts of root.
func (XMLBuilder) BuildSiteMapIndex(root string, ub URLBuilder, parts int) string {
	var b strings.Builder
	b.WriteString(indexOpen)
	for i := 1; i <= parts; i++ {
		b.WriteString("<sitemap><loc>")
		b.WriteString(escape(ub.BuildSiteMapURL(root, i)))
		b.WriteString("</loc></sitemap>\n")
	}
	b.WriteString(indexClose)
	return b.String()
}

func entryXML(e Entry) string {
	var b strings.Builder
	b.WriteString(entryOpenLoc)
	b.WriteString(escape(e.url))
	b.WriteString("</loc>")
	for _, p := range schemaOrder(e.props) {
		if p.Value == "" {
			continue
		}
		if p.Name == PropImage {
			b.WriteString(imagePrefix)
			b.WriteString(escape(p.Value))
			b.WriteString(imageSuffix)
			continue
		}
		b.WriteString("<" + p.Name + ">")
		b.WriteString(escape(p.Value))
		b.WriteString("</" + p.Name + ">")
	}
	b.WriteString("</url>\n")
	return b.String()
}

// elementRank orders url children as the sitemaps.org schema sequence
// requires. Unknown names follow priority; images come last.
var elementRank = map[string]int{
	PropLastmod:    0,
	PropChangeFreq: 1,
	PropPriority:   2,
	PropImage:      4,
}

func schemaOrder(props []Property) []Property {
	rank := func(p Property) int {
		if r, ok := elementRank[p.Name]; ok {
			return r
		}
		return 3
	}
	if slices.IsSortedFunc(props, func(a, b Property) int { return rank(a) - rank(b) }) {
		return props
	}
	sorted := slices.Clone(props)
	slices.SortStableFunc(sorted, func(a, b Property) int { return rank(a) - rank(b) })
	return sorted
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
