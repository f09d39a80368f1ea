// Package content defines the content-tree contract the sitemap extractor walks.
//
// A Node has a path, ordered children and a content map with the page
// metadata (front matter, meta tags, ...). Page is the transient view the
// extractor hands to recognizers and property providers.
//
// MemNode is an in-memory tree; the mdtree and htmltree subpackages back the
// contract with a directory on disk.
package content
