// Package sitemap turns a content tree into sitemap entries and serializes
// them as sitemaps.org URL-set and index documents.
//
// An Extractor walks a tree depth-first, pre-order. A PageRecognizer decides
// which nodes are pages; an unrecognized node prunes its whole subtree.
// Every emitted Entry carries one property per registered PropertyProvider,
// in registration order. Split partitions entries into count- and
// size-bounded batches using the sizes reported by a Builder.
package sitemap
