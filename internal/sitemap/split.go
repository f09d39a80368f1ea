package sitemap

// Split partitions entries into consecutive batches holding at most
// maxEntries entries and at most maxSize serialized bytes each. Bounds <= 0
// are unbounded.
//
// The entry that overflows a batch opens the next one, so every entry lands
// in exactly one batch. An entry larger than maxSize on its own gets a batch
// of its own. No entries yield a single empty batch.
func Split(entries []Entry, maxEntries, maxSize int, b Builder) [][]Entry {
	base := b.BaseSiteMapLength()

	var batches [][]Entry
	var current []Entry
	size := base
	for _, e := range entries {
		s := b.Size(e)
		fits := (maxEntries <= 0 || len(current)+1 <= maxEntries) &&
			(maxSize <= 0 || size+s <= maxSize)
		if !fits && len(current) > 0 {
			batches = append(batches, current)
			current = nil
			size = base
		}
		current = append(current, e)
		size += s
	}
	if len(current) > 0 || len(batches) == 0 {
		batches = append(batches, current)
	}
	return batches
}
