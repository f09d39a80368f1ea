package sitemap

// Property is one named value of an entry.
type Property struct {
	Name  string
	Value string
}

// Entry is one URL of a sitemap with its ordered properties. Entries are
// immutable once built.
type Entry struct {
	url   string
	props []Property
}

// NewEntry creates an entry. The property slice is copied.
func NewEntry(url string, props ...Property) Entry {
	cp := make([]Property, len(props))
	copy(cp, props)
	return Entry{url: url, props: cp}
}

// URL returns the entry's external URL.
func (e Entry) URL() string { return e.url }

// Properties returns a copy of the entry's properties in insertion order.
func (e Entry) Properties() []Property {
	cp := make([]Property, len(e.props))
	copy(cp, e.props)
	return cp
}

// Property returns the value stored under name.
func (e Entry) Property(name string) (string, bool) {
	for _, p := range e.props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
