package matrix

import "strings"

// Features is an immutable set of feature flags. Construction collapses
// duplicates; iteration order is first-seen declaration order so composed
// toolchain invocations are reproducible.
type Features struct {
	items []string
}

// NewFeatures builds a feature set from the given names, dropping duplicates
// and empty strings.
func NewFeatures(names ...string) Features {
	seen := make(map[string]bool, len(names))
	items := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		items = append(items, n)
	}
	return Features{items: items}
}

// Union returns a new set containing every feature of f followed by the
// features of other that f does not already contain.
func (f Features) Union(other Features) Features {
	return NewFeatures(append(append([]string{}, f.items...), other.items...)...)
}

// Contains reports whether the set holds the named feature.
func (f Features) Contains(name string) bool {
	for _, n := range f.items {
		if n == name {
			return true
		}
	}
	return false
}

// List returns a copy of the features in declaration order.
func (f Features) List() []string {
	return append([]string{}, f.items...)
}

// Len returns the number of features in the set.
func (f Features) Len() int {
	return len(f.items)
}

// String renders the set in the comma-joined form the toolchain accepts.
func (f Features) String() string {
	return strings.Join(f.items, ",")
}
