package state

import "slices"

// VisitedSet records URLs that have been considered at least once.
// Entries are never removed.
type VisitedSet struct {
	urls map[string]struct{}
}

// NewVisitedSet creates a set holding items.
func NewVisitedSet(items ...string) *VisitedSet {
	v := &VisitedSet{urls: make(map[string]struct{}, len(items))}
	for _, item := range items {
		v.urls[item] = struct{}{}
	}
	return v
}

// Add inserts u and reports whether it was new.
func (v *VisitedSet) Add(u string) bool {
	if _, ok := v.urls[u]; ok {
		return false
	}
	v.urls[u] = struct{}{}
	return true
}

// Contains reports whether u is in the set.
func (v *VisitedSet) Contains(u string) bool {
	_, ok := v.urls[u]
	return ok
}

// Len returns the number of URLs in the set.
func (v *VisitedSet) Len() int {
	return len(v.urls)
}

// Items returns the URLs sorted, so saved snapshots are stable.
func (v *VisitedSet) Items() []string {
	items := make([]string, 0, len(v.urls))
	for u := range v.urls {
		items = append(items, u)
	}
	slices.Sort(items)
	return items
}
