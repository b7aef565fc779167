package state

// Frontier is a FIFO queue of URLs awaiting a visit.
// A URL pushed once is never accepted again, even after it was popped.
type Frontier struct {
	queue []string
	head  int
	seen  map[string]struct{}
}

// NewFrontier creates a frontier holding items in order. Duplicates in
// items are dropped.
func NewFrontier(items ...string) *Frontier {
	f := &Frontier{seen: make(map[string]struct{}, len(items))}
	for _, item := range items {
		f.Push(item)
	}
	return f
}

// Push appends u to the tail. It reports false if u was enqueued before.
func (f *Frontier) Push(u string) bool {
	if _, ok := f.seen[u]; ok {
		return false
	}
	f.seen[u] = struct{}{}
	f.queue = append(f.queue, u)
	return true
}

// Pop removes and returns the earliest enqueued URL.
func (f *Frontier) Pop() (string, bool) {
	if f.head >= len(f.queue) {
		return "", false
	}
	u := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++

	// Compact once the consumed prefix dominates the backing array.
	if f.head > 1024 && f.head*2 >= len(f.queue) {
		f.queue = append([]string(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return u, true
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}

// Items returns a copy of the queued URLs in FIFO order.
func (f *Frontier) Items() []string {
	return append(make([]string, 0, f.Len()), f.queue[f.head:]...)
}
