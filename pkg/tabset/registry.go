package tabset

import (
	"fmt"
	"sync"
)

// Registry is the ordered collection of tabs. It is the only place tabs are
// mutated; every other component reads snapshots.
type Registry struct {
	mu        sync.Mutex
	tabs      Snapshot
	used      map[string]bool
	nextID    int
	nextOrder int
	depth     int
	dirty     bool
	changes   stream[Snapshot]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{used: make(map[string]bool)}
}

// Register appends t and returns its id. An empty id gets a fresh synthetic
// one. Registering an id that is already present replaces that record.
func (r *Registry) Register(t Tab) string {
	return r.RegisterAt(t, -1)
}

// RegisterAt inserts t at pos. A negative or out of range pos appends.
func (r *Registry) RegisterAt(t Tab, pos int) string {
	r.mu.Lock()
	if t.ID == "" {
		t.ID = r.newIDLocked()
	}
	if i := r.tabs.Index(t.ID); i >= 0 {
		t.Order = r.tabs[i].Order
		r.tabs[i] = t
	} else {
		r.used[t.ID] = true
		t.Order = r.nextOrder
		r.nextOrder++
		if pos < 0 || pos >= len(r.tabs) {
			r.tabs = append(r.tabs, t)
		} else {
			r.tabs = append(r.tabs[:pos], append(Snapshot{t}, r.tabs[pos:]...)...)
		}
	}
	id := t.ID
	r.commitLocked()
	return id
}

// Unregister removes id. Removing an unknown id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	i := r.tabs.Index(id)
	if i < 0 {
		r.mu.Unlock()
		return
	}
	r.tabs = append(r.tabs[:i:i], r.tabs[i+1:]...)
	r.commitLocked()
}

// Update applies fn to the tab with the given id. The id and order cannot be
// changed through fn. It returns false when id is unknown.
func (r *Registry) Update(id string, fn func(*Tab)) bool {
	r.mu.Lock()
	i := r.tabs.Index(id)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	before := r.tabs[i]
	after := before
	if before.Count != nil {
		after.Count = IntPtr(*before.Count)
	}
	fn(&after)
	after.ID, after.Order = before.ID, before.Order
	if tabsEqual(before, after) {
		r.mu.Unlock()
		return true
	}
	r.tabs[i] = after
	r.commitLocked()
	return true
}

// Move places id at pos, shifting the others.
func (r *Registry) Move(id string, pos int) bool {
	r.mu.Lock()
	i := r.tabs.Index(id)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	if pos < 0 || pos >= len(r.tabs) {
		pos = len(r.tabs) - 1
	}
	if pos == i {
		r.mu.Unlock()
		return true
	}
	t := r.tabs[i]
	rest := append(r.tabs[:i:i], r.tabs[i+1:]...)
	r.tabs = append(rest[:pos:pos], append(Snapshot{t}, rest[pos:]...)...)
	r.commitLocked()
	return true
}

// Reconcile makes the registry hold exactly desired, in that order, and
// publishes at most one snapshot. Tabs without an id are always added.
func (r *Registry) Reconcile(desired []Tab) {
	r.mu.Lock()
	current := make(map[string]Tab, len(r.tabs))
	for _, t := range r.tabs {
		current[t.ID] = t
	}
	next := make(Snapshot, 0, len(desired))
	seen := make(map[string]bool, len(desired))
	for _, t := range desired {
		if t.ID == "" {
			t.ID = r.newIDLocked()
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		if old, ok := current[t.ID]; ok {
			t.Order = old.Order
		} else {
			r.used[t.ID] = true
			t.Order = r.nextOrder
			r.nextOrder++
		}
		next = append(next, t)
	}
	if snapshotsEqual(r.tabs, next) {
		r.mu.Unlock()
		return
	}
	r.tabs = next
	r.commitLocked()
}

// Batch runs fn and publishes a single snapshot for all mutations it made.
func (r *Registry) Batch(fn func()) {
	r.mu.Lock()
	r.depth++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.depth--
		if r.depth == 0 && r.dirty {
			r.publishLocked()
			return
		}
		r.mu.Unlock()
	}()
	fn()
}

// Current returns the latest snapshot.
func (r *Registry) Current() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tabs.clone()
}

// Subscribe calls fn with the full snapshot after every mutation.
func (r *Registry) Subscribe(fn func(Snapshot)) func() {
	return r.changes.subscribe(fn)
}

func (r *Registry) newIDLocked() string {
	for {
		r.nextID++
		id := fmt.Sprintf("tab-%d", r.nextID)
		if !r.used[id] {
			return id
		}
	}
}

// commitLocked marks the registry dirty and, outside a batch, publishes.
// It always releases r.mu.
func (r *Registry) commitLocked() {
	r.dirty = true
	if r.depth > 0 {
		r.mu.Unlock()
		return
	}
	r.publishLocked()
}

func (r *Registry) publishLocked() {
	r.dirty = false
	snap := r.tabs.clone()
	r.mu.Unlock()
	r.changes.publish(snap)
}

func tabsEqual(a, b Tab) bool {
	if (a.Count == nil) != (b.Count == nil) {
		return false
	}
	if a.Count != nil && *a.Count != *b.Count {
		return false
	}
	a.Count, b.Count = nil, nil
	return a == b
}

func snapshotsEqual(a, b Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !tabsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
