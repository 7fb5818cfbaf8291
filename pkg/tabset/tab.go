// Package tabset manages an ordered set of tabs: which one is active, whether
// the strip fits inline or collapses into a dropdown, and how the active tab
// is mirrored into a shareable query parameter.
//
// All components are event driven and expect their events to be delivered
// one at a time. Hosts that receive events on several goroutines must funnel
// them through a single loop first.
package tabset

// Tab is one registered tab and its header metadata.
type Tab struct {
	ID    string
	Label string
	// Count is the header badge. Nil hides the badge; zero is shown.
	Count          *int
	Disabled       bool
	Unavailable    bool
	PermalinkValue string
	Closeable      bool
	// Order is the registration sequence number. It never changes.
	Order int
}

// Selectable reports whether the tab can become active.
func (t Tab) Selectable() bool {
	return !t.Disabled && !t.Unavailable
}

// Permalink returns the raw permalink value, falling back to the ID.
func (t Tab) Permalink() string {
	if t.PermalinkValue != "" {
		return t.PermalinkValue
	}
	return t.ID
}

// Slug is the query parameter value that identifies this tab.
func (t Tab) Slug() string {
	return Slugify(t.Permalink())
}

// IntPtr is a convenience for building Count values.
func IntPtr(n int) *int {
	return &n
}

// Snapshot is the full ordered tab list at one point in time.
type Snapshot []Tab

// Index returns the position of id, or -1.
func (s Snapshot) Index(id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the tab with the given id.
func (s Snapshot) Find(id string) (Tab, bool) {
	if i := s.Index(id); i >= 0 {
		return s[i], true
	}
	return Tab{}, false
}

// IDs returns the ids in order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s))
	for i := range s {
		ids[i] = s[i].ID
	}
	return ids
}

// FirstSelectable returns the id of the first selectable tab, or "".
func (s Snapshot) FirstSelectable() string {
	for _, t := range s {
		if t.Selectable() {
			return t.ID
		}
	}
	return ""
}

// Available reports whether id is present and not marked unavailable.
func (s Snapshot) Available(id string) bool {
	t, ok := s.Find(id)
	return ok && !t.Unavailable
}

func (s Snapshot) clone() Snapshot {
	out := make(Snapshot, len(s))
	for i, t := range s {
		if t.Count != nil {
			t.Count = IntPtr(*t.Count)
		}
		out[i] = t
	}
	return out
}
