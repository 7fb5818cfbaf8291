package tabset

import (
	"log"
	"sync"
)

// SnapshotSource is the read side of a Registry.
type SnapshotSource interface {
	Current() Snapshot
	Subscribe(fn func(Snapshot)) func()
}

// Selection owns which tab is active. It is either empty or names a tab that
// is present and available in the latest snapshot.
type Selection struct {
	mu      sync.Mutex
	source  SnapshotSource
	active  string
	prev    Snapshot
	hint    string
	pending bool
	logger  *log.Logger
	changes stream[string]
	// requests carries successful Select calls, including no-op ones.
	requests stream[string]
	cancel   func()
}

// NewSelection subscribes to source and resolves an initial selection from
// its current snapshot. hint, when non-empty, is the host's requested active
// tab and takes precedence over the first-available default.
func NewSelection(source SnapshotSource, hint string, logger *log.Logger) *Selection {
	s := &Selection{
		source:  source,
		hint:    hint,
		pending: hint != "",
		logger:  logger,
	}
	s.HandleSnapshotChange(source.Current())
	s.cancel = source.Subscribe(s.HandleSnapshotChange)
	return s
}

// Close detaches the selection from its source.
func (s *Selection) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// ActiveID returns the active tab id, or "" when nothing is active.
func (s *Selection) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Subscribe calls fn with the new active id on every transition.
func (s *Selection) Subscribe(fn func(string)) func() {
	return s.changes.subscribe(fn)
}

// OnSelect calls fn after every successful Select, whether or not the
// active tab changed. Selections made by the snapshot repair rules do not
// fire it.
func (s *Selection) OnSelect(fn func(string)) func() {
	return s.requests.subscribe(fn)
}

// Select makes id active. Requests for unknown, disabled or unavailable tabs
// are ignored. A successful request supersedes any pending hint, even when id
// was already active.
func (s *Selection) Select(id string) bool {
	snap := s.source.Current()
	t, ok := snap.Find(id)
	if !ok || !t.Selectable() {
		s.logf("select %q ignored (known=%t)", id, ok)
		return false
	}
	s.mu.Lock()
	s.pending = false
	s.hint = ""
	changed := s.setLocked(id)
	s.mu.Unlock()
	if changed {
		s.changes.publish(id)
	}
	s.requests.publish(id)
	return true
}

// SetActiveHint requests id as the active tab on behalf of the host. It is
// applied now if possible and otherwise retried on every snapshot until it
// resolves or a user Select supersedes it.
func (s *Selection) SetActiveHint(id string) {
	snap := s.source.Current()
	s.mu.Lock()
	if t, ok := snap.Find(id); ok && t.Selectable() {
		s.pending = false
		s.hint = ""
		changed := s.setLocked(id)
		s.mu.Unlock()
		if changed {
			s.changes.publish(id)
		}
		return
	}
	s.hint = id
	s.pending = id != ""
	s.mu.Unlock()
	s.logf("active hint %q deferred", id)
}

// HandleSnapshotChange repairs the selection against a new snapshot.
func (s *Selection) HandleSnapshotChange(snap Snapshot) {
	s.mu.Lock()
	prev := s.prev
	s.prev = snap
	next := s.resolveLocked(prev, snap)
	changed := s.setLocked(next)
	s.mu.Unlock()
	if changed {
		s.changes.publish(next)
	}
}

func (s *Selection) resolveLocked(prev, snap Snapshot) string {
	if s.pending {
		if t, ok := snap.Find(s.hint); ok && t.Selectable() {
			s.pending = false
			s.hint = ""
			return t.ID
		}
	}
	if s.active == "" {
		return snap.FirstSelectable()
	}
	if snap.Available(s.active) {
		return s.active
	}
	return replacement(s.active, prev, snap)
}

// replacement picks the tab that slid into the removed tab's place, falling
// back to the nearest earlier tab.
func replacement(removed string, prev, snap Snapshot) string {
	pos := prev.Index(removed)
	if pos < 0 {
		return snap.FirstSelectable()
	}
	ok := func(id string) bool {
		t, found := snap.Find(id)
		return found && t.Selectable()
	}
	for i := pos + 1; i < len(prev); i++ {
		if ok(prev[i].ID) {
			return prev[i].ID
		}
	}
	for i := pos - 1; i >= 0; i-- {
		if ok(prev[i].ID) {
			return prev[i].ID
		}
	}
	return snap.FirstSelectable()
}

func (s *Selection) setLocked(id string) bool {
	if s.active == id {
		return false
	}
	s.active = id
	return true
}

func (s *Selection) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf("selection: "+format, args...)
	}
}
