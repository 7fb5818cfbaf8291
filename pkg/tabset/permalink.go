package tabset

import (
	"log"
	"sync"
)

// QueryStore is the external query parameter store (a router or URL).
// Set is expected to notify subscribers of key when the value changes.
type QueryStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Subscribe(key string, fn func(value string, ok bool)) func()
}

// QueryKey is the parameter name a tab group with the given permalink id
// is bound to.
func QueryKey(groupID string) string {
	if groupID == "" {
		return ""
	}
	return groupID + "-active-tab"
}

// Permalink keeps the active tab and one query parameter in step. It is
// inert when created without a group id.
type Permalink struct {
	mu        sync.Mutex
	key       string
	store     QueryStore
	source    SnapshotSource
	selection *Selection
	logger    *log.Logger
	last      string
	// pending holds a store value read before any tab existed. It is
	// retried on every snapshot until a tab matches or a Select replaces it.
	pending string
	cancels []func()
}

// NewPermalink binds selection to store under QueryKey(groupID). If the store
// already holds a value it is applied first; otherwise the current selection
// is written once so a shareable value exists immediately.
func NewPermalink(groupID string, store QueryStore, source SnapshotSource, selection *Selection, logger *log.Logger) *Permalink {
	p := &Permalink{
		key:       QueryKey(groupID),
		store:     store,
		source:    source,
		selection: selection,
		logger:    logger,
	}
	if p.key == "" || store == nil {
		return p
	}

	if value, ok := store.Get(p.key); ok {
		if len(source.Current()) == 0 {
			p.pending = value
		} else {
			p.applyInbound(value, true)
		}
	} else {
		p.writeOutbound(selection.ActiveID())
	}

	p.cancels = append(p.cancels,
		selection.Subscribe(p.writeOutbound),
		source.Subscribe(func(Snapshot) { p.writeOutbound(selection.ActiveID()) }),
		selection.OnSelect(p.dropPending),
		store.Subscribe(p.key, func(value string, ok bool) { p.applyInbound(value, ok) }),
	)
	return p
}

// Key returns the bound query parameter name, or "" when inert.
func (p *Permalink) Key() string {
	return p.key
}

// Close detaches the bridge.
func (p *Permalink) Close() {
	for _, c := range p.cancels {
		c()
	}
}

// writeOutbound writes the slug of id unless it equals the last value this
// bridge wrote or applied.
func (p *Permalink) writeOutbound(id string) {
	if id == "" {
		return
	}
	t, ok := p.source.Current().Find(id)
	if !ok {
		return
	}
	if p.waitingForPending() {
		return
	}

	value := t.Slug()
	p.mu.Lock()
	if value == p.last {
		p.mu.Unlock()
		return
	}
	p.last = value
	p.mu.Unlock()

	p.logf("write %s=%q", p.key, value)
	p.store.Set(p.key, value)
}

// waitingForPending tries the pending store value against the current
// snapshot. It reports true while the value is unresolved or was just
// applied; either way nothing should be written.
func (p *Permalink) waitingForPending() bool {
	p.mu.Lock()
	pending := p.pending
	p.pending = ""
	p.mu.Unlock()
	if pending == "" {
		return false
	}
	if !p.applyInbound(pending, true) {
		p.mu.Lock()
		p.pending = pending
		p.mu.Unlock()
	}
	return true
}

// dropPending discards an unresolved store value once something is selected
// explicitly, and writes that selection.
func (p *Permalink) dropPending(id string) {
	p.mu.Lock()
	pending := p.pending
	p.pending = ""
	p.mu.Unlock()
	if pending == "" {
		return
	}
	p.logf("pending %s=%q replaced by select %q", p.key, pending, id)
	p.writeOutbound(id)
}

// applyInbound selects the tab whose slug matches value. Unknown values leave
// the selection alone.
func (p *Permalink) applyInbound(value string, ok bool) bool {
	if !ok || value == "" {
		return false
	}
	p.mu.Lock()
	if value == p.last {
		p.mu.Unlock()
		return false
	}
	p.mu.Unlock()

	for _, t := range p.source.Current() {
		if !t.Selectable() || t.Slug() != value {
			continue
		}
		// Record the value before selecting so the resulting outbound
		// write is suppressed.
		p.mu.Lock()
		p.last = value
		p.mu.Unlock()
		p.selection.Select(t.ID)
		return true
	}
	p.logf("no tab matches %s=%q", p.key, value)
	return false
}

func (p *Permalink) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf("permalink: "+format, args...)
	}
}
