// Package query holds stores for the active-tab query parameter.
//
// Memory keeps parameters in process and renders them as a URL path;
// File persists them as yaml so several processes can share one value.
package query

import (
	"net/url"
	"sort"
	"sync"
)

type subscriber struct {
	id int
	fn func(value string, ok bool)
}

// Memory is an in-process query string. It notifies subscribers of a key
// only when that key's value actually changes.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	subs   map[string][]subscriber
	nextID int
}

func NewMemory() *Memory {
	return &Memory{
		values: map[string]string{},
		subs:   map[string][]subscriber{},
	}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	if old, ok := m.values[key]; ok && old == value {
		m.mu.Unlock()
		return
	}
	m.values[key] = value
	subs := append([]subscriber(nil), m.subs[key]...)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(value, true)
	}
}

func (m *Memory) Subscribe(key string, fn func(value string, ok bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[key] = append(m.subs[key], subscriber{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		list := m.subs[key]
		for i, s := range list {
			if s.id == id {
				m.subs[key] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Values returns a copy of every parameter.
func (m *Memory) Values() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Path renders the parameters as a location path, e.g.
// "/?docs-active-tab=design-guidelines". Values are percent-encoded.
func (m *Memory) Path() string {
	m.mu.Lock()
	q := url.Values{}
	for k, v := range m.values {
		q.Set(k, v)
	}
	m.mu.Unlock()
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// Navigate replaces every parameter with those in rawQuery, as if the user
// had edited the URL. A leading "/?" or "?" is accepted.
func (m *Memory) Navigate(rawQuery string) error {
	if u, err := url.Parse(rawQuery); err == nil && u.RawQuery != "" {
		rawQuery = u.RawQuery
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return err
	}
	next := make(map[string]string, len(q))
	for k := range q {
		next[k] = q.Get(k)
	}
	m.Replace(next)
	return nil
}

// Replace swaps in a new parameter set and notifies the keys that changed,
// in key order.
func (m *Memory) Replace(next map[string]string) {
	m.mu.Lock()
	keys := make(map[string]struct{}, len(next)+len(m.values))
	for k := range next {
		keys[k] = struct{}{}
	}
	for k := range m.values {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	type change struct {
		subs  []subscriber
		value string
		ok    bool
	}
	var changes []change
	for _, k := range sorted {
		old, had := m.values[k]
		v, has := next[k]
		if had == has && old == v {
			continue
		}
		if has {
			m.values[k] = v
		} else {
			delete(m.values, k)
		}
		changes = append(changes, change{append([]subscriber(nil), m.subs[k]...), v, has})
	}
	m.mu.Unlock()

	for _, c := range changes {
		for _, s := range c.subs {
			s.fn(c.value, c.ok)
		}
	}
}
