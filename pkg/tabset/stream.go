package tabset

import "sync"

// stream is an ordered listener list. Values published while listeners are
// running are queued and delivered after the current value has reached every
// listener, so no listener ever observes emissions out of order.
type stream[T any] struct {
	mu        sync.Mutex
	listeners []listener[T]
	nextID    int
	queue     []T
	draining  bool
}

type listener[T any] struct {
	id int
	fn func(T)
}

// subscribe registers fn and returns a function that removes it.
func (s *stream[T]) subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *stream[T]) publish(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		listeners := append([]listener[T](nil), s.listeners...)
		s.mu.Unlock()
		for _, l := range listeners {
			l.fn(next)
		}
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}
