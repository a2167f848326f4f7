package preview

// Signal is a synchronous publish/subscribe list. Emit delivers to a snapshot
// of subscribers, so handlers may subscribe or unsubscribe while it runs.
// It is not safe for concurrent use.
type Signal[T any] struct {
	nextID int
	subs   []signalSub[T]
}

type signalSub[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, signalSub[T]{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every subscriber registered at the time of the call.
func (s *Signal[T]) Emit(v T) {
	subs := make([]signalSub[T], len(s.subs))
	copy(subs, s.subs)
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Clear removes all subscribers.
func (s *Signal[T]) Clear() {
	s.subs = nil
}

// Len returns the number of subscribers.
func (s *Signal[T]) Len() int {
	return len(s.subs)
}
