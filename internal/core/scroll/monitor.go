// Package scroll tracks the topmost visible line reported for each document
// and fans updates out to per-document subscribers.
package scroll

import "sync"

type subscriber struct {
	id int
	fn func(line int)
}

// Monitor records the last reported topmost line per document.
type Monitor struct {
	mu     sync.RWMutex
	nextID int
	lines  map[string]int
	subs   map[string][]subscriber
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		lines: make(map[string]int),
		subs:  make(map[string][]subscriber),
	}
}

// Report records line as the topmost visible line of resource and notifies
// subscribers of that resource. Repeated reports of the same line are ignored.
func (m *Monitor) Report(resource string, line int) {
	if line < 0 {
		line = 0
	}

	m.mu.Lock()
	if prev, ok := m.lines[resource]; ok && prev == line {
		m.mu.Unlock()
		return
	}
	m.lines[resource] = line
	subs := make([]subscriber, len(m.subs[resource]))
	copy(subs, m.subs[resource])
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(line)
	}
}

// Line returns the last reported line for resource.
func (m *Monitor) Line(resource string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	line, ok := m.lines[resource]
	return line, ok
}

// Subscribe registers fn for line changes of resource. The returned function
// removes the subscription and is safe to call more than once.
func (m *Monitor) Subscribe(resource string, fn func(line int)) func() {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.subs[resource] = append(m.subs[resource], subscriber{id: id, fn: fn})
	m.mu.Unlock()

	return func() { m.unsubscribe(resource, id) }
}

// Forget drops the recorded line for resource, e.g. when its editor closes.
func (m *Monitor) Forget(resource string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, resource)
}

func (m *Monitor) unsubscribe(resource string, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.subs[resource]
	for i, s := range subs {
		if s.id == id {
			m.subs[resource] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(m.subs[resource]) == 0 {
		delete(m.subs, resource)
	}
}
