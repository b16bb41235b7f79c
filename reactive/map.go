package reactive

import (
	"sync"

	"github.com/sdegenaar/zenify-sub002/scope"
)

// Map a reactive map. Subscribers are notified on structural mutation
// (set/delete/clear), not on deep mutation of stored values.
type Map[K comparable, V any] struct {
	mu       sync.Mutex
	items    map[K]V
	watchers []watchEntry
	nextID   uint64
}

// NewMap creates an empty reactive map
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: make(map[K]V)}
}

// Set stores v under k and notifies
func (m *Map[K, V]) Set(k K, v V) {
	m.mu.Lock()
	m.items[k] = v
	watchers := m.snapshotWatchers()
	m.mu.Unlock()
	notifyAll(watchers)
}

// Delete removes k, reporting whether it existed. Removing an absent key
// does not notify.
func (m *Map[K, V]) Delete(k K) bool {
	m.mu.Lock()
	if _, ok := m.items[k]; !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.items, k)
	watchers := m.snapshotWatchers()
	m.mu.Unlock()
	notifyAll(watchers)
	return true
}

// Clear removes every entry and notifies
func (m *Map[K, V]) Clear() {
	m.mu.Lock()
	m.items = make(map[K]V)
	watchers := m.snapshotWatchers()
	m.mu.Unlock()
	notifyAll(watchers)
}

// Get returns the value stored under k
func (m *Map[K, V]) Get(k K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[k]
	return v, ok
}

// Len returns the number of entries
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Keys returns a copy of the keys
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]K, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot returns a shallow copy of the entries
func (m *Map[K, V]) Snapshot() map[K]V {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[K]V, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// Subscribe registers a structural-change listener and returns its cancel
// function
func (m *Map[K, V]) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.watchers = append(m.watchers, watchEntry{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w.id == id {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				return
			}
		}
	}
}

// BindTo drops all subscriptions when s disposes
func (m *Map[K, V]) BindTo(s *scope.Scope) *Map[K, V] {
	s.RegisterDisposer(func() {
		m.mu.Lock()
		m.watchers = nil
		m.mu.Unlock()
	})
	return m
}

func (m *Map[K, V]) snapshotWatchers() []watchEntry {
	watchers := make([]watchEntry, len(m.watchers))
	copy(watchers, m.watchers)
	return watchers
}
