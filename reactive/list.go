package reactive

import (
	"sync"

	"github.com/sdegenaar/zenify-sub002/scope"
)

type watchEntry struct {
	id uint64
	fn func()
}

// List a reactive slice. Subscribers are notified on structural mutation
// (add/insert/replace/remove/clear), not on deep mutation of elements.
type List[T any] struct {
	mu       sync.Mutex
	items    []T
	watchers []watchEntry
	nextID   uint64
}

// NewList creates a list holding items
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

// Add appends items and notifies
func (l *List[T]) Add(items ...T) {
	if len(items) == 0 {
		return
	}
	l.mu.Lock()
	l.items = append(l.items, items...)
	watchers := l.snapshotWatchers()
	l.mu.Unlock()
	notifyAll(watchers)
}

// InsertAt inserts v at index i, reporting whether i was in range
func (l *List[T]) InsertAt(i int, v T) bool {
	l.mu.Lock()
	if i < 0 || i > len(l.items) {
		l.mu.Unlock()
		return false
	}
	l.items = append(l.items, v)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = v
	watchers := l.snapshotWatchers()
	l.mu.Unlock()
	notifyAll(watchers)
	return true
}

// Set replaces the element at index i, reporting whether i was in range
func (l *List[T]) Set(i int, v T) bool {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return false
	}
	l.items[i] = v
	watchers := l.snapshotWatchers()
	l.mu.Unlock()
	notifyAll(watchers)
	return true
}

// RemoveAt removes and returns the element at index i
func (l *List[T]) RemoveAt(i int) (T, bool) {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		var zero T
		return zero, false
	}
	v := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	watchers := l.snapshotWatchers()
	l.mu.Unlock()
	notifyAll(watchers)
	return v, true
}

// Clear removes every element and notifies
func (l *List[T]) Clear() {
	l.mu.Lock()
	l.items = nil
	watchers := l.snapshotWatchers()
	l.mu.Unlock()
	notifyAll(watchers)
}

// Get returns the element at index i
func (l *List[T]) Get(i int) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Len returns the number of elements
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Values returns a copy of the elements
func (l *List[T]) Values() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return items
}

// Subscribe registers a structural-change listener and returns its cancel
// function
func (l *List[T]) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.watchers = append(l.watchers, watchEntry{id: id, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, w := range l.watchers {
			if w.id == id {
				l.watchers = append(l.watchers[:i], l.watchers[i+1:]...)
				return
			}
		}
	}
}

// BindTo drops all subscriptions when s disposes
func (l *List[T]) BindTo(s *scope.Scope) *List[T] {
	s.RegisterDisposer(func() {
		l.mu.Lock()
		l.watchers = nil
		l.mu.Unlock()
	})
	return l
}

func (l *List[T]) snapshotWatchers() []watchEntry {
	watchers := make([]watchEntry, len(l.watchers))
	copy(watchers, l.watchers)
	return watchers
}

func notifyAll(watchers []watchEntry) {
	for _, w := range watchers {
		w.fn()
	}
}
