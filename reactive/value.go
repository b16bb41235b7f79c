// Package reactive provides single-value reactive cells and reactive
// collections. A cell keeps its own subscriber list and notifies only when a
// write actually changes the value; collections notify on structural
// mutation, not on deep mutation of contained elements.
package reactive

import (
	"reflect"
	"sync"

	"github.com/sdegenaar/zenify-sub002/scope"
)

type subEntry[T any] struct {
	id uint64
	fn func(T)
}

// Value a reactive cell wrapping a single value
type Value[T any] struct {
	mu     sync.Mutex
	val    T
	subs   []subEntry[T]
	nextID uint64
	equal  func(a, b T) bool
}

// ValueOption configures a Value at construction
type ValueOption[T any] func(*Value[T])

// WithEqual overrides the equality check gating notifications
// (default reflect.DeepEqual)
func WithEqual[T any](eq func(a, b T) bool) ValueOption[T] {
	return func(v *Value[T]) {
		if eq != nil {
			v.equal = eq
		}
	}
}

// NewValue creates a cell holding initial
func NewValue[T any](initial T, opts ...ValueOption[T]) *Value[T] {
	v := &Value[T]{
		val:   initial,
		equal: func(a, b T) bool { return reflect.DeepEqual(a, b) },
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val
}

// Set stores next and notifies subscribers. When next equals the current
// value no notification fires. Reports whether a change happened.
func (v *Value[T]) Set(next T) bool {
	v.mu.Lock()
	if v.equal(v.val, next) {
		v.mu.Unlock()
		return false
	}
	v.val = next
	// Copy before notify so subscribers run outside the lock
	subs := make([]subEntry[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
	return true
}

// Update applies fn to the current value and stores the result through Set
func (v *Value[T]) Update(fn func(T) T) bool {
	v.mu.Lock()
	next := fn(v.val)
	v.mu.Unlock()
	return v.Set(next)
}

// Subscribe registers a change listener and returns its cancel function
func (v *Value[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subEntry[T]{id: id, fn: fn})
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

// SubscriberCount returns the number of live subscriptions
func (v *Value[T]) SubscriberCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// BindTo drops all subscriptions when s disposes, tying subscription
// lifetime to the scope
func (v *Value[T]) BindTo(s *scope.Scope) *Value[T] {
	s.RegisterDisposer(v.clearSubs)
	return v
}

func (v *Value[T]) clearSubs() {
	v.mu.Lock()
	v.subs = nil
	v.mu.Unlock()
}
