// Package bus implements the typed/tagged publish-subscribe registry of the
// runtime. It is independent of any renderer: subscribers are notified that
// the value behind a (type, tag) key changed and look the value up themselves.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/sdegenaar/zenify-sub002/core"
	"github.com/sdegenaar/zenify-sub002/logger"
)

// Listener receives change notifications for one (type, tag) key
type Listener func(key core.TypeKey)

// Subscription identifies one registered listener
// The zero value is inert: Unsubscribe on it is a no-op
type Subscription struct {
	key core.TypeKey
	id  uint64
}

// Key returns the key this subscription listens on
func (s Subscription) Key() core.TypeKey {
	return s.key
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// Bus typed/tagged notification registry
type Bus struct {
	mu        sync.RWMutex
	listeners map[core.TypeKey][]listenerEntry
	nextID    uint64
	pool      *ants.Pool
	poolSize  int
	log       *logger.CtxZapLogger
	closed    int32
}

// Option configures a Bus
type Option func(*Bus)

// WithPoolSize sets the capacity of the goroutine pool backing NotifyAsync
func WithPoolSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.poolSize = n
		}
	}
}

// New creates a bus
func New(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[core.TypeKey][]listenerEntry),
		poolSize:  16,
		log:       logger.GetLogger("bus"),
	}
	for _, opt := range opts {
		opt(b)
	}

	var err error
	b.pool, err = ants.NewPool(b.poolSize)
	if err != nil {
		b.log.Error("创建协程池失败，使用默认容量", zap.Error(err))
		b.pool, _ = ants.NewPool(16)
	}
	return b
}

// Subscribe registers a listener for exactly key (tag included) and returns
// its subscription handle. A nil listener yields an inert subscription.
func (b *Bus) Subscribe(key core.TypeKey, fn Listener) Subscription {
	if fn == nil {
		return Subscription{}
	}
	entry := listenerEntry{
		id: atomic.AddUint64(&b.nextID, 1),
		fn: fn,
	}
	b.mu.Lock()
	b.listeners[key] = append(b.listeners[key], entry)
	b.mu.Unlock()
	return Subscription{key: key, id: entry.id}
}

// Notify synchronously invokes the listeners subscribed to exactly key, in
// subscription order. A panic inside one listener is caught and logged and
// the remaining listeners still run. Returns the number of listeners invoked.
func (b *Bus) Notify(key core.TypeKey) int {
	if atomic.LoadInt32(&b.closed) == 1 {
		return 0
	}
	entries := b.snapshot(key)
	for _, e := range entries {
		b.invoke(key, e)
	}
	return len(entries)
}

// NotifyAsync invokes matching listeners on the shared goroutine pool.
// When the pool refuses the task the listener runs inline instead.
func (b *Bus) NotifyAsync(key core.TypeKey) {
	if atomic.LoadInt32(&b.closed) == 1 {
		return
	}
	for _, e := range b.snapshot(key) {
		entry := e
		if err := b.pool.Submit(func() { b.invoke(key, entry) }); err != nil {
			b.log.Warn("异步通知提交失败，改为同步执行", zap.String("key", key.String()), zap.Error(err))
			b.invoke(key, entry)
		}
	}
}

// Unsubscribe removes the listener behind sub, reporting whether it was found
func (b *Bus) Unsubscribe(sub Subscription) bool {
	if sub.id == 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.listeners[sub.key]
	for i, e := range entries {
		if e.id == sub.id {
			b.listeners[sub.key] = append(entries[:i], entries[i+1:]...)
			if len(b.listeners[sub.key]) == 0 {
				delete(b.listeners, sub.key)
			}
			return true
		}
	}
	return false
}

// ClearAll drops every subscription
func (b *Bus) ClearAll() {
	b.mu.Lock()
	b.listeners = make(map[core.TypeKey][]listenerEntry)
	b.mu.Unlock()
}

// Close drops every subscription and releases the goroutine pool
func (b *Bus) Close() {
	if !atomic.CompareAndSwapInt32(&b.closed, 0, 1) {
		return
	}
	b.ClearAll()
	b.pool.Release()
}

// ListenerCount returns the number of listeners for exactly key
func (b *Bus) ListenerCount(key core.TypeKey) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[key])
}

func (b *Bus) snapshot(key core.TypeKey) []listenerEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entries := make([]listenerEntry, len(b.listeners[key]))
	copy(entries, b.listeners[key])
	return entries
}

func (b *Bus) invoke(key core.TypeKey, e listenerEntry) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("⚠️ 监听器执行失败",
				zap.String("key", key.String()),
				zap.Uint64("listener_id", e.id),
				zap.Any("panic", r))
		}
	}()
	e.fn(key)
}

// On subscribes for the key of T with an optional tag
func On[T any](b *Bus, tag string, fn Listener) Subscription {
	return b.Subscribe(core.KeyFor[T]().WithTag(tag), fn)
}

// Emit notifies the key of T with an optional tag
func Emit[T any](b *Bus, tag string) int {
	return b.Notify(core.KeyFor[T]().WithTag(tag))
}
