// Package scope implements the hierarchical resolution unit of the runtime:
// a tree of containers with lazy creation, permanence flags, manual use
// counting and cascading disposal, plus the advisory dependency-cycle
// analyzer over declared edges.
package scope

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sdegenaar/zenify-sub002/bus"
	"github.com/sdegenaar/zenify-sub002/container"
	"github.com/sdegenaar/zenify-sub002/core"
	"github.com/sdegenaar/zenify-sub002/errcode"
	"github.com/sdegenaar/zenify-sub002/logger"
)

// entryMeta per-entry metadata kept alongside the container payload
type entryMeta struct {
	permanent bool
	useCount  int
	dependsOn []core.TypeKey
}

// EntryInfo read-only snapshot of one entry, used by the idle sweep and the
// dependency analyzer
type EntryInfo struct {
	Key         core.TypeKey
	Permanent   bool
	UseCount    int
	HasInstance bool
	DependsOn   []core.TypeKey
}

// Scope a node in the container tree. A scope owns its children and its
// entries; the parent link is non-owning and assigned once at construction.
// All methods are safe for concurrent use; the lock is released before any
// user callback runs, so factories and dispose hooks may call back in.
type Scope struct {
	id     string
	name   string
	parent *Scope
	events *bus.Bus

	mu        sync.Mutex
	children  []*Scope
	container *container.Container
	meta      map[core.TypeKey]*entryMeta
	disposers []func()
	disposed  bool

	log *logger.CtxZapLogger
}

// ScopeOption configures a scope at construction
type ScopeOption func(*Scope)

// WithBus attaches the reactive bus the scope emits change events on.
// Children inherit the parent's bus unless overridden.
func WithBus(b *bus.Bus) ScopeOption {
	return func(s *Scope) { s.events = b }
}

// New creates a scope under parent. A nil parent creates a root. A child's
// lifetime never exceeds its parent's: under an already-disposed parent the
// scope is created disposed, so registrations into it are rejected.
func New(name string, parent *Scope, opts ...ScopeOption) *Scope {
	s := &Scope{
		id:        uuid.NewString(),
		name:      name,
		parent:    parent,
		container: container.New(),
		meta:      make(map[core.TypeKey]*entryMeta),
		log:       logger.GetLogger("scope"),
	}
	for _, opt := range opts {
		opt(s)
	}
	registerScope(s)
	if parent != nil {
		if s.events == nil {
			s.events = parent.events
		}
		if !parent.addChild(s) {
			s.mu.Lock()
			s.disposed = true
			s.mu.Unlock()
			unregisterScope(s)
			s.log.Warn("⚠️ 父作用域已销毁，子作用域创建即销毁",
				zap.String("scope", name), zap.String("parent", parent.name))
			return s
		}
	}
	s.log.Debug("✨ 作用域已创建", zap.String("scope", name), zap.String("id", s.id))
	return s
}

// ID returns the scope's unique id
func (s *Scope) ID() string { return s.id }

// Name returns the scope's optional name
func (s *Scope) Name() string { return s.name }

// Parent returns the parent scope (nil for a root)
func (s *Scope) Parent() *Scope { return s.parent }

// Bus returns the reactive bus the scope emits on (may be nil)
func (s *Scope) Bus() *bus.Bus { return s.events }

// IsDisposed reports whether Dispose has run
func (s *Scope) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// ChildScopes returns a read-only snapshot of the child list
func (s *Scope) ChildScopes() []*Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	return children
}

// RegisterDisposer registers a cleanup function run during Dispose.
// Disposers run in LIFO order.
func (s *Scope) RegisterDisposer(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposers = append(s.disposers, fn)
}

// putKey registers an eager instance under key
func (s *Scope) putKey(key core.TypeKey, value any, o options) error {
	if o.alwaysNew {
		return errcode.ErrInvalidConfiguration.WithMsg("AlwaysNew 仅适用于懒加载工厂").WithData("key", key.String())
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return errcode.ErrScopeDisposed.WithData("scope", s.name)
	}
	s.container.PutInstance(key, value)
	s.meta[key] = &entryMeta{permanent: o.permanent, dependsOn: o.deps}
	s.mu.Unlock()

	if len(o.deps) > 0 {
		// Advisory only: a cycle is logged, never blocks registration
		DetectCycles(key)
	}
	notifyRegistration(s, key, value)
	s.emit(key)
	return nil
}

// putLazyKey registers a deferred factory under key
func (s *Scope) putLazyKey(key core.TypeKey, build func() any, o options) error {
	if o.permanent && o.alwaysNew {
		return errcode.ErrInvalidConfiguration.WithMsg("Permanent 与 AlwaysNew 不能同时使用").WithData("key", key.String())
	}
	if build == nil {
		return errcode.ErrInvalidConfiguration.WithMsg("工厂函数不能为空").WithData("key", key.String())
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return errcode.ErrScopeDisposed.WithData("scope", s.name)
	}
	s.container.PutFactory(key, container.Factory{Build: build, AlwaysNew: o.alwaysNew})
	s.meta[key] = &entryMeta{permanent: o.permanent, dependsOn: o.deps}
	s.mu.Unlock()

	if len(o.deps) > 0 {
		DetectCycles(key)
	}
	return nil
}

// FindKey resolves key in this scope, realizing an unrealized lazy factory,
// and otherwise delegates to the parent chain. Returns (nil, false) when the
// root has no match; it never errors.
func (s *Scope) FindKey(key core.TypeKey) (any, bool) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, false
	}
	if v, ok := s.container.Instance(key); ok {
		s.mu.Unlock()
		return v, true
	}
	if f, ok := s.container.FactoryFor(key); ok {
		s.mu.Unlock()
		return s.realize(key, f)
	}
	parent := s.parent
	s.mu.Unlock()

	if parent != nil {
		return parent.FindKey(key)
	}
	return nil, false
}

// realize runs a lazy factory outside the lock and stores the result unless
// the factory is always-new
func (s *Scope) realize(key core.TypeKey, f container.Factory) (any, bool) {
	value := f.Build()
	if f.AlwaysNew {
		return value, true
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return value, true
	}
	if existing, ok := s.container.Instance(key); ok {
		// Another caller realized the factory first
		s.mu.Unlock()
		return existing, true
	}
	s.container.PutInstance(key, value)
	s.mu.Unlock()

	s.log.Debug("💤 懒加载实例已实例化", zap.String("key", key.String()), zap.String("scope", s.name))
	notifyRealization(s, key, value)
	s.emit(key)
	return value, true
}

// ExistsKey reports whether key resolves from this scope without realizing
// lazy factories
func (s *Scope) ExistsKey(key core.TypeKey) bool {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return false
	}
	_, hasInst := s.container.Instance(key)
	_, hasFact := s.container.FactoryFor(key)
	parent := s.parent
	s.mu.Unlock()

	if hasInst || hasFact {
		return true
	}
	if parent != nil {
		return parent.ExistsKey(key)
	}
	return false
}

// DeleteKey removes key from this scope only. Permanent entries are kept
// unless force is set. On success the removed instance's dispose hook runs
// and the factory is removed with it.
func (s *Scope) DeleteKey(key core.TypeKey, force bool) bool {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return false
	}
	m, ok := s.meta[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	if m.permanent && !force {
		s.mu.Unlock()
		s.log.Debug("⛔ 永久条目拒绝删除", zap.String("key", key.String()), zap.String("scope", s.name))
		return false
	}
	inst, hadInst := s.container.Instance(key)
	s.container.Remove(key)
	delete(s.meta, key)
	s.mu.Unlock()

	if hadInst {
		runDisposeHook(s.log, key, inst)
		notifyRemoval(s, key, inst)
	}
	s.emit(key)
	return true
}

// DeleteByTag deletes every local entry carrying tag, honoring permanence.
// Returns the number of entries removed.
func (s *Scope) DeleteByTag(tag string, force bool) int {
	return s.deleteMatching(func(key core.TypeKey) bool { return key.Tag == tag }, force)
}

// DeleteByType deletes every local entry of the given type identifier across
// all tags, honoring permanence. Returns the number of entries removed.
func (s *Scope) DeleteByType(typeID string, force bool) int {
	return s.deleteMatching(func(key core.TypeKey) bool { return key.Type == typeID }, force)
}

// DeleteAll deletes every local entry, honoring permanence, without
// disposing the scope. Returns the number of entries removed.
func (s *Scope) DeleteAll(force bool) int {
	return s.deleteMatching(func(core.TypeKey) bool { return true }, force)
}

func (s *Scope) deleteMatching(match func(core.TypeKey) bool, force bool) int {
	s.mu.Lock()
	keys := make([]core.TypeKey, 0, len(s.meta))
	for key := range s.meta {
		if match(key) {
			keys = append(keys, key)
		}
	}
	s.mu.Unlock()

	removed := 0
	for _, key := range keys {
		if s.DeleteKey(key, force) {
			removed++
		}
	}
	return removed
}

// IncrementUseCount bumps the manual use counter for key, returning the new
// count. Unknown keys are a no-op.
func (s *Scope) IncrementUseCount(key core.TypeKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meta[key]
	if !ok {
		return 0
	}
	m.useCount++
	return m.useCount
}

// DecrementUseCount lowers the manual use counter for key, clamped at zero.
// Underflow is logged as a warning, never a panic.
func (s *Scope) DecrementUseCount(key core.TypeKey) int {
	s.mu.Lock()
	m, ok := s.meta[key]
	if !ok {
		s.mu.Unlock()
		return 0
	}
	if m.useCount == 0 {
		s.mu.Unlock()
		s.log.Warn("⚠️ 使用计数下溢", zap.String("key", key.String()), zap.String("scope", s.name))
		return 0
	}
	m.useCount--
	count := m.useCount
	s.mu.Unlock()
	return count
}

// UseCount returns the current manual use counter for key
func (s *Scope) UseCount(key core.TypeKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meta[key]; ok {
		return m.useCount
	}
	return 0
}

// Entries returns a snapshot of every local entry's metadata
func (s *Scope) Entries() []EntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]EntryInfo, 0, len(s.meta))
	for key, m := range s.meta {
		deps := make([]core.TypeKey, len(m.dependsOn))
		copy(deps, m.dependsOn)
		entries = append(entries, EntryInfo{
			Key:         key,
			Permanent:   m.permanent,
			UseCount:    m.useCount,
			HasInstance: s.container.HasInstance(key),
			DependsOn:   deps,
		})
	}
	return entries
}

// Dispose releases the scope: all children dispose first (depth-first), then
// this scope's disposers run in LIFO order, then the container entries are
// released and their dispose hooks run. The scope detaches from its parent
// and further registrations are rejected. Idempotent.
func (s *Scope) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	// Flag first so concurrent registrations are rejected, not lost
	s.disposed = true
	children := s.children
	s.children = nil
	s.mu.Unlock()

	for _, child := range children {
		child.Dispose()
	}

	s.mu.Lock()
	disposers := s.disposers
	s.disposers = nil
	type removedEntry struct {
		key  core.TypeKey
		inst any
	}
	var removed []removedEntry
	for _, key := range s.container.Keys() {
		if inst, ok := s.container.Instance(key); ok {
			removed = append(removed, removedEntry{key: key, inst: inst})
		}
	}
	s.container.Clear()
	s.meta = make(map[core.TypeKey]*entryMeta)
	s.mu.Unlock()

	for i := len(disposers) - 1; i >= 0; i-- {
		runDisposer(s.log, disposers[i])
	}
	for _, e := range removed {
		runDisposeHook(s.log, e.key, e.inst)
		notifyRemoval(s, e.key, e.inst)
		s.emit(e.key)
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}
	unregisterScope(s)
	s.log.Debug("🧹 作用域已销毁", zap.String("scope", s.name), zap.String("id", s.id))
}

// addChild attaches child, reporting whether the scope can still own it.
// A disposed scope refuses new children.
func (s *Scope) addChild(child *Scope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return false
	}
	s.children = append(s.children, child)
	return true
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// emit publishes a change notification for key on the attached bus
func (s *Scope) emit(key core.TypeKey) {
	if s.events != nil {
		s.events.Notify(key)
	}
}

// runDisposeHook runs the instance's dispose hook if present, catching panics
func runDisposeHook(log *logger.CtxZapLogger, key core.TypeKey, inst any) {
	d, ok := inst.(core.Disposable)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Warn("⚠️ OnDispose 钩子执行失败", zap.String("key", key.String()), zap.Any("panic", r))
		}
	}()
	d.OnDispose()
}

// runDisposer runs one registered disposer, catching panics
func runDisposer(log *logger.CtxZapLogger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("⚠️ 清理函数执行失败", zap.Any("panic", r))
		}
	}()
	fn()
}
