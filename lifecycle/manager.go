// Package lifecycle drives hook callbacks over managed instances and
// performs idle-based reclamation across the scope forest.
package lifecycle

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sdegenaar/zenify-sub002/core"
	"github.com/sdegenaar/zenify-sub002/logger"
	"github.com/sdegenaar/zenify-sub002/scope"
)

// recordKey identifies one managed entry: the owning scope plus its type-tag
// key. Instances themselves may be of uncomparable dynamic types, so records
// are never keyed by instance identity.
type recordKey struct {
	scopeID string
	key     core.TypeKey
}

type managed struct {
	instance any
	scope    *scope.Scope
	key      core.TypeKey
	state    core.State
}

// Manager binds instance lifetime to coarse application states.
//
// Per-instance transitions: Created → Initialized → Ready →
// {Paused ⇄ Resumed} → Disposed. OnInit runs synchronously at Attach;
// OnReady is queued and runs at the next FlushReady so siblings attached in
// the same batch are visible first. Hook failures are caught, logged with
// the instance type and hook name, and never abort the surrounding batch.
type Manager struct {
	mu           sync.Mutex
	records      map[recordKey]*managed
	order        []recordKey // attach order, for deterministic fan-out
	pendingReady []recordKey
	idleMarks    map[recordKey]bool
	sweeper      *sweeper
	log          *logger.CtxZapLogger
}

// NewManager creates a lifecycle manager
func NewManager() *Manager {
	return &Manager{
		records:   make(map[recordKey]*managed),
		idleMarks: make(map[recordKey]bool),
		log:       logger.GetLogger("lifecycle"),
	}
}

// hooksOf reports which hook interfaces instance implements
func implementsHooks(instance any) bool {
	switch instance.(type) {
	case core.Initializable, core.Readyable, core.Pausable, core.Resumable:
		return true
	}
	return false
}

// Attach places instance under lifecycle management. OnInit runs
// synchronously before Attach returns; OnReady is queued for the next
// FlushReady. Instances implementing none of the managed hooks are ignored.
func (m *Manager) Attach(ctx context.Context, instance any, s *scope.Scope, key core.TypeKey) {
	if instance == nil || s == nil || !implementsHooks(instance) {
		return
	}
	rk := recordKey{scopeID: s.ID(), key: key}
	rec := &managed{instance: instance, scope: s, key: key, state: core.StateCreated}

	m.mu.Lock()
	if _, exists := m.records[rk]; !exists {
		m.order = append(m.order, rk)
	}
	m.records[rk] = rec
	m.mu.Unlock()

	if init, ok := instance.(core.Initializable); ok {
		m.runHook(ctx, key, "OnInit", func() error { return init.OnInit(ctx) })
	}

	m.mu.Lock()
	rec.state = core.StateInitialized
	if _, ok := instance.(core.Readyable); ok {
		m.pendingReady = append(m.pendingReady, rk)
	}
	m.mu.Unlock()
}

// FlushReady drains the ready queue, invoking OnReady on each queued
// instance in attach order. The facade flushes after a registration batch
// completes, which is the module's "next cooperative yield": everything
// registered in the batch is visible before the first OnReady runs.
func (m *Manager) FlushReady(ctx context.Context) {
	m.mu.Lock()
	queue := m.pendingReady
	m.pendingReady = nil
	recs := make([]*managed, 0, len(queue))
	for _, rk := range queue {
		if rec, ok := m.records[rk]; ok {
			recs = append(recs, rec)
		}
	}
	m.mu.Unlock()

	for _, rec := range recs {
		r, ok := rec.instance.(core.Readyable)
		if !ok {
			continue
		}
		m.runHook(ctx, rec.key, "OnReady", func() error { return r.OnReady(ctx) })
		m.mu.Lock()
		rec.state = core.StateReady
		m.mu.Unlock()
	}
}

// PauseAll fans the external background signal out to every live managed
// instance
func (m *Manager) PauseAll(ctx context.Context) {
	for _, rec := range m.liveRecords() {
		p, ok := rec.instance.(core.Pausable)
		if !ok {
			continue
		}
		m.runVoidHook(ctx, rec.key, "OnPause", func() { p.OnPause(ctx) })
		m.mu.Lock()
		rec.state = core.StatePaused
		m.mu.Unlock()
	}
	m.log.DebugCtx(ctx, "⏸️ 全部托管实例已暂停")
}

// ResumeAll fans the external foreground signal out to every live managed
// instance
func (m *Manager) ResumeAll(ctx context.Context) {
	for _, rec := range m.liveRecords() {
		r, ok := rec.instance.(core.Resumable)
		if !ok {
			continue
		}
		m.runVoidHook(ctx, rec.key, "OnResume", func() { r.OnResume(ctx) })
		m.mu.Lock()
		rec.state = core.StateResumed
		m.mu.Unlock()
	}
	m.log.DebugCtx(ctx, "▶️ 全部托管实例已恢复")
}

// Detach removes the bookkeeping for one removed entry. The Disposed
// transition happens at most once: a second Detach for the same entry is a
// no-op. The instance's dispose hook itself runs in the scope's removal
// path, not here.
func (m *Manager) Detach(s *scope.Scope, key core.TypeKey, _ any) {
	rk := recordKey{scopeID: s.ID(), key: key}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[rk]; ok {
		rec.state = core.StateDisposed
		delete(m.records, rk)
		for i, o := range m.order {
			if o == rk {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	delete(m.idleMarks, rk)
}

// StateOf returns the lifecycle state of the entry managed under (s, key)
func (m *Manager) StateOf(s *scope.Scope, key core.TypeKey) (core.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[recordKey{scopeID: s.ID(), key: key}]
	if !ok {
		return core.StateDisposed, false
	}
	return rec.state, true
}

// ManagedCount returns the number of live managed instances
func (m *Manager) ManagedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Clear drops every record, pending ready callback and idle mark, and stops
// the sweep. Used by the facade's reset.
func (m *Manager) Clear() {
	m.StopSweep()
	m.mu.Lock()
	m.records = make(map[recordKey]*managed)
	m.order = nil
	m.pendingReady = nil
	m.idleMarks = make(map[recordKey]bool)
	m.mu.Unlock()
}

// liveRecords snapshots the managed records in attach order
func (m *Manager) liveRecords() []*managed {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := make([]*managed, 0, len(m.order))
	for _, rk := range m.order {
		if rec, ok := m.records[rk]; ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

// runHook invokes one error-returning hook, catching panics and logging
// failures with the instance type and hook name
func (m *Manager) runHook(ctx context.Context, key core.TypeKey, hook string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.WarnCtx(ctx, "⚠️ 生命周期钩子崩溃",
				zap.String("instance", key.String()),
				zap.String("hook", hook),
				zap.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		m.log.WarnCtx(ctx, "⚠️ 生命周期钩子返回错误",
			zap.String("instance", key.String()),
			zap.String("hook", hook),
			zap.Error(err))
	}
}

// runVoidHook invokes one void hook, catching panics
func (m *Manager) runVoidHook(ctx context.Context, key core.TypeKey, hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.WarnCtx(ctx, "⚠️ 生命周期钩子崩溃",
				zap.String("instance", key.String()),
				zap.String("hook", hook),
				zap.Any("panic", r))
		}
	}()
	fn()
}
