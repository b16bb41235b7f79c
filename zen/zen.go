// Package zen is the process-wide facade of the runtime: a lazily created
// root scope, a current-scope session stack, a shared reactive bus and
// lifecycle manager, plus generic convenience wrappers targeting the
// current scope.
package zen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sdegenaar/zenify-sub002/bus"
	"github.com/sdegenaar/zenify-sub002/config"
	"github.com/sdegenaar/zenify-sub002/core"
	"github.com/sdegenaar/zenify-sub002/lifecycle"
	"github.com/sdegenaar/zenify-sub002/logger"
	"github.com/sdegenaar/zenify-sub002/scope"
)

// runtime explicit process-wide state with a documented init/reset lifecycle
type runtime struct {
	mu          sync.Mutex
	cfg         config.Config
	root        *scope.Scope
	stack       []*scope.Scope
	events      *bus.Bus
	manager     *lifecycle.Manager
	initialized bool
	log         *logger.CtxZapLogger
}

var global = &runtime{}

// Init creates the root scope and starts the lifecycle machinery.
// Idempotent: calling Init on an initialized runtime is a no-op. At most one
// configuration may be passed; omitted fields fall back to defaults.
func Init(cfgs ...config.Config) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.initLocked(cfgs...)
}

func (r *runtime) initLocked(cfgs ...config.Config) {
	if r.initialized {
		return
	}
	cfg := config.Default()
	if len(cfgs) > 0 {
		cfg = cfgs[0]
		cfg.ApplyDefaults()
	}
	r.cfg = cfg

	logger.InitManager(cfg.Logger)
	r.log = logger.GetLogger("zen")
	r.events = bus.New(bus.WithPoolSize(cfg.Bus.AsyncPoolSize))
	r.manager = lifecycle.NewManager()
	r.root = scope.New("root", nil, scope.WithBus(r.events))

	// Bridge scope events into the lifecycle manager: registered and
	// realized instances attach, removed entries detach. Ready callbacks
	// flush after the registering operation completes, not here.
	manager := r.manager
	scope.SetRegistrationObserver(func(s *scope.Scope, key core.TypeKey, inst any) {
		manager.Attach(context.Background(), inst, s, key)
	})
	scope.SetRemovalObserver(func(s *scope.Scope, key core.TypeKey, inst any) {
		manager.Detach(s, key, inst)
	})
	scope.SetRealizationObserver(func(s *scope.Scope, key core.TypeKey, inst any) {
		ctx := context.Background()
		manager.Attach(ctx, inst, s, key)
		manager.FlushReady(ctx)
	})

	if cfg.Lifecycle.SweepEnabled {
		if err := r.manager.StartSweep(cfg.Lifecycle.SweepInterval); err != nil {
			r.log.Warn("⚠️ 空闲回收任务启动失败", zap.Error(err))
		}
	}

	r.initialized = true
	r.log.Debug("✅ Zenify 运行时已初始化", zap.String("root", r.root.ID()))
}

// ensure lazily initializes the runtime with defaults
func ensure() *runtime {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.initLocked()
	return global
}

// Reset disposes the root scope (cascading through its subtree), clears the
// bus and the lifecycle manager, and recreates a fresh root. The bus keeps
// its goroutine pool; only its subscriptions are dropped.
func Reset() {
	r := ensure()

	r.mu.Lock()
	root := r.root
	r.root = nil
	r.stack = nil
	events := r.events
	manager := r.manager
	cfg := r.cfg
	r.mu.Unlock()

	manager.StopSweep()
	if root != nil {
		root.Dispose()
	}
	events.ClearAll()
	manager.Clear()

	r.mu.Lock()
	r.root = scope.New("root", nil, scope.WithBus(events))
	r.mu.Unlock()

	if cfg.Lifecycle.SweepEnabled {
		if err := manager.StartSweep(cfg.Lifecycle.SweepInterval); err != nil {
			r.log.Warn("⚠️ 空闲回收任务启动失败", zap.Error(err))
		}
	}
	r.log.Debug("🔄 运行时已重置")
}

// Root returns the process-wide root scope
func Root() *scope.Scope {
	r := ensure()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// Bus returns the shared reactive bus
func Bus() *bus.Bus {
	r := ensure()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events
}

// Lifecycle returns the shared lifecycle manager
func Lifecycle() *lifecycle.Manager {
	r := ensure()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.manager
}

// CreateScope creates a scope under parent; a nil or omitted parent defaults
// to the current scope
func CreateScope(name string, parent ...*scope.Scope) *scope.Scope {
	ensure()
	p := CurrentScope()
	if len(parent) > 0 && parent[0] != nil {
		p = parent[0]
	}
	return scope.New(name, p)
}

// CurrentScope returns the top of the session stack, or the root when no
// session is active
func CurrentScope() *scope.Scope {
	r := ensure()
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return r.root
}

// BeginSession pushes s as the implicit target of the convenience wrappers.
// Pair with a deferred EndSession so the previous scope is restored on both
// normal and error exit paths.
func BeginSession(s *scope.Scope) {
	if s == nil {
		return
	}
	r := ensure()
	r.mu.Lock()
	r.stack = append(r.stack, s)
	r.mu.Unlock()
}

// EndSession pops the current session; safe to call on an empty stack
func EndSession() {
	r := ensure()
	r.mu.Lock()
	if n := len(r.stack); n > 0 {
		r.stack = r.stack[:n-1]
	}
	r.mu.Unlock()
}

// PauseAll forwards the external background signal to the lifecycle manager
func PauseAll(ctx context.Context) {
	Lifecycle().PauseAll(ctx)
}

// ResumeAll forwards the external foreground signal to the lifecycle manager
func ResumeAll(ctx context.Context) {
	Lifecycle().ResumeAll(ctx)
}

// DeleteAll clears entries scope-by-scope across the whole forest, honoring
// permanence unless force is set, without disposing the scopes. Returns the
// number of entries removed.
func DeleteAll(force bool) int {
	ensure()
	total := 0
	for _, s := range scope.AllScopes() {
		total += s.DeleteAll(force)
	}
	return total
}
