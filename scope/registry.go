package scope

import (
	"sync"

	"github.com/sdegenaar/zenify-sub002/core"
)

// Live-scope registry backing the dependency analyzer and the idle sweep.
// Scopes register at construction and unregister on disposal.
var (
	liveMu     sync.RWMutex
	liveScopes = make(map[string]*Scope)
)

// Observers let the facade bridge scope events into the lifecycle manager
// without an import cycle: the scope package stays below lifecycle.
var (
	observerMu           sync.RWMutex
	registrationObserver func(s *Scope, key core.TypeKey, instance any)
	removalObserver      func(s *Scope, key core.TypeKey, instance any)
	realizationObserver  func(s *Scope, key core.TypeKey, instance any)
)

func registerScope(s *Scope) {
	liveMu.Lock()
	liveScopes[s.id] = s
	liveMu.Unlock()
}

func unregisterScope(s *Scope) {
	liveMu.Lock()
	delete(liveScopes, s.id)
	liveMu.Unlock()
}

// AllScopes returns a snapshot of every live scope in the forest
func AllScopes() []*Scope {
	liveMu.RLock()
	defer liveMu.RUnlock()
	scopes := make([]*Scope, 0, len(liveScopes))
	for _, s := range liveScopes {
		scopes = append(scopes, s)
	}
	return scopes
}

// SetRegistrationObserver installs on the whole forest a callback fired
// after an eager instance registers
func SetRegistrationObserver(fn func(s *Scope, key core.TypeKey, instance any)) {
	observerMu.Lock()
	registrationObserver = fn
	observerMu.Unlock()
}

// SetRemovalObserver installs on the whole forest a callback fired after an
// instance entry is removed and its dispose hook has run
func SetRemovalObserver(fn func(s *Scope, key core.TypeKey, instance any)) {
	observerMu.Lock()
	removalObserver = fn
	observerMu.Unlock()
}

// SetRealizationObserver installs on the whole forest a callback fired after
// a lazy factory materializes its instance
func SetRealizationObserver(fn func(s *Scope, key core.TypeKey, instance any)) {
	observerMu.Lock()
	realizationObserver = fn
	observerMu.Unlock()
}

func notifyRegistration(s *Scope, key core.TypeKey, instance any) {
	observerMu.RLock()
	fn := registrationObserver
	observerMu.RUnlock()
	if fn != nil {
		fn(s, key, instance)
	}
}

func notifyRemoval(s *Scope, key core.TypeKey, instance any) {
	observerMu.RLock()
	fn := removalObserver
	observerMu.RUnlock()
	if fn != nil {
		fn(s, key, instance)
	}
}

func notifyRealization(s *Scope, key core.TypeKey, instance any) {
	observerMu.RLock()
	fn := realizationObserver
	observerMu.RUnlock()
	if fn != nil {
		fn(s, key, instance)
	}
}
