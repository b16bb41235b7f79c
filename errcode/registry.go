package errcode

import (
	"fmt"
	"sync"
)

// Registry error code registry (prevents code collisions)
type Registry struct {
	mu     sync.RWMutex
	codes  map[int]string // code -> module:msgKey
	locked bool           // once locked, no new codes may register
}

var globalRegistry = &Registry{
	codes: make(map[int]string),
}

// Register registers an error code in the global registry
// Panics when the code is already taken by a different module:msgKey
func Register(err *LayeredError) *LayeredError {
	return globalRegistry.Register(err)
}

// Register registers an error code in this registry
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.locked {
		panic(fmt.Sprintf("registry is locked, cannot register error code: %d", err.Code()))
	}

	code := err.Code()
	key := fmt.Sprintf("%s:%s", err.Module(), err.MsgKey())

	if existingKey, exists := r.codes[code]; exists {
		if existingKey != key {
			panic(fmt.Sprintf(
				"error code conflict: code %d is already registered as %s, cannot register as %s",
				code, existingKey, key,
			))
		}
		// Same code and key: idempotent
		return err
	}

	r.codes[code] = key
	return err
}

// Lock locks the registry, preventing registration of new error codes
// Typically called once the runtime has finished starting up
func (r *Registry) Lock() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = true
}

// Lock locks the global registry
func Lock() {
	globalRegistry.Lock()
}
