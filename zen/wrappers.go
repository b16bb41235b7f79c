package zen

import (
	"context"

	"github.com/sdegenaar/zenify-sub002/scope"
)

// Convenience wrappers targeting the current scope. Instances implementing
// lifecycle hooks are attached to the shared manager: OnInit runs before the
// wrapper returns, OnReady right after the registration completes.

// Put registers an eager instance in the current scope and returns it.
// The instance attaches to the lifecycle manager through the registration
// bridge; its ready callback flushes before Put returns.
func Put[T any](value T, opts ...scope.Option) (T, error) {
	r := ensure()
	v, err := scope.Put[T](CurrentScope(), value, opts...)
	if err != nil {
		return v, err
	}
	r.manager.FlushReady(context.Background())
	return v, nil
}

// PutLazy registers a deferred factory in the current scope. The built
// instance attaches to the lifecycle manager when it materializes.
func PutLazy[T any](build func() T, opts ...scope.Option) error {
	ensure()
	return scope.PutLazy[T](CurrentScope(), build, opts...)
}

// Find resolves T from the current scope or its ancestors, or returns
// NotFound
func Find[T any](opts ...scope.Option) (T, error) {
	ensure()
	return scope.FindRequired[T](CurrentScope(), opts...)
}

// FindOrNull resolves T from the current scope or its ancestors; a miss is
// (zero, false), never an error
func FindOrNull[T any](opts ...scope.Option) (T, bool) {
	ensure()
	return scope.Find[T](CurrentScope(), opts...)
}

// Exists reports whether T resolves from the current scope without realizing
// lazy factories
func Exists[T any](opts ...scope.Option) bool {
	ensure()
	return scope.Exists[T](CurrentScope(), opts...)
}

// Delete removes T's entry from the current scope, honoring permanence
// unless scope.Force() is given
func Delete[T any](opts ...scope.Option) bool {
	ensure()
	return scope.Delete[T](CurrentScope(), opts...)
}

// IncrementUse bumps the manual use counter for T's entry in the current
// scope
func IncrementUse[T any](opts ...scope.Option) int {
	ensure()
	return scope.IncrementUse[T](CurrentScope(), opts...)
}

// DecrementUse lowers the manual use counter for T's entry in the current
// scope
func DecrementUse[T any](opts ...scope.Option) int {
	ensure()
	return scope.DecrementUse[T](CurrentScope(), opts...)
}
