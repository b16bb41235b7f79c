package scope

import (
	"github.com/sdegenaar/zenify-sub002/core"
	"github.com/sdegenaar/zenify-sub002/errcode"
)

// Generic entry points. Go methods cannot carry type parameters, so the
// typed API lives at package level, taking the target scope first
// (the same shape samber/do gives its injector API).

// KeyOf builds the TypeKey for T honoring a WithTag option
func KeyOf[T any](opts ...Option) core.TypeKey {
	o := applyOptions(opts)
	return core.KeyFor[T]().WithTag(o.tag)
}

// Put registers an eager instance and returns it. Declared dependencies
// trigger the advisory cycle analysis.
func Put[T any](s *Scope, value T, opts ...Option) (T, error) {
	o := applyOptions(opts)
	key := core.KeyFor[T]().WithTag(o.tag)
	if err := s.putKey(key, value, o); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// PutLazy registers a deferred factory. The instance materializes on first
// Find; with AlwaysNew every Find builds a fresh instance.
func PutLazy[T any](s *Scope, build func() T, opts ...Option) error {
	o := applyOptions(opts)
	key := core.KeyFor[T]().WithTag(o.tag)
	if build == nil {
		return s.putLazyKey(key, nil, o)
	}
	return s.putLazyKey(key, func() any { return build() }, o)
}

// Find resolves T from s or its ancestors, realizing lazy factories.
// Never errors: a miss is (zero, false).
func Find[T any](s *Scope, opts ...Option) (T, bool) {
	v, ok := s.FindKey(KeyOf[T](opts...))
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return typed, true
}

// FindRequired resolves T or returns NotFound
func FindRequired[T any](s *Scope, opts ...Option) (T, error) {
	v, ok := Find[T](s, opts...)
	if !ok {
		return v, errcode.ErrNotFound.WithData("key", KeyOf[T](opts...).String())
	}
	return v, nil
}

// Exists reports whether T resolves from s without realizing lazy factories
func Exists[T any](s *Scope, opts ...Option) bool {
	return s.ExistsKey(KeyOf[T](opts...))
}

// Delete removes the entry for T from s, honoring permanence unless Force
func Delete[T any](s *Scope, opts ...Option) bool {
	o := applyOptions(opts)
	return s.DeleteKey(core.KeyFor[T]().WithTag(o.tag), o.force)
}

// DeleteAllOf removes every entry of T's type across all tags
func DeleteAllOf[T any](s *Scope, opts ...Option) int {
	o := applyOptions(opts)
	return s.DeleteByType(core.KeyFor[T]().Type, o.force)
}

// IncrementUse bumps the manual use counter for T's entry
func IncrementUse[T any](s *Scope, opts ...Option) int {
	return s.IncrementUseCount(KeyOf[T](opts...))
}

// DecrementUse lowers the manual use counter for T's entry, clamped at zero
func DecrementUse[T any](s *Scope, opts ...Option) int {
	return s.DecrementUseCount(KeyOf[T](opts...))
}

// UseCountOf returns the manual use counter for T's entry
func UseCountOf[T any](s *Scope, opts ...Option) int {
	return s.UseCount(KeyOf[T](opts...))
}
