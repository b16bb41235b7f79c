package scope

import "github.com/sdegenaar/zenify-sub002/core"

// options parsed registration/lookup/deletion options
type options struct {
	tag       string
	permanent bool
	alwaysNew bool
	force     bool
	deps      []core.TypeKey
}

// Option configures a registration, lookup or deletion
type Option func(*options)

// WithTag sets the entry tag. Tag is part of entry identity: tagged and
// untagged entries of the same type coexist independently.
func WithTag(tag string) Option {
	return func(o *options) { o.tag = tag }
}

// Permanent marks the entry as surviving non-forced deletion and the idle
// sweep
func Permanent() Option {
	return func(o *options) { o.permanent = true }
}

// AlwaysNew makes a lazy factory build a fresh instance on every lookup.
// Only valid with PutLazy; incompatible with Permanent.
func AlwaysNew() Option {
	return func(o *options) { o.alwaysNew = true }
}

// WithDependencies declares dependency edges used by the cycle analyzer
func WithDependencies(deps ...core.TypeKey) Option {
	return func(o *options) { o.deps = append(o.deps, deps...) }
}

// Force overrides the permanence guard on deletion
func Force() Option {
	return func(o *options) { o.force = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
