// Package container implements the low-level (type, tag) → instance/factory
// store. It never errors: absence is an empty result. It has no locking of
// its own; the owning scope serializes access.
package container

import "github.com/sdegenaar/zenify-sub002/core"

// Factory deferred constructor for one entry
type Factory struct {
	Build func() any
	// AlwaysNew builds a fresh instance on every lookup instead of
	// materializing once
	AlwaysNew bool
}

// Container maps type-tag keys to instances and factories
type Container struct {
	instances map[core.TypeKey]any
	factories map[core.TypeKey]Factory
}

// New creates an empty container
func New() *Container {
	return &Container{
		instances: make(map[core.TypeKey]any),
		factories: make(map[core.TypeKey]Factory),
	}
}

// PutInstance stores an instance, silently overwriting any previous one
func (c *Container) PutInstance(key core.TypeKey, value any) {
	c.instances[key] = value
}

// Instance returns the stored instance for key
func (c *Container) Instance(key core.TypeKey) (any, bool) {
	v, ok := c.instances[key]
	return v, ok
}

// HasInstance reports whether an instance is stored for key
func (c *Container) HasInstance(key core.TypeKey) bool {
	_, ok := c.instances[key]
	return ok
}

// PutFactory stores a factory, silently overwriting any previous one
func (c *Container) PutFactory(key core.TypeKey, f Factory) {
	c.factories[key] = f
}

// FactoryFor returns the stored factory for key
func (c *Container) FactoryFor(key core.TypeKey) (Factory, bool) {
	f, ok := c.factories[key]
	return f, ok
}

// RemoveInstance removes the instance for key, reporting whether one existed
func (c *Container) RemoveInstance(key core.TypeKey) bool {
	if _, ok := c.instances[key]; !ok {
		return false
	}
	delete(c.instances, key)
	return true
}

// RemoveFactory removes the factory for key, reporting whether one existed
func (c *Container) RemoveFactory(key core.TypeKey) bool {
	if _, ok := c.factories[key]; !ok {
		return false
	}
	delete(c.factories, key)
	return true
}

// Remove removes both the instance and the factory for key
func (c *Container) Remove(key core.TypeKey) bool {
	removedInst := c.RemoveInstance(key)
	removedFact := c.RemoveFactory(key)
	return removedInst || removedFact
}

// RemoveByTypePrefix removes every entry whose type identifier starts with
// prefix, returning the number of distinct keys removed
func (c *Container) RemoveByTypePrefix(prefix string) int {
	removed := 0
	for _, key := range c.Keys() {
		if key.HasTypePrefix(prefix) && c.Remove(key) {
			removed++
		}
	}
	return removed
}

// RemoveByTag removes every entry carrying the given tag, returning the
// number of distinct keys removed
func (c *Container) RemoveByTag(tag string) int {
	removed := 0
	for _, key := range c.Keys() {
		if key.Tag == tag && c.Remove(key) {
			removed++
		}
	}
	return removed
}

// Clear removes everything
func (c *Container) Clear() {
	c.instances = make(map[core.TypeKey]any)
	c.factories = make(map[core.TypeKey]Factory)
}

// Keys returns the distinct keys present as instance or factory
func (c *Container) Keys() []core.TypeKey {
	seen := make(map[core.TypeKey]struct{}, len(c.instances)+len(c.factories))
	keys := make([]core.TypeKey, 0, len(c.instances)+len(c.factories))
	for k := range c.instances {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for k := range c.factories {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Len returns the number of distinct keys
func (c *Container) Len() int {
	return len(c.Keys())
}
