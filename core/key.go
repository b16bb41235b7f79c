// Package core defines the shared identity and lifecycle contracts of the
// runtime. It is the lowest-level package and depends on no other project
// package, which keeps scope/bus/lifecycle free of import cycles.
package core

import (
	"strings"

	typetostring "github.com/samber/go-type-to-string"
)

// TypeKey identifies one stored entry: a stable per-concrete-type identifier
// plus an optional string tag. Tagged and untagged keys of the same type are
// distinct entries.
type TypeKey struct {
	Type string
	Tag  string
}

// KeyFor builds the TypeKey for T with an optional tag.
func KeyFor[T any](tag ...string) TypeKey {
	k := TypeKey{Type: typetostring.GetType[T]()}
	if len(tag) > 0 {
		k.Tag = tag[0]
	}
	return k
}

// WithTag returns a copy of the key carrying the given tag.
func (k TypeKey) WithTag(tag string) TypeKey {
	k.Tag = tag
	return k
}

// HasTypePrefix reports whether the type identifier starts with prefix.
func (k TypeKey) HasTypePrefix(prefix string) bool {
	return strings.HasPrefix(k.Type, prefix)
}

// String renders "pkg.Type" or "pkg.Type#tag".
func (k TypeKey) String() string {
	if k.Tag == "" {
		return k.Type
	}
	return k.Type + "#" + k.Tag
}
