package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleService struct{}

func TestKeyFor(t *testing.T) {
	key := KeyFor[*sampleService]()
	assert.NotEmpty(t, key.Type)
	assert.Empty(t, key.Tag)

	tagged := KeyFor[*sampleService]("primary")
	assert.Equal(t, key.Type, tagged.Type)
	assert.Equal(t, "primary", tagged.Tag)

	// Tag is part of identity
	assert.NotEqual(t, key, tagged)
}

func TestKeyFor_DistinctTypes(t *testing.T) {
	assert.NotEqual(t, KeyFor[int](), KeyFor[string]())
	assert.NotEqual(t, KeyFor[sampleService](), KeyFor[*sampleService]())
}

func TestTypeKey_String(t *testing.T) {
	key := TypeKey{Type: "pkg.Service"}
	assert.Equal(t, "pkg.Service", key.String())
	assert.Equal(t, "pkg.Service#db", key.WithTag("db").String())
}

func TestTypeKey_HasTypePrefix(t *testing.T) {
	key := KeyFor[*sampleService]()
	assert.True(t, key.HasTypePrefix("*"))
	assert.False(t, key.HasTypePrefix("nonexistent"))
}
