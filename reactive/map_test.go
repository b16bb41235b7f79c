package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdegenaar/zenify-sub002/scope"
)

func TestMap_SetGetDelete(t *testing.T) {
	m := NewMap[string, int]()

	var hits int
	m.Subscribe(func() { hits++ })

	m.Set("a", 1)
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, hits)

	assert.True(t, m.Delete("a"))
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, hits)
}

func TestMap_DeleteAbsentKeyDoesNotNotify(t *testing.T) {
	m := NewMap[string, int]()

	var hits int
	m.Subscribe(func() { hits++ })

	assert.False(t, m.Delete("missing"))
	assert.Equal(t, 0, hits)
}

func TestMap_Clear(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	var hits int
	m.Subscribe(func() { hits++ })

	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, hits)
}

func TestMap_KeysAndSnapshot(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	assert.ElementsMatch(t, []string{"a", "b"}, m.Keys())

	snap := m.Snapshot()
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, snap)

	// Mutating the snapshot leaves the map untouched
	snap["a"] = 999
	v, _ := m.Get("a")
	assert.Equal(t, 1, v)
}

func TestMap_Unsubscribe(t *testing.T) {
	m := NewMap[string, int]()

	var hits int
	cancel := m.Subscribe(func() { hits++ })

	m.Set("a", 1)
	cancel()
	m.Set("b", 2)
	assert.Equal(t, 1, hits)
}

func TestMap_BindTo(t *testing.T) {
	s := scope.New("map-test", nil)

	m := NewMap[string, int]().BindTo(s)
	var hits int
	m.Subscribe(func() { hits++ })

	s.Dispose()
	m.Set("a", 1)
	assert.Equal(t, 0, hits)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}
