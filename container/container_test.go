package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdegenaar/zenify-sub002/core"
)

type fooService struct{ id int }
type barService struct{ id int }

func TestContainer_PutAndGetInstance(t *testing.T) {
	c := New()
	key := core.KeyFor[*fooService]()

	_, ok := c.Instance(key)
	assert.False(t, ok)

	c.PutInstance(key, &fooService{id: 1})
	v, ok := c.Instance(key)
	require.True(t, ok)
	assert.Equal(t, 1, v.(*fooService).id)

	// Silent overwrite
	c.PutInstance(key, &fooService{id: 2})
	v, ok = c.Instance(key)
	require.True(t, ok)
	assert.Equal(t, 2, v.(*fooService).id)
}

func TestContainer_TaggedKeysCoexist(t *testing.T) {
	c := New()
	base := core.KeyFor[*fooService]()
	tagged := core.KeyFor[*fooService]("replica")

	c.PutInstance(base, &fooService{id: 1})
	c.PutInstance(tagged, &fooService{id: 2})

	v1, ok := c.Instance(base)
	require.True(t, ok)
	v2, ok := c.Instance(tagged)
	require.True(t, ok)
	assert.NotEqual(t, v1.(*fooService).id, v2.(*fooService).id)
}

func TestContainer_Factories(t *testing.T) {
	c := New()
	key := core.KeyFor[*fooService]()

	_, ok := c.FactoryFor(key)
	assert.False(t, ok)

	c.PutFactory(key, Factory{Build: func() any { return &fooService{id: 7} }})
	f, ok := c.FactoryFor(key)
	require.True(t, ok)
	assert.False(t, f.AlwaysNew)
	assert.Equal(t, 7, f.Build().(*fooService).id)
}

func TestContainer_Remove(t *testing.T) {
	c := New()
	key := core.KeyFor[*fooService]()

	assert.False(t, c.RemoveInstance(key))
	assert.False(t, c.RemoveFactory(key))
	assert.False(t, c.Remove(key))

	c.PutInstance(key, &fooService{})
	c.PutFactory(key, Factory{Build: func() any { return &fooService{} }})

	assert.True(t, c.Remove(key))
	assert.Equal(t, 0, c.Len())
}

func TestContainer_RemoveByTag(t *testing.T) {
	c := New()
	c.PutInstance(core.KeyFor[*fooService]("a"), &fooService{})
	c.PutInstance(core.KeyFor[*barService]("a"), &barService{})
	c.PutInstance(core.KeyFor[*fooService]("b"), &fooService{})

	assert.Equal(t, 2, c.RemoveByTag("a"))
	assert.Equal(t, 1, c.Len())
}

func TestContainer_RemoveByTypePrefix(t *testing.T) {
	c := New()
	c.PutInstance(core.KeyFor[*fooService](), &fooService{})
	c.PutInstance(core.KeyFor[*fooService]("x"), &fooService{})
	c.PutInstance(core.KeyFor[int](), 42)

	prefix := core.KeyFor[*fooService]().Type
	assert.Equal(t, 2, c.RemoveByTypePrefix(prefix))
	assert.Equal(t, 1, c.Len())
}

func TestContainer_Clear(t *testing.T) {
	c := New()
	c.PutInstance(core.KeyFor[*fooService](), &fooService{})
	c.PutFactory(core.KeyFor[*barService](), Factory{Build: func() any { return &barService{} }})
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
}

func TestContainer_KeysDeduplicated(t *testing.T) {
	c := New()
	key := core.KeyFor[*fooService]()
	c.PutInstance(key, &fooService{})
	c.PutFactory(key, Factory{Build: func() any { return &fooService{} }})

	assert.Len(t, c.Keys(), 1)
	assert.Equal(t, 1, c.Len())
}
