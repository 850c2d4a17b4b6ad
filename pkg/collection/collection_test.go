package collection_test

import (
	"testing"

	"github.com/aretw0/harbor/pkg/collection"
	"github.com/aretw0/harbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPort_Idempotent(t *testing.T) {
	c := collection.New(900, 300)

	assert.True(t, c.AddPort("North"))
	p, ok := c.Get("North")
	require.True(t, ok)
	require.NoError(t, p.Insert(domain.DefaultShip{MaxSpeed: 1}))

	assert.False(t, c.AddPort("North"))
	assert.Equal(t, []string{"North"}, c.Names())

	again, ok := c.Get("North")
	require.True(t, ok)
	assert.Same(t, p, again, "second AddPort must keep the existing port")
	assert.Equal(t, 1, again.Len())
}

func TestAddPort_UniformCapacity(t *testing.T) {
	c := collection.New(900, 300)
	c.AddPort("a")
	c.AddPort("b")

	for _, name := range c.Names() {
		p, _ := c.Get(name)
		assert.Equal(t, 8, p.Capacity(), name)
	}
}

func TestDelPort(t *testing.T) {
	c := collection.New(900, 300)
	c.AddPort("North")
	c.AddPort("South")

	assert.False(t, c.DelPort("East"), "absent name is a no-op")
	assert.Equal(t, 2, c.Len())

	assert.True(t, c.DelPort("North"))
	_, ok := c.Get("North")
	assert.False(t, ok)
	assert.Equal(t, []string{"South"}, c.Names())
}

func TestNames_InsertionOrder(t *testing.T) {
	c := collection.New(900, 300)
	for _, n := range []string{"z", "a", "m", "b"} {
		c.AddPort(n)
	}
	c.DelPort("m")
	c.AddPort("m")

	assert.Equal(t, []string{"z", "a", "b", "m"}, c.Names())

	names := c.Names()
	names[0] = "mutated"
	assert.Equal(t, "z", c.Names()[0], "Names must return a copy")
}

func TestReplace(t *testing.T) {
	c := collection.New(900, 300)
	c.AddPort("old")

	fresh := collection.New(900, 300)
	fresh.AddPort("new")

	c.Replace(fresh)
	assert.Equal(t, []string{"new"}, c.Names())
	_, ok := c.Get("old")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	c := collection.New(900, 300)
	c.AddPort("a")
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Names())
}
