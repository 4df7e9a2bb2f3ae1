package schema

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBindSuffixesInRegistrationOrder(t *testing.T) {
	registry := NewCollisionRegistry()

	first, collided := registry.Bind("a.Widget", "Widget")
	assert.Equal(t, SchemaID("Widget"), first)
	assert.False(t, collided)

	second, collided := registry.Bind("b.Widget", "Widget")
	assert.Equal(t, SchemaID("Widget_dup1"), second)
	assert.True(t, collided)

	third, collided := registry.Bind("c.Widget", "Widget")
	assert.Equal(t, SchemaID("Widget_dup2"), third)
	assert.True(t, collided)
}

func TestRegistryBindIsIdempotent(t *testing.T) {
	registry := NewCollisionRegistry()

	first, _ := registry.Bind("a.Widget", "Widget")
	again, collided := registry.Bind("a.Widget", "Widget")

	assert.Equal(t, first, again)
	assert.False(t, collided, "re-binding the same key is not a collision")
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryReclaimsLowestFreeSlot(t *testing.T) {
	registry := NewCollisionRegistry()

	registry.Bind("A", "base")
	b, _ := registry.Bind("B", "base")
	require.Equal(t, SchemaID("base_dup1"), b)

	registry.Remove("A")

	c, collided := registry.Bind("C", "base")
	assert.Equal(t, SchemaID("base"), c, "removal reclaims the lowest slot, not the next counter value")
	assert.False(t, collided)

	// B's binding was frozen when handed out and must survive the churn
	id, ok := registry.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, SchemaID("base_dup1"), id)
}

func TestRegistryRemoveMiddleSlot(t *testing.T) {
	registry := NewCollisionRegistry()

	registry.Bind("A", "base")
	registry.Bind("B", "base")
	registry.Bind("C", "base")

	registry.Remove("B")

	d, _ := registry.Bind("D", "base")
	assert.Equal(t, SchemaID("base_dup1"), d, "the freed middle slot is reused first")

	e, _ := registry.Bind("E", "base")
	assert.Equal(t, SchemaID("base_dup3"), e, "slots 0 and 2 are still held")
}

func TestRegistryRemoveUnknownKeyIsNoop(t *testing.T) {
	registry := NewCollisionRegistry()
	registry.Bind("A", "base")

	registry.Remove("missing")

	assert.Equal(t, 1, registry.Len())
}

func TestRegistryDeterministicAcrossRebuilds(t *testing.T) {
	run := func() []SchemaID {
		registry := NewCollisionRegistry()
		var ids []SchemaID
		for i := 0; i < 5; i++ {
			id, _ := registry.Bind(fmt.Sprintf("key%d", i), "Shared")
			ids = append(ids, id)
		}
		return ids
	}

	assert.Equal(t, run(), run(), "a fixed registration sequence always yields the same suffixes")
}

func TestRegistryConcurrentReaders(t *testing.T) {
	registry := NewCollisionRegistry()
	registry.Bind("A", "base")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			registry.Bind(fmt.Sprintf("writer%d", n), "other")
		}(i)
		go func() {
			defer wg.Done()
			id, ok := registry.Lookup("A")
			assert.True(t, ok)
			assert.Equal(t, SchemaID("base"), id)
		}()
	}
	wg.Wait()
}
