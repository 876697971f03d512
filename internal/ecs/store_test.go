package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentStoreAddGetHas(t *testing.T) {
	w := NewWorld()
	positions := RegisterComponent[Position](w)

	e := w.Spawn()
	assert.False(t, positions.Has(e))

	positions.Add(e, Position{X: 1, Y: 2})
	assert.True(t, positions.Has(e))

	got, ok := positions.Get(e)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2}, got)
}

func TestComponentStoreRemoveSwapsLastSlot(t *testing.T) {
	w := NewWorld()
	positions := RegisterComponent[Position](w)

	e1 := w.Spawn()
	e2 := w.Spawn()
	e3 := w.Spawn()
	positions.Add(e1, Position{X: 1})
	positions.Add(e2, Position{X: 2})
	positions.Add(e3, Position{X: 3})

	positions.Remove(e1)

	assert.False(t, positions.Has(e1))
	p2, ok := positions.Get(e2)
	require.True(t, ok)
	assert.Equal(t, 2.0, p2.X)
	p3, ok := positions.Get(e3)
	require.True(t, ok)
	assert.Equal(t, 3.0, p3.X)
	assert.Equal(t, 2, positions.Len())
}

func TestWorldDestroyRemovesFromEveryStore(t *testing.T) {
	w := NewWorld()
	positions := RegisterComponent[Position](w)
	healths := RegisterComponent[Health](w)

	e := w.Spawn()
	positions.Add(e, Position{X: 5})
	healths.Add(e, Health{Current: 10, Max: 10})

	w.Destroy(e)

	assert.False(t, w.Alive(e))
	assert.False(t, positions.Has(e))
	assert.False(t, healths.Has(e))
}

func TestComponentStoreForEachOrder(t *testing.T) {
	w := NewWorld()
	scores := RegisterComponent[Score](w)

	var ids []EntityID
	for i := 0; i < 5; i++ {
		e := w.Spawn()
		scores.Add(e, Score{Value: int32(i)})
		ids = append(ids, e)
	}

	var visited []EntityID
	scores.ForEach(func(e EntityID, s Score) {
		visited = append(visited, e)
	})
	assert.Equal(t, ids, visited)
}

func TestEventBusSubscribeUnsubscribe(t *testing.T) {
	bus := NewEventBus()

	type Spawned struct{ ID EntityID }

	var received []EntityID
	id := Subscribe(bus, func(e Spawned) {
		received = append(received, e.ID)
	})

	Publish(bus, Spawned{ID: 1})
	bus.Unsubscribe(id)
	Publish(bus, Spawned{ID: 2})

	assert.Equal(t, []EntityID{1}, received)
}
