package systems

import (
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

// DestroySystem sweeps every ToDestroy-tagged entity at the end of a
// tick, removes it from the world, and publishes exactly one
// DestroyedEvent per entity; that event is the only authoritative
// source of entity removal. It must be the last system
// registered so every other system's ToDestroy tags land in the same
// tick they were raised.
type DestroySystem struct {
	toDestroy *ecs.ComponentStore[ecs.ToDestroy]
	bus       *ecs.EventBus
}

func NewDestroySystem(toDestroy *ecs.ComponentStore[ecs.ToDestroy], bus *ecs.EventBus) *DestroySystem {
	return &DestroySystem{toDestroy: toDestroy, bus: bus}
}

func (s *DestroySystem) Init(w *ecs.World) {}

func (s *DestroySystem) Update(w *ecs.World, dt time.Duration) {
	// All() aliases this store's backing array; w.Destroy swap-removes
	// from this same store as it runs, so the entities to destroy are
	// copied out first rather than iterated live.
	live, _ := s.toDestroy.All()
	entities := make([]ecs.EntityID, len(live))
	copy(entities, live)

	for _, e := range entities {
		w.Destroy(e)
		ecs.Publish(s.bus, DestroyedEvent{Entity: e})
	}
}

func (s *DestroySystem) Shutdown(w *ecs.World) {}
