package systems

import (
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

// ScrollSpeed is the side-scroller's constant camera/background advance
// rate in pixels/second.
const ScrollSpeed = 80.0

// ScrollingSystem advances every Scrollable-tagged entity leftward at a
// constant rate, the R-Type side-scroll camera effect. Entities tagged
// Scrollable are background/wall geometry; players and enemies ignore
// it and are moved only by MovementSystem/AISystem/PhysiqueSystem.
type ScrollingSystem struct {
	scrollables *ecs.ComponentStore[ecs.Scrollable]
	positions   *ecs.ComponentStore[ecs.Position]
}

func NewScrollingSystem(scrollables *ecs.ComponentStore[ecs.Scrollable], positions *ecs.ComponentStore[ecs.Position]) *ScrollingSystem {
	return &ScrollingSystem{scrollables: scrollables, positions: positions}
}

func (s *ScrollingSystem) Init(w *ecs.World) {}

func (s *ScrollingSystem) Update(w *ecs.World, dt time.Duration) {
	delta := ScrollSpeed * dt.Seconds()
	s.scrollables.ForEach(func(e ecs.EntityID, _ ecs.Scrollable) {
		pos, ok := s.positions.Get(e)
		if !ok {
			return
		}
		pos.X -= delta
		s.positions.Set(e, pos)
	})
}

func (s *ScrollingSystem) Shutdown(w *ecs.World) {}
