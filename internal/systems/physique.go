package systems

import (
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

// PhysiqueSystem integrates every entity with both Position and
// Velocity. Integration lives in one place so MovementSystem, AISystem,
// and ShootingSystem can all produce a Velocity and have it applied
// uniformly.
type PhysiqueSystem struct {
	positions  *ecs.ComponentStore[ecs.Position]
	velocities *ecs.ComponentStore[ecs.Velocity]

	MapWidth, MapHeight float64
}

// NewPhysiqueSystem wires the system to its component stores and the
// session's map bounds, used to clamp entities instead of letting them
// run off into unreplicated space.
func NewPhysiqueSystem(positions *ecs.ComponentStore[ecs.Position], velocities *ecs.ComponentStore[ecs.Velocity], mapWidth, mapHeight float64) *PhysiqueSystem {
	return &PhysiqueSystem{positions: positions, velocities: velocities, MapWidth: mapWidth, MapHeight: mapHeight}
}

func (s *PhysiqueSystem) Init(w *ecs.World) {}

func (s *PhysiqueSystem) Update(w *ecs.World, dt time.Duration) {
	seconds := dt.Seconds()
	s.velocities.ForEach(func(e ecs.EntityID, v ecs.Velocity) {
		pos, ok := s.positions.Get(e)
		if !ok {
			return
		}
		pos.X += v.X * seconds
		pos.Y += v.Y * seconds
		if pos.X < 0 {
			pos.X = 0
		} else if s.MapWidth > 0 && pos.X > s.MapWidth {
			pos.X = s.MapWidth
		}
		if pos.Y < 0 {
			pos.Y = 0
		} else if s.MapHeight > 0 && pos.Y > s.MapHeight {
			pos.Y = s.MapHeight
		}
		s.positions.Set(e, pos)
	})
}

func (s *PhysiqueSystem) Shutdown(w *ecs.World) {}
