package systems

import (
	"math"
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

// PlayerSpeed is the pixels/second magnitude of a fully-pressed movement
// direction. Shared verbatim by the server's MovementSystem and the
// client predictor so the two sides agree in the common case (spec'd
// movement rule: velocity = normalized(UP-DOWN, RIGHT-LEFT) * SPEED).
const PlayerSpeed = 220.0

// ApplyMovementRule derives a velocity vector from one tick's input
// flags. It is the single source of truth for the deterministic
// movement rule; the client predictor calls this exact function so
// prediction and authority never drift over input alone.
func ApplyMovementRule(flags ecs.InputFlags) (vx, vy float64) {
	var dx, dy float64
	if flags&ecs.InputRight != 0 {
		dx++
	}
	if flags&ecs.InputLeft != 0 {
		dx--
	}
	if flags&ecs.InputUp != 0 {
		dy--
	}
	if flags&ecs.InputDown != 0 {
		dy++
	}
	if dx == 0 && dy == 0 {
		return 0, 0
	}
	length := math.Hypot(dx, dy)
	return dx / length * PlayerSpeed, dy / length * PlayerSpeed
}

// MovementSystem converts each input-carrying entity's current Input
// component into a Velocity, per the shared movement rule. It never
// touches Position directly; PhysiqueSystem owns integration so every
// moving entity (player, projectile, enemy) is integrated the same way.
type MovementSystem struct {
	inputs     *ecs.ComponentStore[ecs.Input]
	velocities *ecs.ComponentStore[ecs.Velocity]
}

// NewMovementSystem wires the system to the component stores it needs.
// Registration happens once per session world in session.New.
func NewMovementSystem(inputs *ecs.ComponentStore[ecs.Input], velocities *ecs.ComponentStore[ecs.Velocity]) *MovementSystem {
	return &MovementSystem{inputs: inputs, velocities: velocities}
}

func (s *MovementSystem) Init(w *ecs.World) {}

func (s *MovementSystem) Update(w *ecs.World, dt time.Duration) {
	s.inputs.ForEach(func(e ecs.EntityID, in ecs.Input) {
		if !s.velocities.Has(e) {
			return
		}
		vx, vy := ApplyMovementRule(in.Flags)
		s.velocities.Set(e, ecs.Velocity{X: vx, Y: vy})
	})
}

func (s *MovementSystem) Shutdown(w *ecs.World) {}
