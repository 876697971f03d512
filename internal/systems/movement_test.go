package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rtype/arcade/internal/ecs"
)

func TestApplyMovementRuleNormalizesDiagonal(t *testing.T) {
	vx, vy := ApplyMovementRule(ecs.InputUp | ecs.InputRight)
	assert.InDelta(t, PlayerSpeed/1.4142135, vx, 0.01)
	assert.InDelta(t, -PlayerSpeed/1.4142135, vy, 0.01)
}

func TestApplyMovementRuleNoInputIsZero(t *testing.T) {
	vx, vy := ApplyMovementRule(0)
	assert.Zero(t, vx)
	assert.Zero(t, vy)
}

func TestApplyMovementRuleOpposingCancels(t *testing.T) {
	vx, vy := ApplyMovementRule(ecs.InputUp | ecs.InputDown | ecs.InputLeft | ecs.InputRight)
	assert.Zero(t, vx)
	assert.Zero(t, vy)
}

func TestMovementThenPhysiqueIntegratesPosition(t *testing.T) {
	w := ecs.NewWorld()
	inputs := ecs.RegisterComponent[ecs.Input](w)
	velocities := ecs.RegisterComponent[ecs.Velocity](w)
	positions := ecs.RegisterComponent[ecs.Position](w)

	e := w.Spawn()
	positions.Add(e, ecs.Position{X: 100, Y: 100})
	velocities.Add(e, ecs.Velocity{})
	inputs.Add(e, ecs.Input{Flags: ecs.InputRight})

	movement := NewMovementSystem(inputs, velocities)
	physique := NewPhysiqueSystem(positions, velocities, 0, 0)

	movement.Update(w, 50*time.Millisecond)
	physique.Update(w, 50*time.Millisecond)

	pos, ok := positions.Get(e)
	assert.True(t, ok)
	assert.Greater(t, pos.X, 100.0)
	assert.Equal(t, 100.0, pos.Y)
}

func TestDestroySystemPublishesOncePerEntity(t *testing.T) {
	w := ecs.NewWorld()
	toDestroy := ecs.RegisterComponent[ecs.ToDestroy](w)
	bus := ecs.NewEventBus()

	var destroyed []ecs.EntityID
	ecs.Subscribe(bus, func(ev DestroyedEvent) {
		destroyed = append(destroyed, ev.Entity)
	})

	e1 := w.Spawn()
	e2 := w.Spawn()
	toDestroy.Add(e1, ecs.ToDestroy{})
	toDestroy.Add(e2, ecs.ToDestroy{})

	sys := NewDestroySystem(toDestroy, bus)
	sys.Update(w, 0)

	assert.ElementsMatch(t, []ecs.EntityID{e1, e2}, destroyed)
	assert.False(t, w.Alive(e1))
	assert.False(t, w.Alive(e2))
}
