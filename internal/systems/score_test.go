package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtype/arcade/internal/ecs"
)

func TestScoreSystemCreditsKillerAndPublishes(t *testing.T) {
	w := ecs.NewWorld()
	scores := ecs.RegisterComponent[ecs.Score](w)
	networkIDs := ecs.RegisterComponent[ecs.NetworkID](w)
	bus := ecs.NewEventBus()

	killer := w.Spawn()
	scores.Add(killer, ecs.Score{Value: 50})
	networkIDs.Add(killer, ecs.NetworkID{ID: killer})

	NewScoreSystem(scores, networkIDs, bus)

	var events []ScoreChangedEvent
	ecs.Subscribe(bus, func(ev ScoreChangedEvent) { events = append(events, ev) })

	ecs.Publish(bus, EnemyKilledEvent{Killer: killer})

	s, ok := scores.Get(killer)
	require.True(t, ok)
	assert.Equal(t, int32(150), s.Value)
	require.Len(t, events, 1)
	assert.Equal(t, uint32(killer), events[0].PlayerID)
	assert.Equal(t, int32(150), events[0].Score)
}
