package systems

import (
	"time"

	"github.com/rtype/arcade/internal/ecs"
)

const pointsPerKill = 100

// ScoreSystem reacts to EnemyKilledEvent by crediting the killing
// entity's Score component and publishing a ScoreChangedEvent carrying
// its NetworkID so the dispatcher can reply with score_update. It holds
// no per-tick Update work of its own; all of its logic runs off the
// event bus as kills happen, same tick they are produced.
type ScoreSystem struct {
	scores     *ecs.ComponentStore[ecs.Score]
	networkIDs *ecs.ComponentStore[ecs.NetworkID]
}

func NewScoreSystem(scores *ecs.ComponentStore[ecs.Score], networkIDs *ecs.ComponentStore[ecs.NetworkID], bus *ecs.EventBus) *ScoreSystem {
	s := &ScoreSystem{scores: scores, networkIDs: networkIDs}
	ecs.Subscribe(bus, func(ev EnemyKilledEvent) {
		s.credit(ev.Killer, bus)
	})
	return s
}

func (s *ScoreSystem) credit(killer ecs.EntityID, bus *ecs.EventBus) {
	score, ok := s.scores.Get(killer)
	if !ok {
		return
	}
	score.Value += pointsPerKill
	s.scores.Set(killer, score)

	netID, ok := s.networkIDs.Get(killer)
	if !ok {
		return
	}
	ecs.Publish(bus, ScoreChangedEvent{PlayerID: uint32(netID.ID), Score: score.Value})
}

func (s *ScoreSystem) Init(w *ecs.World) {}

func (s *ScoreSystem) Update(w *ecs.World, dt time.Duration) {}

func (s *ScoreSystem) Shutdown(w *ecs.World) {}
