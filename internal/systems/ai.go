package systems

import (
	"math"
	"time"

	"github.com/rtype/arcade/internal/ecs"
	"github.com/rtype/arcade/internal/protocol"
)

// enemySpeed is the horizontal approach speed; enemyBobAmplitude/Period
// give the simple sine-wave vertical pattern.
const (
	enemySpeed          = -60.0
	enemyBobAmplitude   = 40.0
	enemyBobPeriod      = 2 * time.Second
	enemySpawnEveryTick = 40 // ~2s at 20Hz
	enemyHealth         = 20

	waveBaseEnemies = 3  // wave N spawns waveBaseEnemies + N enemies
	wavePauseTicks  = 60 // ~3s breather between waves
)

// AISystem drives the one WaveController entity per session: spawning
// enemies on a schedule, advancing to the next wave once the current
// one is cleared, and giving existing enemies a basic bobbing approach
// pattern. Scoped deliberately small — this exists to produce the
// wave_start/wave_complete/entity_spawn traffic the wire catalogue
// requires, not to be a tuned campaign.
type AISystem struct {
	controllers *ecs.ComponentStore[ecs.WaveController]
	positions   *ecs.ComponentStore[ecs.Position]
	velocities  *ecs.ComponentStore[ecs.Velocity]
	colliders   *ecs.ComponentStore[ecs.Collider]
	healths     *ecs.ComponentStore[ecs.Health]
	networkIDs  *ecs.ComponentStore[ecs.NetworkID]
	enemies     *ecs.ComponentStore[ecs.Enemy]
	bus         *ecs.EventBus

	spawnX, spawnY float64
	currentTick    uint64
	enemyPhase     map[ecs.EntityID]time.Duration
}

func NewAISystem(
	controllers *ecs.ComponentStore[ecs.WaveController],
	positions *ecs.ComponentStore[ecs.Position],
	velocities *ecs.ComponentStore[ecs.Velocity],
	colliders *ecs.ComponentStore[ecs.Collider],
	healths *ecs.ComponentStore[ecs.Health],
	networkIDs *ecs.ComponentStore[ecs.NetworkID],
	enemies *ecs.ComponentStore[ecs.Enemy],
	bus *ecs.EventBus,
	spawnX, spawnY float64,
) *AISystem {
	return &AISystem{
		controllers: controllers, positions: positions, velocities: velocities,
		colliders: colliders, healths: healths, networkIDs: networkIDs,
		enemies: enemies, bus: bus, spawnX: spawnX, spawnY: spawnY,
		enemyPhase: make(map[ecs.EntityID]time.Duration),
	}
}

func (s *AISystem) Init(w *ecs.World) {}

func (s *AISystem) Update(w *ecs.World, dt time.Duration) {
	s.currentTick++

	controllerIDs, controllers := s.controllers.All()
	for i, c := range controllers {
		switch {
		case c.EnemiesRemaining > 0 && s.currentTick >= c.NextSpawnTick:
			s.spawnEnemy(w)
			c.EnemiesRemaining--
			c.NextSpawnTick = s.currentTick + enemySpawnEveryTick
			s.controllers.Set(controllerIDs[i], c)
		case c.EnemiesRemaining == 0 && s.enemies.Len() == 0 && s.currentTick >= c.NextSpawnTick:
			// Wave cleared (or first tick of the session): announce the
			// completion of the previous wave, then schedule the next.
			if c.WaveIndex > 0 {
				ecs.Publish(s.bus, WaveCompletedEvent{WaveIndex: uint32(c.WaveIndex)})
			}
			c.WaveIndex++
			c.EnemiesRemaining = waveBaseEnemies + c.WaveIndex
			c.NextSpawnTick = s.currentTick + wavePauseTicks
			s.controllers.Set(controllerIDs[i], c)
			ecs.Publish(s.bus, WaveStartedEvent{WaveIndex: uint32(c.WaveIndex), EnemyCount: uint32(c.EnemiesRemaining)})
		}
	}

	s.enemies.ForEach(func(e ecs.EntityID, _ ecs.Enemy) {
		phase := s.enemyPhase[e] + dt
		s.enemyPhase[e] = phase
		omega := 2 * math.Pi / enemyBobPeriod.Seconds()
		vy := enemyBobAmplitude * omega * math.Cos(omega*phase.Seconds())
		s.velocities.Set(e, ecs.Velocity{X: enemySpeed, Y: vy})
	})
}

func (s *AISystem) spawnEnemy(w *ecs.World) {
	e := w.Spawn()
	s.positions.Add(e, ecs.Position{X: s.spawnX, Y: s.spawnY})
	s.velocities.Add(e, ecs.Velocity{X: enemySpeed, Y: 0})
	s.colliders.Add(e, ecs.Collider{W: 32, H: 32})
	s.healths.Add(e, ecs.Health{Current: enemyHealth, Max: enemyHealth})
	s.networkIDs.Add(e, ecs.NetworkID{ID: e})
	s.enemies.Add(e, ecs.Enemy{})
	ecs.Publish(s.bus, SpawnedEvent{Entity: e, Kind: protocol.EntityKindEnemy})
}

func (s *AISystem) Shutdown(w *ecs.World) {}
