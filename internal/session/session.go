// Package session owns per-game ECS worlds: the Spawning -> Running ->
// Ending lifecycle, per-player input tracking, and the outbound
// replication event queue the dispatcher drains at the tick barrier.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rtype/arcade/internal/ecs"
	"github.com/rtype/arcade/internal/protocol"
	"github.com/rtype/arcade/internal/systems"
)

// State is a session's coarse lifecycle stage.
type State int

const (
	Spawning State = iota
	Running
	Ending
)

// Kind distinguishes the two games sharing this server's transport,
// protocol, and ECS: the side-scroller and the blob arena. The wire
// protocol carries no discriminator field for it, so Kind is a
// server-side-only decision made by the lobby/room layer when a
// session is created.
type Kind int

const (
	KindSideScroller Kind = iota
	KindBlob
)

// TickRate is the fixed simulation/broadcast rate (20 Hz, 50 ms/tick).
const TickRate = 20

// TickInterval is the nominal duration of one tick.
const TickInterval = time.Second / TickRate

// RosterMember is one player handed to a session at creation time by
// the lobby or room manager.
type RosterMember struct {
	PlayerID uint32
	Name     string
}

// playerState is a session's bookkeeping for one roster member.
type playerState struct {
	entity                     ecs.EntityID
	lastProcessedInputSequence uint32
}

// OutboundEvent is one fully-encoded payload queued for the dispatcher's
// barrier broadcast, tagged with its channel and packet type so the
// dispatcher need not re-inspect the payload to frame it. Recipient 0
// addresses every roster member; a non-zero Recipient addresses that
// one player (snapshots carry a per-player input acknowledgement, so
// each member gets their own copy).
type OutboundEvent struct {
	Type      protocol.PacketType
	Reliable  bool
	Recipient uint32
	Payload   []byte
}

// Session owns one isolated ECS world and everything needed to step it
// every tick and translate its mutations into wire events.
type Session struct {
	ID         uuid.UUID
	Kind       Kind
	MapID      uint32
	ServerTick uint32

	world     *ecs.World
	scheduler *ecs.Scheduler
	bus       *ecs.EventBus

	players     map[uint32]*playerState
	state       State
	finalScores map[uint32]int32

	outbound []OutboundEvent

	networkIDs     *ecs.ComponentStore[ecs.NetworkID]
	inputs         *ecs.ComponentStore[ecs.Input]
	positions      *ecs.ComponentStore[ecs.Position]
	velocities     *ecs.ComponentStore[ecs.Velocity]
	healths        *ecs.ComponentStore[ecs.Health]
	scores         *ecs.ComponentStore[ecs.Score]
	blobRadii      *ecs.ComponentStore[ecs.BlobRadius]
	toDestroy      *ecs.ComponentStore[ecs.ToDestroy]
	enemyTags      *ecs.ComponentStore[ecs.Enemy]
	projectileTags *ecs.ComponentStore[ecs.Projectile]
	blobOwners     *ecs.ComponentStore[ecs.BlobOwner]

	mapWidth, mapHeight float64

	log *zap.SugaredLogger
}

// New builds a session's world, registers its systems (registration
// order is update order, every tick), spawns one Player entity per
// roster member, and subscribes every replication event the systems
// publish into the outbound queue.
func New(id uuid.UUID, roster []RosterMember, kind Kind, mapID uint32, mapWidth, mapHeight float64, log *zap.SugaredLogger) *Session {
	s := &Session{
		ID: id, Kind: kind, MapID: mapID,
		world: ecs.NewWorld(), bus: ecs.NewEventBus(),
		players: make(map[uint32]*playerState), state: Spawning,
		mapWidth: mapWidth, mapHeight: mapHeight,
		log: log.With("session_id", id.String()),
	}

	s.networkIDs = ecs.RegisterComponent[ecs.NetworkID](s.world)
	s.inputs = ecs.RegisterComponent[ecs.Input](s.world)
	s.positions = ecs.RegisterComponent[ecs.Position](s.world)
	s.velocities = ecs.RegisterComponent[ecs.Velocity](s.world)
	colliders := ecs.RegisterComponent[ecs.Collider](s.world)
	s.healths = ecs.RegisterComponent[ecs.Health](s.world)
	s.scores = ecs.RegisterComponent[ecs.Score](s.world)
	playerTags := ecs.RegisterComponent[ecs.Player](s.world)
	enemyTags := ecs.RegisterComponent[ecs.Enemy](s.world)
	s.enemyTags = enemyTags
	wallTags := ecs.RegisterComponent[ecs.Wall](s.world)
	projectileTags := ecs.RegisterComponent[ecs.Projectile](s.world)
	s.projectileTags = projectileTags
	s.toDestroy = ecs.RegisterComponent[ecs.ToDestroy](s.world)
	invuln := ecs.RegisterComponent[ecs.Invulnerability](s.world)
	scrollables := ecs.RegisterComponent[ecs.Scrollable](s.world)
	controllers := ecs.RegisterComponent[ecs.WaveController](s.world)
	s.blobRadii = ecs.RegisterComponent[ecs.BlobRadius](s.world)
	blobOwners := ecs.RegisterComponent[ecs.BlobOwner](s.world)
	s.blobOwners = blobOwners

	s.scheduler = ecs.NewScheduler(s.world)
	s.scheduler.Register(systems.NewMovementSystem(s.inputs, s.velocities))
	s.scheduler.Register(systems.NewPhysiqueSystem(s.positions, s.velocities, mapWidth, mapHeight))
	s.scheduler.Register(systems.NewCollisionSystem(s.positions, colliders, s.healths, playerTags, enemyTags, wallTags, projectileTags, s.toDestroy, invuln, s.bus))

	switch kind {
	case KindSideScroller:
		s.scheduler.Register(systems.NewScrollingSystem(scrollables, s.positions))
		s.scheduler.Register(systems.NewShootingSystem(s.inputs, s.positions, s.velocities, colliders, s.networkIDs, projectileTags, s.bus))
		s.scheduler.Register(systems.NewAISystem(controllers, s.positions, s.velocities, colliders, s.healths, s.networkIDs, enemyTags, s.bus, mapWidth, mapHeight/2))
		// The wave controller entity; AISystem drives it from wave 1 on
		// its first update.
		ctrl := s.world.Spawn()
		controllers.Add(ctrl, ecs.WaveController{})
	case KindBlob:
		s.scheduler.Register(systems.NewBlobGrowthSystem(s.blobRadii, 0.5, 120))
		s.scheduler.Register(systems.NewBlobEatSystem(s.positions, s.blobRadii, blobOwners, s.toDestroy, s.bus))
	}
	s.scheduler.Register(systems.NewScoreSystem(s.scores, s.networkIDs, s.bus))
	s.scheduler.Register(systems.NewDestroySystem(s.toDestroy, s.bus))

	s.subscribeReplicationEvents()

	for i, member := range roster {
		e := s.world.Spawn()
		spawnX, spawnY := spawnPoint(i, mapWidth, mapHeight)
		s.positions.Add(e, ecs.Position{X: spawnX, Y: spawnY})
		s.velocities.Add(e, ecs.Velocity{})
		colliders.Add(e, ecs.Collider{W: 24, H: 24})
		s.healths.Add(e, ecs.Health{Current: 100, Max: 100})
		s.scores.Add(e, ecs.Score{})
		s.networkIDs.Add(e, ecs.NetworkID{ID: e})
		playerTags.Add(e, ecs.Player{})
		if kind == KindBlob {
			s.blobRadii.Add(e, ecs.BlobRadius{Radius: 20})
			blobOwners.Add(e, ecs.BlobOwner{PlayerID: member.PlayerID})
		}
		s.players[member.PlayerID] = &playerState{entity: e}
	}

	s.state = Running
	return s
}

// spawnPoint assigns a deterministic, spread-out spawn location for the
// i-th roster member.
func spawnPoint(i int, mapWidth, mapHeight float64) (float64, float64) {
	const margin = 64
	usable := mapHeight - 2*margin
	if usable <= 0 {
		usable = mapHeight
	}
	slot := float64(i%8) / 8
	return margin, margin + slot*usable
}

// State reports the session's current lifecycle stage.
func (s *Session) State() State { return s.state }

// PlayerEntity looks up the ECS entity backing a roster member.
func (s *Session) PlayerEntity(playerID uint32) (ecs.EntityID, bool) {
	ps, ok := s.players[playerID]
	if !ok {
		return 0, false
	}
	return ps.entity, true
}

// HandleInput applies one tick's input packet to its owning entity and
// records last_processed_input_sequence for reconciliation.
func (s *Session) HandleInput(playerID uint32, payload protocol.InputPayload) error {
	ps, ok := s.players[playerID]
	if !ok {
		return fmt.Errorf("session: unknown player %d", playerID)
	}
	if s.world.Alive(ps.entity) {
		s.inputs.Add(ps.entity, ecs.Input{
			Flags:    ecs.InputFlags(payload.InputFlags),
			Sequence: payload.Sequence,
		})
	}
	ps.lastProcessedInputSequence = payload.Sequence
	return nil
}

// RemovePlayer tags a disconnected player's entity ToDestroy rather than
// destroying it inline, so DestroySystem produces the usual
// entity_destroy event on the next tick.
func (s *Session) RemovePlayer(playerID uint32) {
	ps, ok := s.players[playerID]
	if !ok {
		return
	}
	s.toDestroy.Add(ps.entity, ecs.ToDestroy{})
	delete(s.players, playerID)
}

// ClearEnemies tags every Enemy-role entity ToDestroy; the DestroySystem
// sweeps them on the session's next Advance and the usual
// entity_destroy events are broadcast. Used by the admin console's
// `clearenemies` command.
func (s *Session) ClearEnemies() int {
	ids, _ := s.enemyTags.All()
	cleared := make([]ecs.EntityID, len(ids))
	copy(cleared, ids)
	for _, e := range cleared {
		s.toDestroy.Add(e, ecs.ToDestroy{})
	}
	return len(cleared)
}

// PlayerCount reports the number of roster members still tracked by the
// session, for admin `info`/`list` output.
func (s *Session) PlayerCount() int { return len(s.players) }

// Advance steps every system once, checks the victory/defeat condition,
// then appends one snapshot event per roster member covering every
// still-replicated entity. Called by the dispatcher's single tick loop
// (or one of its sharded workers); never called concurrently for the
// same session.
func (s *Session) Advance(dt time.Duration) {
	if s.state != Running {
		return
	}
	s.scheduler.Tick(dt)
	s.ServerTick++

	alive := 0
	for _, ps := range s.players {
		if s.world.Alive(ps.entity) {
			alive++
		}
	}
	switch {
	case alive == 0:
		s.End(protocol.GameOverDefeat)
		return
	case s.Kind == KindBlob && len(s.players) > 1 && alive == 1:
		// Last blob standing.
		s.End(protocol.GameOverVictory)
		return
	}

	s.queueSnapshot()
}

// DrainOutbound returns and clears the session's outbound queue. Must
// be called from the dispatcher's tick thread after Advance, never
// concurrently with Advance.
func (s *Session) DrainOutbound() []OutboundEvent {
	out := s.outbound
	s.outbound = nil
	return out
}

// End transitions the session to Ending and queues one game_over event;
// the session manager destroys it after the dispatcher has had a chance
// to broadcast that event.
func (s *Session) End(reason uint8) {
	if s.state == Ending {
		return
	}
	s.state = Ending

	s.finalScores = make(map[uint32]int32, len(s.players))
	scores := make([]protocol.ScoreUpdatePayload, 0, len(s.players))
	for playerID, ps := range s.players {
		sc, _ := s.scores.Get(ps.entity)
		s.finalScores[playerID] = sc.Value
		scores = append(scores, protocol.ScoreUpdatePayload{PlayerID: playerID, Score: sc.Value})
	}
	s.enqueue(protocol.TypeGameOver, true, protocol.EncodeGameOver(protocol.GameOverPayload{Reason: reason, Scores: scores}))
}

// FinalScores reports each remaining roster member's score at the
// moment the session ended, for leaderboard submission. Nil until End
// has run.
func (s *Session) FinalScores() map[uint32]int32 { return s.finalScores }

func (s *Session) enqueue(t protocol.PacketType, reliable bool, payload []byte) {
	s.outbound = append(s.outbound, OutboundEvent{Type: t, Reliable: reliable, Payload: payload})
}

func (s *Session) queueSnapshot() {
	ids, records := s.networkIDs.All()
	entities := make([]protocol.EntityState, 0, len(ids))
	var subtypes []protocol.EntitySubtype
	if s.Kind == KindBlob {
		subtypes = make([]protocol.EntitySubtype, 0, len(ids))
	}

	for i, netID := range records {
		e := ids[i]
		pos, _ := s.positions.Get(e)
		vel, _ := s.velocities.Get(e)
		health, _ := s.healths.Get(e)

		entities = append(entities, protocol.EntityState{
			EntityID:  uint32(netID.ID),
			PositionX: float32(pos.X),
			PositionY: float32(pos.Y),
			VelocityX: int16(vel.X * 10),
			VelocityY: int16(vel.Y * 10),
			Health:    uint16(health.Current),
			Type:      s.entityKind(e),
		})
		if s.Kind == KindBlob {
			radius, _ := s.blobRadii.Get(e)
			owner, _ := s.blobOwners.Get(e)
			subtypes = append(subtypes, protocol.EntitySubtype{Radius: float32(radius.Radius), Owner: owner.PlayerID})
		}
	}

	// Each member gets their own copy carrying their own input
	// acknowledgement; a shared broadcast would hand player A player B's
	// sequence number and wreck A's reconciliation.
	for playerID, ps := range s.players {
		payload := protocol.EncodeSnapshot(protocol.SnapshotPayload{
			ServerTick:                 s.ServerTick,
			LastProcessedInputSequence: ps.lastProcessedInputSequence,
			Entities:                   entities,
			Subtypes:                   subtypes,
		})
		s.outbound = append(s.outbound, OutboundEvent{Type: protocol.TypeSnapshot, Reliable: false, Recipient: playerID, Payload: payload})
	}
}

// entityKind infers the wire EntityKind tag from the entity's role
// tags. The server keeps this to one place rather than tagging every
// spawn site with its own wire-facing enum value.
func (s *Session) entityKind(e ecs.EntityID) protocol.EntityKind {
	switch {
	case s.Kind == KindBlob:
		return protocol.EntityKindBlob
	case s.enemyTags.Has(e):
		return protocol.EntityKindEnemy
	case s.projectileTags.Has(e):
		return protocol.EntityKindProjectile
	default:
		return protocol.EntityKindPlayer
	}
}

func (s *Session) subscribeReplicationEvents() {
	ecs.Subscribe(s.bus, func(ev systems.SpawnedEvent) {
		netID, ok := s.networkIDs.Get(ev.Entity)
		if !ok {
			return
		}
		pos, _ := s.positions.Get(ev.Entity)
		health, _ := s.healths.Get(ev.Entity)
		state := protocol.EntityState{
			EntityID:  uint32(netID.ID),
			PositionX: float32(pos.X),
			PositionY: float32(pos.Y),
			Health:    uint16(health.Current),
			Type:      ev.Kind,
		}
		s.enqueue(protocol.TypeEntitySpawn, true, protocol.EncodeEntitySpawn(protocol.EntitySpawnPayload{State: state}))
	})

	ecs.Subscribe(s.bus, func(ev systems.DestroyedEvent) {
		s.enqueue(protocol.TypeEntityDestroy, true, protocol.EncodeEntityDestroy(protocol.EntityDestroyPayload{EntityID: uint32(ev.Entity)}))
	})

	ecs.Subscribe(s.bus, func(ev systems.ProjectileSpawnedEvent) {
		netID, ok := s.networkIDs.Get(ev.Entity)
		if !ok {
			return
		}
		pos, _ := s.positions.Get(ev.Entity)
		vel, _ := s.velocities.Get(ev.Entity)
		state := protocol.EntityState{
			EntityID:  uint32(netID.ID),
			PositionX: float32(pos.X),
			PositionY: float32(pos.Y),
			VelocityX: int16(vel.X * 10),
			VelocityY: int16(vel.Y * 10),
			Type:      protocol.EntityKindProjectile,
		}
		ownerNet, _ := s.networkIDs.Get(ev.Owner)
		s.enqueue(protocol.TypeProjectileSpawn, true, protocol.EncodeProjectileSpawn(protocol.ProjectileSpawnPayload{State: state, OwnerID: uint32(ownerNet.ID)}))
	})

	ecs.Subscribe(s.bus, func(ev systems.ExplosionEvent) {
		s.enqueue(protocol.TypeExplosion, true, protocol.EncodeExplosion(protocol.ExplosionPayload{X: float32(ev.X), Y: float32(ev.Y), Kind: ev.Kind}))
	})

	ecs.Subscribe(s.bus, func(ev systems.WaveStartedEvent) {
		s.enqueue(protocol.TypeWaveStart, true, protocol.EncodeWaveStart(protocol.WaveStartPayload{WaveIndex: ev.WaveIndex, EnemyCount: ev.EnemyCount}))
	})

	ecs.Subscribe(s.bus, func(ev systems.WaveCompletedEvent) {
		s.enqueue(protocol.TypeWaveComplete, true, protocol.EncodeWaveComplete(protocol.WaveCompletePayload{WaveIndex: ev.WaveIndex}))
	})

	ecs.Subscribe(s.bus, func(ev systems.ScoreChangedEvent) {
		s.enqueue(protocol.TypeScoreUpdate, true, protocol.EncodeScoreUpdate(protocol.ScoreUpdatePayload{PlayerID: ev.PlayerID, Score: ev.Score}))
	})

	ecs.Subscribe(s.bus, func(ev systems.PlayerEatenEvent) {
		s.enqueue(protocol.TypePlayerEaten, true, protocol.EncodePlayerEaten(protocol.PlayerEatenPayload{EatenPlayerID: ev.EatenPlayerID, EaterPlayerID: ev.EaterPlayerID}))
	})
}
