// Package systems implements the concrete gameplay systems shared by the
// side-scroller and blob game, operating on the ECS defined in
// internal/ecs. Each system publishes one event per replicated mutation
// on the world's event bus; internal/session subscribes to these to
// build its outbound replication queue.
package systems

import (
	"github.com/rtype/arcade/internal/ecs"
	"github.com/rtype/arcade/internal/protocol"
)

// SpawnedEvent announces a newly created replicated entity. Kind is the
// wire tag clients pick a sprite by; the spawner sets it because only
// the spawner knows what it just created.
type SpawnedEvent struct {
	Entity ecs.EntityID
	Kind   protocol.EntityKind
}

// DestroyedEvent announces an entity leaving replication.
type DestroyedEvent struct {
	Entity ecs.EntityID
}

// ProjectileSpawnedEvent announces a projectile fired by an owner entity.
type ProjectileSpawnedEvent struct {
	Entity ecs.EntityID
	Owner  ecs.EntityID
}

// ExplosionEvent announces a visual-only effect at a point; Kind is a
// backend-defined style tag.
type ExplosionEvent struct {
	X, Y float64
	Kind uint8
}

// WaveStartedEvent / WaveCompletedEvent bracket one enemy wave.
type WaveStartedEvent struct {
	WaveIndex  uint32
	EnemyCount uint32
}
type WaveCompletedEvent struct {
	WaveIndex uint32
}

// ScoreChangedEvent reports a player's new score total.
type ScoreChangedEvent struct {
	PlayerID uint32
	Score    int32
}

// PlayerEatenEvent is the blob-game analogue of DestroyedEvent.
type PlayerEatenEvent struct {
	EatenPlayerID uint32
	EaterPlayerID uint32
}

// GameOverEvent signals the session's victory/defeat condition fired.
type GameOverEvent struct {
	Reason uint8
}

// EnemyKilledEvent is an internal (non-replicated) event: it carries the
// killing entity so ScoreSystem can award points without CollisionSystem
// needing to know anything about scoring rules.
type EnemyKilledEvent struct {
	Killer ecs.EntityID
}
