package ecs

// Position is the entity's world-space location.
type Position struct{ X, Y float64 }

// Velocity is the entity's current linear velocity in units/second.
type Velocity struct{ X, Y float64 }

// Collider is an axis-aligned bounding box used by collision systems.
type Collider struct{ W, H float64 }

// Health tracks current and maximum hit points.
type Health struct{ Current, Max int32 }

// Score is the player's current point total.
type Score struct{ Value int32 }

// TextureHandle identifies a backend-owned texture resource. Opaque to
// the server; only the graphics backend interprets it.
type TextureHandle uint32

// Sprite is consumed only by the rendering backend; the server carries
// it through replication but never reads it.
type Sprite struct {
	Texture  TextureHandle
	W, H     float64
	Rotation float64
	Tint     uint32
	Layer    int16
}

// InputFlags is a bitfield snapshot of a player's intent for one tick.
type InputFlags uint16

const (
	InputUp InputFlags = 1 << iota
	InputDown
	InputLeft
	InputRight
	InputShoot
	InputCharge
	InputSpecial
)

// Input is the latest input snapshot integrated by movement/shooting
// systems during the tick it arrives in.
type Input struct {
	Flags    InputFlags
	Sequence uint32
}

// NetworkID is the entity_id exposed on the wire; normally equal to the
// EntityID itself, kept distinct so replication code never has to special
// case entities that intentionally share no network identity (e.g.
// purely server-local bookkeeping entities, if any are ever added).
type NetworkID struct{ ID EntityID }

// Role tag markers. Presence, not value, carries meaning; all are
// zero-size.
type (
	Player     struct{}
	Enemy      struct{}
	Projectile struct{}
	Wall       struct{}
	Powerup    struct{}
	LocalPlayer struct{}
	Scrollable struct{}
	ToDestroy  struct{}
)

// HitFlash marks an entity as currently flashing from a recent hit.
type HitFlash struct{ RemainingTicks int32 }

// Invulnerability marks an entity immune to damage for a duration.
type Invulnerability struct{ RemainingTicks int32 }

// Shield absorbs damage until its charge is depleted.
type Shield struct{ Charge int32 }

// SpeedBoost temporarily multiplies movement speed.
type SpeedBoost struct {
	Multiplier     float64
	RemainingTicks int32
}

// Attached links an entity to a parent by id with a fixed offset,
// optionally smoothed. The link is an EntityID, resolved through the
// world each tick rather than stored as a pointer.
type Attached struct {
	Parent   EntityID
	OffsetX  float64
	OffsetY  float64
	Smooth   bool
}

// WaveController drives enemy wave spawning/advancement for the R-Type
// side-scroller.
type WaveController struct {
	WaveIndex      int32
	EnemiesRemaining int32
	NextSpawnTick  uint64
}

// GamePhase enumerates the coarse state of a running game.
type GamePhase int

const (
	PhaseWaiting GamePhase = iota
	PhaseRunning
	PhaseGameOver
)

// GameState is a singleton-ish component (attached to one controller
// entity per session) tracking overall game phase.
type GameState struct {
	Phase GamePhase
}

// BonusWeapon marks a temporary weapon upgrade pickup or equip state.
type BonusWeapon struct {
	Kind           int32
	RemainingTicks int32
}

// BlobRadius is the blob-game analogue of Collider: a circular extent
// that also determines eat/be-eaten ordering.
type BlobRadius struct{ Radius float64 }

// BlobOwner records which player color/skin a blob-game cell belongs to,
// for client-side rendering and the player_eaten event payload.
type BlobOwner struct{ PlayerID uint32 }
