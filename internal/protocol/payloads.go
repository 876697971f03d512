package protocol

// EntityState is the per-entity replication record carried inside a
// Snapshot. Fixed 20 bytes: entity_id(4) position_x(4f) position_y(4f)
// velocity_x(2i fixed/10) velocity_y(2i fixed/10) health(2) flags(1) type(1).
type EntityState struct {
	EntityID   uint32
	PositionX  float32
	PositionY  float32
	VelocityX  int16 // fixed-point, real value * 10
	VelocityY  int16
	Health     uint16
	Flags      EntityFlags
	Type       EntityKind
}

const entityStateSize = 4 + 4 + 4 + 2 + 2 + 2 + 1 + 1 // 20

// EntitySubtype is the optional blob-game extension block (radius,
// owning player) appended to EntityState when a session's game mode is
// the blob game. 8 bytes: radius(4f) owner(4).
type EntitySubtype struct {
	Radius float32
	Owner  uint32
}

const entitySubtypeSize = 4 + 4 // 8

// LeaderboardEntry is one row of the global leaderboard, name(32
// null-padded), score(4), timestamp(4).
type LeaderboardEntry struct {
	Name      string
	Score     uint32
	Timestamp uint32
}

const leaderboardEntrySize = 32 + 4 + 4 // 40

// ConnectPayload carries the client's requested display name.
type ConnectPayload struct {
	Name string
}

// AcceptPayload is sent in reply to a successful CONNECT.
type AcceptPayload struct {
	AssignedPlayerID uint32
	MapWidth         float32
	MapHeight        float32
}

// RejectPayload carries a rejection reason code and human-readable
// message (64 bytes, null-padded ASCII).
type RejectPayload struct {
	Reason  RejectReason
	Message string
}

// PingPayload / PongPayload echo a client timestamp for RTT measurement.
type PingPayload struct{ Timestamp uint32 }
type PongPayload struct{ Timestamp uint32 }

// JoinLobbyPayload requests matchmaking for a mode/difficulty pair.
type JoinLobbyPayload struct {
	Mode       uint8
	Difficulty uint8
}

// LobbyStatePayload reports current/target lobby fullness to members.
type LobbyStatePayload struct {
	LobbyID     uint32
	Mode        uint8
	Difficulty  uint8
	Current     uint8
	Max         uint8
}

// CountdownPayload reports remaining seconds before a lobby/room starts.
type CountdownPayload struct {
	SecondsRemaining uint8
}

// GameStartPayload announces the session a lobby/room has been promoted
// into. YourEntityID is the recipient's own replicated entity, the one
// piece of the entity table a client cannot learn from snapshots alone.
type GameStartPayload struct {
	SessionID    uint32
	MapID        uint32
	YourEntityID uint32
}

// EntitySpawnPayload announces a newly replicated entity and its initial
// state.
type EntitySpawnPayload struct {
	State EntityState
}

// EntityDestroyPayload announces an entity leaving replication.
type EntityDestroyPayload struct {
	EntityID uint32
}

// ProjectileSpawnPayload announces a projectile fired by an owner entity.
type ProjectileSpawnPayload struct {
	State   EntityState
	OwnerID uint32
}

// ExplosionPayload announces a visual-only explosion effect at a point.
type ExplosionPayload struct {
	X, Y float32
	Kind uint8
}

// SnapshotPayload is the periodic full replicated-entity broadcast.
type SnapshotPayload struct {
	ServerTick                uint32
	LastProcessedInputSequence uint32
	Entities                  []EntityState
	Subtypes                  []EntitySubtype // len(Subtypes) == len(Entities) or 0
}

// WaveStartPayload / WaveCompletePayload bracket one enemy wave.
type WaveStartPayload struct {
	WaveIndex     uint32
	EnemyCount    uint32
}
type WaveCompletePayload struct {
	WaveIndex uint32
}

// ScoreUpdatePayload reports a player's new score total.
type ScoreUpdatePayload struct {
	PlayerID uint32
	Score    int32
}

// GameOverPayload announces session end and the final standings.
type GameOverPayload struct {
	Reason  uint8
	Scores  []ScoreUpdatePayload
}

// CreateRoomPayload requests a new custom room.
type CreateRoomPayload struct {
	Name          string
	PasswordHash  string
	Mode          uint8
	Difficulty    uint8
	MapID         uint32
	MaxPlayers    uint8
}

// JoinRoomPayload requests joining an existing custom room.
type JoinRoomPayload struct {
	RoomID       uint32
	PasswordHash string
}

// RequestRoomListPayload carries no fields; kept as a distinct type for
// symmetry with the rest of the catalogue.
type RequestRoomListPayload struct{}

// StartGamePayload requests the host start their room's game.
type StartGamePayload struct {
	RoomID uint32
}

// RoomCreatedPayload / RoomJoinedPayload acknowledge room operations.
type RoomCreatedPayload struct {
	RoomID       uint32
	HostPlayerID uint32
}
type RoomJoinedPayload struct {
	RoomID       uint32
	HostPlayerID uint32
	YourPlayerID uint32
}

// RoomLeftPayload acknowledges a LEAVE_ROOM.
type RoomLeftPayload struct{ RoomID uint32 }

// RoomSummary is one entry of a RoomListPayload.
type RoomSummary struct {
	RoomID      uint32
	Name        string
	Current     uint8
	Max         uint8
	Mode        uint8
	Difficulty  uint8
}

// RoomListPayload enumerates public, waiting rooms.
type RoomListPayload struct {
	Rooms []RoomSummary
}

// RoomErrorPayload carries a room-manager rejection reason.
type RoomErrorPayload struct {
	Reason  RoomErrorReason
	Message string
}

// SetPlayerNamePayload / SetPlayerSkinPayload request a profile change.
type SetPlayerNamePayload struct{ Name string }
type SetPlayerSkinPayload struct{ Skin uint8 }

// PlayerNameUpdatedPayload / PlayerSkinUpdatedPayload broadcast the
// result of a profile change to lobby/room members.
type PlayerNameUpdatedPayload struct {
	PlayerID uint32
	Name     string
}
type PlayerSkinUpdatedPayload struct {
	PlayerID uint32
	Skin     uint8
}

// PlayerSkinPayload announces one player's current skin, used when a
// new member joins and needs every existing member's skin.
type PlayerSkinPayload struct {
	PlayerID uint32
	Skin     uint8
}

// PlayerEatenPayload is the blob-game analogue of EntityDestroy: a
// player entity was consumed by another.
type PlayerEatenPayload struct {
	EatenPlayerID uint32
	EaterPlayerID uint32
}

// UDPHandshakePayload associates a peer's unreliable identity with its
// reliable client_id, scoped to one session.
type UDPHandshakePayload struct {
	SessionID uint32
	PlayerID  uint32
}

// InputPayload carries one tick's worth of player intent.
type InputPayload struct {
	PlayerID        uint32
	InputFlags      uint16
	Sequence        uint32
	ClientTimestamp uint32
}

// GlobalLeaderboardPayload carries the full (<=10 entry) leaderboard.
type GlobalLeaderboardPayload struct {
	Entries []LeaderboardEntry
}

// DisconnectPayload carries no fields; the packet type alone is the
// signal.
type DisconnectPayload struct{}

// LeaveLobbyPayload / LeaveRoomPayload carry no fields.
type LeaveLobbyPayload struct{}
type LeaveRoomPayload struct{}
