package protocol

// PacketType is the closed tagged union of packet type tags. Values
// below 0x40 are client->server, 0x40-0xBF are server->client, 0xFF is
// reserved for a generic error/reject carrier.
type PacketType uint8

const (
	// Client -> Server
	TypeConnect PacketType = iota + 1
	TypeDisconnect
	TypePing
	TypeJoinLobby
	TypeLeaveLobby
	TypeCreateRoom
	TypeJoinRoom
	TypeLeaveRoom
	TypeRequestRoomList
	TypeStartGame
	TypeSetPlayerName
	TypeSetPlayerSkin
	TypeUDPHandshake
	TypeInput
)

const (
	// Server -> Client
	TypeAccept PacketType = iota + 0x40
	TypeReject
	TypePong
	TypeLobbyState
	TypeCountdown
	TypeGameStart
	TypeEntitySpawn
	TypeEntityDestroy
	TypeProjectileSpawn
	TypeExplosion
	TypeSnapshot
	TypeWaveStart
	TypeWaveComplete
	TypeScoreUpdate
	TypeGameOver
	TypeRoomCreated
	TypeRoomJoined
	TypeRoomLeft
	TypeRoomList
	TypeRoomError
	TypePlayerNameUpdated
	TypePlayerSkinUpdated
	TypePlayerSkin
	TypePlayerEaten
	TypeGlobalLeaderboard
)

// Valid reports whether t is a recognized packet type.
func (t PacketType) Valid() bool {
	switch t {
	case TypeConnect, TypeDisconnect, TypePing, TypeJoinLobby, TypeLeaveLobby,
		TypeCreateRoom, TypeJoinRoom, TypeLeaveRoom, TypeRequestRoomList,
		TypeStartGame, TypeSetPlayerName, TypeSetPlayerSkin, TypeUDPHandshake,
		TypeInput,
		TypeAccept, TypeReject, TypePong, TypeLobbyState, TypeCountdown,
		TypeGameStart, TypeEntitySpawn, TypeEntityDestroy, TypeProjectileSpawn,
		TypeExplosion, TypeSnapshot, TypeWaveStart, TypeWaveComplete,
		TypeScoreUpdate, TypeGameOver, TypeRoomCreated, TypeRoomJoined,
		TypeRoomLeft, TypeRoomList, TypeRoomError, TypePlayerNameUpdated,
		TypePlayerSkinUpdated, TypePlayerSkin, TypePlayerEaten,
		TypeGlobalLeaderboard:
		return true
	default:
		return false
	}
}

// RejectReason enumerates the wire rejection codes.
type RejectReason uint8

const (
	ReasonServerFull RejectReason = iota + 1
	ReasonVersionMismatch
	ReasonDuplicateName
	ReasonInternalError
)

// RoomErrorReason enumerates room-manager rejection codes.
type RoomErrorReason uint8

const (
	RoomErrorWrongPassword RoomErrorReason = iota + 1
	RoomErrorRoomFull
	RoomErrorRoomNotFound
	RoomErrorRoomInProgress
	RoomErrorAlreadyInLobby
)

// GameOverReason tags the GameOverPayload.Reason byte.
const (
	GameOverDefeat uint8 = iota
	GameOverVictory
	GameOverShutdown
)

// EntityFlags packs boolean entity state into the EntityState.Flags byte.
type EntityFlags uint8

const (
	EntityFlagExploded EntityFlags = 1 << iota
	EntityFlagInvulnerable
	EntityFlagShielded
)

// EntityKind tags the EntityState.Type byte so clients can pick a sprite
// without a second lookup.
type EntityKind uint8

const (
	EntityKindPlayer EntityKind = iota
	EntityKindEnemy
	EntityKindProjectile
	EntityKindWall
	EntityKindPowerup
	EntityKindBlob
)
