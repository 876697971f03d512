package protocol

import (
	"encoding/binary"
	"math"
)

func putFloat32LE(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func getFloat32LE(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

// putPadded writes s into a fixed-width, null-padded field, truncating
// if s is longer than width.
func putPadded(buf []byte, s string, width int) {
	n := copy(buf[:width], s)
	for i := n; i < width; i++ {
		buf[i] = 0
	}
}

func getPadded(buf []byte) string {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

// putVarString appends a 1-byte length prefix followed by s's bytes,
// truncating to 255 bytes.
func putVarString(buf []byte, s string) []byte {
	b := []byte(s)
	if len(b) > 255 {
		b = b[:255]
	}
	buf = append(buf, uint8(len(b)))
	buf = append(buf, b...)
	return buf
}

func getVarString(buf []byte) (string, []byte, error) {
	if len(buf) < 1 {
		return "", nil, ErrTruncated
	}
	n := int(buf[0])
	if len(buf) < 1+n {
		return "", nil, ErrTruncated
	}
	return string(buf[1 : 1+n]), buf[1+n:], nil
}

// EncodeEntityState writes one EntityState record (20 bytes) to buf,
// which must be at least entityStateSize long.
func EncodeEntityState(buf []byte, s EntityState) {
	binary.BigEndian.PutUint32(buf[0:4], s.EntityID)
	putFloat32LE(buf[4:8], s.PositionX)
	putFloat32LE(buf[8:12], s.PositionY)
	binary.BigEndian.PutUint16(buf[12:14], uint16(s.VelocityX))
	binary.BigEndian.PutUint16(buf[14:16], uint16(s.VelocityY))
	binary.BigEndian.PutUint16(buf[16:18], s.Health)
	buf[18] = uint8(s.Flags)
	buf[19] = uint8(s.Type)
}

// DecodeEntityState reads one EntityState record from buf.
func DecodeEntityState(buf []byte) EntityState {
	return EntityState{
		EntityID:  binary.BigEndian.Uint32(buf[0:4]),
		PositionX: getFloat32LE(buf[4:8]),
		PositionY: getFloat32LE(buf[8:12]),
		VelocityX: int16(binary.BigEndian.Uint16(buf[12:14])),
		VelocityY: int16(binary.BigEndian.Uint16(buf[14:16])),
		Health:    binary.BigEndian.Uint16(buf[16:18]),
		Flags:     EntityFlags(buf[18]),
		Type:      EntityKind(buf[19]),
	}
}

// EncodeEntitySubtype writes the 8-byte blob-game extension block.
func EncodeEntitySubtype(buf []byte, s EntitySubtype) {
	putFloat32LE(buf[0:4], s.Radius)
	binary.BigEndian.PutUint32(buf[4:8], s.Owner)
}

// DecodeEntitySubtype reads the 8-byte blob-game extension block.
func DecodeEntitySubtype(buf []byte) EntitySubtype {
	return EntitySubtype{
		Radius: getFloat32LE(buf[0:4]),
		Owner:  binary.BigEndian.Uint32(buf[4:8]),
	}
}

// EncodeLeaderboardEntry writes one 40-byte leaderboard row.
func EncodeLeaderboardEntry(buf []byte, e LeaderboardEntry) {
	putPadded(buf[0:32], e.Name, 32)
	binary.BigEndian.PutUint32(buf[32:36], e.Score)
	binary.BigEndian.PutUint32(buf[36:40], e.Timestamp)
}

// DecodeLeaderboardEntry reads one 40-byte leaderboard row.
func DecodeLeaderboardEntry(buf []byte) LeaderboardEntry {
	return LeaderboardEntry{
		Name:      getPadded(buf[0:32]),
		Score:     binary.BigEndian.Uint32(buf[32:36]),
		Timestamp: binary.BigEndian.Uint32(buf[36:40]),
	}
}

// EncodeConnect encodes a CONNECT payload.
func EncodeConnect(p ConnectPayload) []byte {
	return putVarString(nil, p.Name)
}

// DecodeConnect decodes a CONNECT payload.
func DecodeConnect(buf []byte) (ConnectPayload, error) {
	name, _, err := getVarString(buf)
	if err != nil {
		return ConnectPayload{}, err
	}
	return ConnectPayload{Name: name}, nil
}

// EncodeAccept encodes an ACCEPT payload (12 bytes).
func EncodeAccept(p AcceptPayload) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:4], p.AssignedPlayerID)
	putFloat32LE(buf[4:8], p.MapWidth)
	putFloat32LE(buf[8:12], p.MapHeight)
	return buf
}

// DecodeAccept decodes an ACCEPT payload.
func DecodeAccept(buf []byte) (AcceptPayload, error) {
	if len(buf) < 12 {
		return AcceptPayload{}, ErrTruncated
	}
	return AcceptPayload{
		AssignedPlayerID: binary.BigEndian.Uint32(buf[0:4]),
		MapWidth:         getFloat32LE(buf[4:8]),
		MapHeight:        getFloat32LE(buf[8:12]),
	}, nil
}

// EncodeReject encodes a REJECT payload: reason(1) + message(64,
// null-padded).
func EncodeReject(p RejectPayload) []byte {
	buf := make([]byte, 65)
	buf[0] = uint8(p.Reason)
	putPadded(buf[1:65], p.Message, 64)
	return buf
}

// DecodeReject decodes a REJECT payload.
func DecodeReject(buf []byte) (RejectPayload, error) {
	if len(buf) < 65 {
		return RejectPayload{}, ErrTruncated
	}
	return RejectPayload{
		Reason:  RejectReason(buf[0]),
		Message: getPadded(buf[1:65]),
	}, nil
}

// EncodePing / EncodePong encode a 4-byte timestamp payload.
func EncodePing(p PingPayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.Timestamp)
	return buf
}
func DecodePing(buf []byte) (PingPayload, error) {
	if len(buf) < 4 {
		return PingPayload{}, ErrTruncated
	}
	return PingPayload{Timestamp: binary.BigEndian.Uint32(buf)}, nil
}
func EncodePong(p PongPayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.Timestamp)
	return buf
}
func DecodePong(buf []byte) (PongPayload, error) {
	if len(buf) < 4 {
		return PongPayload{}, ErrTruncated
	}
	return PongPayload{Timestamp: binary.BigEndian.Uint32(buf)}, nil
}

// EncodeJoinLobby encodes a JOIN_LOBBY payload (2 bytes).
func EncodeJoinLobby(p JoinLobbyPayload) []byte {
	return []byte{p.Mode, p.Difficulty}
}
func DecodeJoinLobby(buf []byte) (JoinLobbyPayload, error) {
	if len(buf) < 2 {
		return JoinLobbyPayload{}, ErrTruncated
	}
	return JoinLobbyPayload{Mode: buf[0], Difficulty: buf[1]}, nil
}

// EncodeLobbyState encodes a LOBBY_STATE payload (8 bytes).
func EncodeLobbyState(p LobbyStatePayload) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], p.LobbyID)
	buf[4] = p.Mode
	buf[5] = p.Difficulty
	buf[6] = p.Current
	buf[7] = p.Max
	return buf
}
func DecodeLobbyState(buf []byte) (LobbyStatePayload, error) {
	if len(buf) < 8 {
		return LobbyStatePayload{}, ErrTruncated
	}
	return LobbyStatePayload{
		LobbyID:    binary.BigEndian.Uint32(buf[0:4]),
		Mode:       buf[4],
		Difficulty: buf[5],
		Current:    buf[6],
		Max:        buf[7],
	}, nil
}

// EncodeCountdown / DecodeCountdown encode a 1-byte seconds-remaining
// payload.
func EncodeCountdown(p CountdownPayload) []byte {
	return []byte{p.SecondsRemaining}
}
func DecodeCountdown(buf []byte) (CountdownPayload, error) {
	if len(buf) < 1 {
		return CountdownPayload{}, ErrTruncated
	}
	return CountdownPayload{SecondsRemaining: buf[0]}, nil
}

// EncodeGameStart / DecodeGameStart.
func EncodeGameStart(p GameStartPayload) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:4], p.SessionID)
	binary.BigEndian.PutUint32(buf[4:8], p.MapID)
	binary.BigEndian.PutUint32(buf[8:12], p.YourEntityID)
	return buf
}
func DecodeGameStart(buf []byte) (GameStartPayload, error) {
	if len(buf) < 12 {
		return GameStartPayload{}, ErrTruncated
	}
	return GameStartPayload{
		SessionID:    binary.BigEndian.Uint32(buf[0:4]),
		MapID:        binary.BigEndian.Uint32(buf[4:8]),
		YourEntityID: binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}

// EncodeEntitySpawn / DecodeEntitySpawn wrap a single EntityState.
func EncodeEntitySpawn(p EntitySpawnPayload) []byte {
	buf := make([]byte, entityStateSize)
	EncodeEntityState(buf, p.State)
	return buf
}
func DecodeEntitySpawn(buf []byte) (EntitySpawnPayload, error) {
	if len(buf) < entityStateSize {
		return EntitySpawnPayload{}, ErrTruncated
	}
	return EntitySpawnPayload{State: DecodeEntityState(buf)}, nil
}

// EncodeEntityDestroy / DecodeEntityDestroy wrap a single entity id.
func EncodeEntityDestroy(p EntityDestroyPayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.EntityID)
	return buf
}
func DecodeEntityDestroy(buf []byte) (EntityDestroyPayload, error) {
	if len(buf) < 4 {
		return EntityDestroyPayload{}, ErrTruncated
	}
	return EntityDestroyPayload{EntityID: binary.BigEndian.Uint32(buf)}, nil
}

// EncodeProjectileSpawn / DecodeProjectileSpawn wrap an EntityState plus
// the firing entity's id.
func EncodeProjectileSpawn(p ProjectileSpawnPayload) []byte {
	buf := make([]byte, entityStateSize+4)
	EncodeEntityState(buf[:entityStateSize], p.State)
	binary.BigEndian.PutUint32(buf[entityStateSize:], p.OwnerID)
	return buf
}
func DecodeProjectileSpawn(buf []byte) (ProjectileSpawnPayload, error) {
	if len(buf) < entityStateSize+4 {
		return ProjectileSpawnPayload{}, ErrTruncated
	}
	return ProjectileSpawnPayload{
		State:   DecodeEntityState(buf[:entityStateSize]),
		OwnerID: binary.BigEndian.Uint32(buf[entityStateSize:]),
	}, nil
}

// EncodeExplosion / DecodeExplosion encode a point-effect payload.
func EncodeExplosion(p ExplosionPayload) []byte {
	buf := make([]byte, 9)
	putFloat32LE(buf[0:4], p.X)
	putFloat32LE(buf[4:8], p.Y)
	buf[8] = p.Kind
	return buf
}
func DecodeExplosion(buf []byte) (ExplosionPayload, error) {
	if len(buf) < 9 {
		return ExplosionPayload{}, ErrTruncated
	}
	return ExplosionPayload{
		X:    getFloat32LE(buf[0:4]),
		Y:    getFloat32LE(buf[4:8]),
		Kind: buf[8],
	}, nil
}

// snapshotHeaderSize is server_tick(4) + last_processed_input_sequence(4)
// + entity_count(2).
const snapshotHeaderSize = 4 + 4 + 2

// EncodeSnapshot encodes a SNAPSHOT payload. When p.Subtypes is non-nil
// it must be the same length as p.Entities and each entity gets its
// blob-game extension block appended immediately after its EntityState.
func EncodeSnapshot(p SnapshotPayload) []byte {
	withSubtype := len(p.Subtypes) == len(p.Entities) && len(p.Subtypes) > 0
	entrySize := entityStateSize
	if withSubtype {
		entrySize += entitySubtypeSize
	}
	buf := make([]byte, snapshotHeaderSize+len(p.Entities)*entrySize)
	binary.BigEndian.PutUint32(buf[0:4], p.ServerTick)
	binary.BigEndian.PutUint32(buf[4:8], p.LastProcessedInputSequence)
	binary.BigEndian.PutUint16(buf[8:10], uint16(len(p.Entities)))

	off := snapshotHeaderSize
	for i, e := range p.Entities {
		EncodeEntityState(buf[off:off+entityStateSize], e)
		off += entityStateSize
		if withSubtype {
			EncodeEntitySubtype(buf[off:off+entitySubtypeSize], p.Subtypes[i])
			off += entitySubtypeSize
		}
	}
	return buf
}

// DecodeSnapshot decodes a SNAPSHOT payload. withSubtype must match the
// session's game mode the caller already knows; the wire format itself
// carries no extra discriminator.
func DecodeSnapshot(buf []byte, withSubtype bool) (SnapshotPayload, error) {
	if len(buf) < snapshotHeaderSize {
		return SnapshotPayload{}, ErrTruncated
	}
	p := SnapshotPayload{
		ServerTick:                 binary.BigEndian.Uint32(buf[0:4]),
		LastProcessedInputSequence: binary.BigEndian.Uint32(buf[4:8]),
	}
	count := int(binary.BigEndian.Uint16(buf[8:10]))
	entrySize := entityStateSize
	if withSubtype {
		entrySize += entitySubtypeSize
	}
	rest := buf[snapshotHeaderSize:]
	if len(rest) != count*entrySize {
		return SnapshotPayload{}, ErrCountMismatch
	}
	p.Entities = make([]EntityState, count)
	if withSubtype {
		p.Subtypes = make([]EntitySubtype, count)
	}
	off := 0
	for i := 0; i < count; i++ {
		p.Entities[i] = DecodeEntityState(rest[off : off+entityStateSize])
		off += entityStateSize
		if withSubtype {
			p.Subtypes[i] = DecodeEntitySubtype(rest[off : off+entitySubtypeSize])
			off += entitySubtypeSize
		}
	}
	return p, nil
}

// EncodeWaveStart / DecodeWaveStart / EncodeWaveComplete / DecodeWaveComplete.
func EncodeWaveStart(p WaveStartPayload) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], p.WaveIndex)
	binary.BigEndian.PutUint32(buf[4:8], p.EnemyCount)
	return buf
}
func DecodeWaveStart(buf []byte) (WaveStartPayload, error) {
	if len(buf) < 8 {
		return WaveStartPayload{}, ErrTruncated
	}
	return WaveStartPayload{
		WaveIndex:  binary.BigEndian.Uint32(buf[0:4]),
		EnemyCount: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}
func EncodeWaveComplete(p WaveCompletePayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.WaveIndex)
	return buf
}
func DecodeWaveComplete(buf []byte) (WaveCompletePayload, error) {
	if len(buf) < 4 {
		return WaveCompletePayload{}, ErrTruncated
	}
	return WaveCompletePayload{WaveIndex: binary.BigEndian.Uint32(buf)}, nil
}

// EncodeScoreUpdate / DecodeScoreUpdate.
func EncodeScoreUpdate(p ScoreUpdatePayload) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], p.PlayerID)
	binary.BigEndian.PutUint32(buf[4:8], uint32(p.Score))
	return buf
}
func DecodeScoreUpdate(buf []byte) (ScoreUpdatePayload, error) {
	if len(buf) < 8 {
		return ScoreUpdatePayload{}, ErrTruncated
	}
	return ScoreUpdatePayload{
		PlayerID: binary.BigEndian.Uint32(buf[0:4]),
		Score:    int32(binary.BigEndian.Uint32(buf[4:8])),
	}, nil
}

// EncodeGameOver / DecodeGameOver. Layout: reason(1) count(1)
// ScoreUpdate[count].
func EncodeGameOver(p GameOverPayload) []byte {
	buf := make([]byte, 2+len(p.Scores)*8)
	buf[0] = p.Reason
	buf[1] = uint8(len(p.Scores))
	off := 2
	for _, s := range p.Scores {
		copy(buf[off:off+8], EncodeScoreUpdate(s))
		off += 8
	}
	return buf
}
func DecodeGameOver(buf []byte) (GameOverPayload, error) {
	if len(buf) < 2 {
		return GameOverPayload{}, ErrTruncated
	}
	count := int(buf[1])
	rest := buf[2:]
	if len(rest) != count*8 {
		return GameOverPayload{}, ErrCountMismatch
	}
	p := GameOverPayload{Reason: buf[0], Scores: make([]ScoreUpdatePayload, count)}
	for i := 0; i < count; i++ {
		s, err := DecodeScoreUpdate(rest[i*8 : i*8+8])
		if err != nil {
			return GameOverPayload{}, err
		}
		p.Scores[i] = s
	}
	return p, nil
}

// EncodeCreateRoom / DecodeCreateRoom. Layout: name(var) password_hash(var)
// mode(1) difficulty(1) map_id(4) max_players(1).
func EncodeCreateRoom(p CreateRoomPayload) []byte {
	buf := putVarString(nil, p.Name)
	buf = putVarString(buf, p.PasswordHash)
	buf = append(buf, p.Mode, p.Difficulty)
	tail := make([]byte, 5)
	binary.BigEndian.PutUint32(tail[0:4], p.MapID)
	tail[4] = p.MaxPlayers
	return append(buf, tail...)
}
func DecodeCreateRoom(buf []byte) (CreateRoomPayload, error) {
	name, rest, err := getVarString(buf)
	if err != nil {
		return CreateRoomPayload{}, err
	}
	hash, rest, err := getVarString(rest)
	if err != nil {
		return CreateRoomPayload{}, err
	}
	if len(rest) < 7 {
		return CreateRoomPayload{}, ErrTruncated
	}
	return CreateRoomPayload{
		Name:         name,
		PasswordHash: hash,
		Mode:         rest[0],
		Difficulty:   rest[1],
		MapID:        binary.BigEndian.Uint32(rest[2:6]),
		MaxPlayers:   rest[6],
	}, nil
}

// EncodeJoinRoom / DecodeJoinRoom. Layout: room_id(4) password_hash(var).
func EncodeJoinRoom(p JoinRoomPayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.RoomID)
	return putVarString(buf, p.PasswordHash)
}
func DecodeJoinRoom(buf []byte) (JoinRoomPayload, error) {
	if len(buf) < 4 {
		return JoinRoomPayload{}, ErrTruncated
	}
	hash, _, err := getVarString(buf[4:])
	if err != nil {
		return JoinRoomPayload{}, err
	}
	return JoinRoomPayload{
		RoomID:       binary.BigEndian.Uint32(buf[0:4]),
		PasswordHash: hash,
	}, nil
}

// EncodeStartGame / DecodeStartGame.
func EncodeStartGame(p StartGamePayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.RoomID)
	return buf
}
func DecodeStartGame(buf []byte) (StartGamePayload, error) {
	if len(buf) < 4 {
		return StartGamePayload{}, ErrTruncated
	}
	return StartGamePayload{RoomID: binary.BigEndian.Uint32(buf)}, nil
}

// EncodeRoomCreated / DecodeRoomCreated.
func EncodeRoomCreated(p RoomCreatedPayload) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], p.RoomID)
	binary.BigEndian.PutUint32(buf[4:8], p.HostPlayerID)
	return buf
}
func DecodeRoomCreated(buf []byte) (RoomCreatedPayload, error) {
	if len(buf) < 8 {
		return RoomCreatedPayload{}, ErrTruncated
	}
	return RoomCreatedPayload{
		RoomID:       binary.BigEndian.Uint32(buf[0:4]),
		HostPlayerID: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// EncodeRoomJoined / DecodeRoomJoined.
func EncodeRoomJoined(p RoomJoinedPayload) []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[0:4], p.RoomID)
	binary.BigEndian.PutUint32(buf[4:8], p.HostPlayerID)
	binary.BigEndian.PutUint32(buf[8:12], p.YourPlayerID)
	return buf
}
func DecodeRoomJoined(buf []byte) (RoomJoinedPayload, error) {
	if len(buf) < 12 {
		return RoomJoinedPayload{}, ErrTruncated
	}
	return RoomJoinedPayload{
		RoomID:       binary.BigEndian.Uint32(buf[0:4]),
		HostPlayerID: binary.BigEndian.Uint32(buf[4:8]),
		YourPlayerID: binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}

// EncodeRoomLeft / DecodeRoomLeft.
func EncodeRoomLeft(p RoomLeftPayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.RoomID)
	return buf
}
func DecodeRoomLeft(buf []byte) (RoomLeftPayload, error) {
	if len(buf) < 4 {
		return RoomLeftPayload{}, ErrTruncated
	}
	return RoomLeftPayload{RoomID: binary.BigEndian.Uint32(buf)}, nil
}

// EncodeRoomList / DecodeRoomList. Layout: count(2) then per-room
// room_id(4) current(1) max(1) mode(1) difficulty(1) name(var).
func EncodeRoomList(p RoomListPayload) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(len(p.Rooms)))
	for _, r := range p.Rooms {
		fixed := make([]byte, 8)
		binary.BigEndian.PutUint32(fixed[0:4], r.RoomID)
		fixed[4] = r.Current
		fixed[5] = r.Max
		fixed[6] = r.Mode
		fixed[7] = r.Difficulty
		buf = append(buf, fixed...)
		buf = putVarString(buf, r.Name)
	}
	return buf
}
func DecodeRoomList(buf []byte) (RoomListPayload, error) {
	if len(buf) < 2 {
		return RoomListPayload{}, ErrTruncated
	}
	count := int(binary.BigEndian.Uint16(buf[0:2]))
	rest := buf[2:]
	rooms := make([]RoomSummary, 0, count)
	for i := 0; i < count; i++ {
		if len(rest) < 8 {
			return RoomListPayload{}, ErrTruncated
		}
		r := RoomSummary{
			RoomID:     binary.BigEndian.Uint32(rest[0:4]),
			Current:    rest[4],
			Max:        rest[5],
			Mode:       rest[6],
			Difficulty: rest[7],
		}
		rest = rest[8:]
		name, remainder, err := getVarString(rest)
		if err != nil {
			return RoomListPayload{}, err
		}
		r.Name = name
		rest = remainder
		rooms = append(rooms, r)
	}
	if len(rest) != 0 {
		return RoomListPayload{}, ErrCountMismatch
	}
	return RoomListPayload{Rooms: rooms}, nil
}

// EncodeRoomError / DecodeRoomError.
func EncodeRoomError(p RoomErrorPayload) []byte {
	buf := []byte{uint8(p.Reason)}
	return putVarString(buf, p.Message)
}
func DecodeRoomError(buf []byte) (RoomErrorPayload, error) {
	if len(buf) < 1 {
		return RoomErrorPayload{}, ErrTruncated
	}
	msg, _, err := getVarString(buf[1:])
	if err != nil {
		return RoomErrorPayload{}, err
	}
	return RoomErrorPayload{Reason: RoomErrorReason(buf[0]), Message: msg}, nil
}

// EncodeSetPlayerName / DecodeSetPlayerName.
func EncodeSetPlayerName(p SetPlayerNamePayload) []byte {
	return putVarString(nil, p.Name)
}
func DecodeSetPlayerName(buf []byte) (SetPlayerNamePayload, error) {
	name, _, err := getVarString(buf)
	if err != nil {
		return SetPlayerNamePayload{}, err
	}
	return SetPlayerNamePayload{Name: name}, nil
}

// EncodeSetPlayerSkin / DecodeSetPlayerSkin.
func EncodeSetPlayerSkin(p SetPlayerSkinPayload) []byte {
	return []byte{p.Skin}
}
func DecodeSetPlayerSkin(buf []byte) (SetPlayerSkinPayload, error) {
	if len(buf) < 1 {
		return SetPlayerSkinPayload{}, ErrTruncated
	}
	return SetPlayerSkinPayload{Skin: buf[0]}, nil
}

// EncodePlayerNameUpdated / DecodePlayerNameUpdated.
func EncodePlayerNameUpdated(p PlayerNameUpdatedPayload) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, p.PlayerID)
	return putVarString(buf, p.Name)
}
func DecodePlayerNameUpdated(buf []byte) (PlayerNameUpdatedPayload, error) {
	if len(buf) < 4 {
		return PlayerNameUpdatedPayload{}, ErrTruncated
	}
	name, _, err := getVarString(buf[4:])
	if err != nil {
		return PlayerNameUpdatedPayload{}, err
	}
	return PlayerNameUpdatedPayload{PlayerID: binary.BigEndian.Uint32(buf[0:4]), Name: name}, nil
}

// EncodePlayerSkinUpdated / DecodePlayerSkinUpdated.
func EncodePlayerSkinUpdated(p PlayerSkinUpdatedPayload) []byte {
	buf := make([]byte, 5)
	binary.BigEndian.PutUint32(buf[0:4], p.PlayerID)
	buf[4] = p.Skin
	return buf
}
func DecodePlayerSkinUpdated(buf []byte) (PlayerSkinUpdatedPayload, error) {
	if len(buf) < 5 {
		return PlayerSkinUpdatedPayload{}, ErrTruncated
	}
	return PlayerSkinUpdatedPayload{
		PlayerID: binary.BigEndian.Uint32(buf[0:4]),
		Skin:     buf[4],
	}, nil
}

// EncodePlayerSkin / DecodePlayerSkin.
func EncodePlayerSkin(p PlayerSkinPayload) []byte {
	buf := make([]byte, 5)
	binary.BigEndian.PutUint32(buf[0:4], p.PlayerID)
	buf[4] = p.Skin
	return buf
}
func DecodePlayerSkin(buf []byte) (PlayerSkinPayload, error) {
	if len(buf) < 5 {
		return PlayerSkinPayload{}, ErrTruncated
	}
	return PlayerSkinPayload{
		PlayerID: binary.BigEndian.Uint32(buf[0:4]),
		Skin:     buf[4],
	}, nil
}

// EncodePlayerEaten / DecodePlayerEaten.
func EncodePlayerEaten(p PlayerEatenPayload) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], p.EatenPlayerID)
	binary.BigEndian.PutUint32(buf[4:8], p.EaterPlayerID)
	return buf
}
func DecodePlayerEaten(buf []byte) (PlayerEatenPayload, error) {
	if len(buf) < 8 {
		return PlayerEatenPayload{}, ErrTruncated
	}
	return PlayerEatenPayload{
		EatenPlayerID: binary.BigEndian.Uint32(buf[0:4]),
		EaterPlayerID: binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// EncodeUDPHandshake / DecodeUDPHandshake.
func EncodeUDPHandshake(p UDPHandshakePayload) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], p.SessionID)
	binary.BigEndian.PutUint32(buf[4:8], p.PlayerID)
	return buf
}
func DecodeUDPHandshake(buf []byte) (UDPHandshakePayload, error) {
	if len(buf) < 8 {
		return UDPHandshakePayload{}, ErrTruncated
	}
	return UDPHandshakePayload{
		SessionID: binary.BigEndian.Uint32(buf[0:4]),
		PlayerID:  binary.BigEndian.Uint32(buf[4:8]),
	}, nil
}

// EncodeInput / DecodeInput. Layout: player_id(4) input_flags(2)
// sequence(4) client_timestamp(4) = 14 bytes.
func EncodeInput(p InputPayload) []byte {
	buf := make([]byte, 14)
	binary.BigEndian.PutUint32(buf[0:4], p.PlayerID)
	binary.BigEndian.PutUint16(buf[4:6], p.InputFlags)
	binary.BigEndian.PutUint32(buf[6:10], p.Sequence)
	binary.BigEndian.PutUint32(buf[10:14], p.ClientTimestamp)
	return buf
}
func DecodeInput(buf []byte) (InputPayload, error) {
	if len(buf) < 14 {
		return InputPayload{}, ErrTruncated
	}
	return InputPayload{
		PlayerID:        binary.BigEndian.Uint32(buf[0:4]),
		InputFlags:      binary.BigEndian.Uint16(buf[4:6]),
		Sequence:        binary.BigEndian.Uint32(buf[6:10]),
		ClientTimestamp: binary.BigEndian.Uint32(buf[10:14]),
	}, nil
}

// EncodeGlobalLeaderboard / DecodeGlobalLeaderboard. Layout: count(1)
// LeaderboardEntry[count].
func EncodeGlobalLeaderboard(p GlobalLeaderboardPayload) []byte {
	buf := make([]byte, 1+len(p.Entries)*leaderboardEntrySize)
	buf[0] = uint8(len(p.Entries))
	off := 1
	for _, e := range p.Entries {
		EncodeLeaderboardEntry(buf[off:off+leaderboardEntrySize], e)
		off += leaderboardEntrySize
	}
	return buf
}
func DecodeGlobalLeaderboard(buf []byte) (GlobalLeaderboardPayload, error) {
	if len(buf) < 1 {
		return GlobalLeaderboardPayload{}, ErrTruncated
	}
	count := int(buf[0])
	rest := buf[1:]
	if len(rest) != count*leaderboardEntrySize {
		return GlobalLeaderboardPayload{}, ErrCountMismatch
	}
	entries := make([]LeaderboardEntry, count)
	for i := 0; i < count; i++ {
		entries[i] = DecodeLeaderboardEntry(rest[i*leaderboardEntrySize : (i+1)*leaderboardEntrySize])
	}
	return GlobalLeaderboardPayload{Entries: entries}, nil
}
