package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityStateRoundTrip(t *testing.T) {
	s := EntityState{
		EntityID:  42,
		PositionX: 12.5,
		PositionY: -3.25,
		VelocityX: 150,
		VelocityY: -75,
		Health:    80,
		Flags:     EntityFlagInvulnerable,
		Type:      EntityKindEnemy,
	}
	buf := make([]byte, entityStateSize)
	EncodeEntityState(buf, s)
	assert.Equal(t, s, DecodeEntityState(buf))
}

func TestLeaderboardEntryRoundTrip(t *testing.T) {
	e := LeaderboardEntry{Name: "ace", Score: 9001, Timestamp: 123456}
	buf := make([]byte, leaderboardEntrySize)
	EncodeLeaderboardEntry(buf, e)
	assert.Equal(t, e, DecodeLeaderboardEntry(buf))
}

func TestConnectRoundTrip(t *testing.T) {
	p := ConnectPayload{Name: "player-one"}
	got, err := DecodeConnect(EncodeConnect(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestAcceptRoundTrip(t *testing.T) {
	p := AcceptPayload{AssignedPlayerID: 7, MapWidth: 1920, MapHeight: 1080}
	got, err := DecodeAccept(EncodeAccept(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestRejectRoundTrip(t *testing.T) {
	p := RejectPayload{Reason: ReasonDuplicateName, Message: "name taken"}
	got, err := DecodeReject(EncodeReject(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestGameStartRoundTrip(t *testing.T) {
	p := GameStartPayload{SessionID: 3, MapID: 1, YourEntityID: 42}
	got, err := DecodeGameStart(EncodeGameStart(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestUDPHandshakeRoundTrip(t *testing.T) {
	p := UDPHandshakePayload{SessionID: 9, PlayerID: 4}
	got, err := DecodeUDPHandshake(EncodeUDPHandshake(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSnapshotRoundTripNoSubtype(t *testing.T) {
	p := SnapshotPayload{
		ServerTick:                 100,
		LastProcessedInputSequence: 42,
		Entities: []EntityState{
			{EntityID: 1, PositionX: 1, PositionY: 2, Type: EntityKindPlayer},
			{EntityID: 2, PositionX: 3, PositionY: 4, Type: EntityKindEnemy},
		},
	}
	buf := EncodeSnapshot(p)
	got, err := DecodeSnapshot(buf, false)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSnapshotRoundTripWithSubtype(t *testing.T) {
	p := SnapshotPayload{
		ServerTick:                 5,
		LastProcessedInputSequence: 1,
		Entities: []EntityState{
			{EntityID: 1, Type: EntityKindBlob},
			{EntityID: 2, Type: EntityKindBlob},
		},
		Subtypes: []EntitySubtype{
			{Radius: 12.5, Owner: 1},
			{Radius: 30, Owner: 2},
		},
	}
	buf := EncodeSnapshot(p)
	got, err := DecodeSnapshot(buf, true)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSnapshotDecodeCountMismatch(t *testing.T) {
	buf := EncodeSnapshot(SnapshotPayload{
		Entities: []EntityState{{EntityID: 1}},
	})
	// truncate one byte off the single entity record so the declared
	// count no longer matches the available bytes.
	_, err := DecodeSnapshot(buf[:len(buf)-1], false)
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestGameOverRoundTrip(t *testing.T) {
	p := GameOverPayload{
		Reason: 1,
		Scores: []ScoreUpdatePayload{
			{PlayerID: 1, Score: 100},
			{PlayerID: 2, Score: -5},
		},
	}
	got, err := DecodeGameOver(EncodeGameOver(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestCreateRoomRoundTrip(t *testing.T) {
	p := CreateRoomPayload{
		Name:         "my room",
		PasswordHash: "$2a$10$abc",
		Mode:         2,
		Difficulty:   1,
		MapID:        9,
		MaxPlayers:   4,
	}
	got, err := DecodeCreateRoom(EncodeCreateRoom(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestJoinRoomRoundTrip(t *testing.T) {
	p := JoinRoomPayload{RoomID: 77, PasswordHash: "hash"}
	got, err := DecodeJoinRoom(EncodeJoinRoom(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestRoomListRoundTrip(t *testing.T) {
	p := RoomListPayload{Rooms: []RoomSummary{
		{RoomID: 1, Name: "alpha", Current: 1, Max: 4, Mode: 0, Difficulty: 1},
		{RoomID: 2, Name: "bravo squad", Current: 3, Max: 4, Mode: 2, Difficulty: 2},
	}}
	got, err := DecodeRoomList(EncodeRoomList(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestRoomErrorRoundTrip(t *testing.T) {
	p := RoomErrorPayload{Reason: RoomErrorWrongPassword, Message: "nope"}
	got, err := DecodeRoomError(EncodeRoomError(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestInputRoundTrip(t *testing.T) {
	p := InputPayload{PlayerID: 3, InputFlags: 0b101, Sequence: 99, ClientTimestamp: 555}
	got, err := DecodeInput(EncodeInput(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestGlobalLeaderboardRoundTrip(t *testing.T) {
	p := GlobalLeaderboardPayload{Entries: []LeaderboardEntry{
		{Name: "a", Score: 1, Timestamp: 2},
		{Name: "b", Score: 3, Timestamp: 4},
	}}
	got, err := DecodeGlobalLeaderboard(EncodeGlobalLeaderboard(p))
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestFrameAndSplitFrameRoundTrip(t *testing.T) {
	payload := EncodeInput(InputPayload{PlayerID: 1, InputFlags: 1, Sequence: 1, ClientTimestamp: 1})
	framed := Frame(TypeInput, 10, payload)

	h, body, err := SplitFrame(framed)
	require.NoError(t, err)
	assert.Equal(t, TypeInput, h.Type)
	assert.Equal(t, uint32(10), h.SequenceNumber)
	assert.Equal(t, payload, body)
}

func TestSplitFrameTruncated(t *testing.T) {
	_, _, err := SplitFrame([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestSplitFrameBadVersion(t *testing.T) {
	framed := Frame(TypeInput, 0, nil)
	framed[0] = ProtocolVersion + 1
	_, _, err := SplitFrame(framed)
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestSplitFrameBadType(t *testing.T) {
	framed := Frame(TypeInput, 0, nil)
	framed[1] = 0xFF
	_, _, err := SplitFrame(framed)
	assert.ErrorIs(t, err, ErrBadType)
}

func TestSplitFramePayloadShorterThanDeclared(t *testing.T) {
	framed := Frame(TypeInput, 0, []byte{1, 2, 3, 4})
	truncated := framed[:len(framed)-1]
	_, _, err := SplitFrame(truncated)
	assert.ErrorIs(t, err, ErrTruncated)
}
