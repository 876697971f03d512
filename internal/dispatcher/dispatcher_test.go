package dispatcher

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rtype/arcade/internal/leaderboard"
	"github.com/rtype/arcade/internal/lobby"
	"github.com/rtype/arcade/internal/protocol"
	"github.com/rtype/arcade/internal/room"
	"github.com/rtype/arcade/internal/session"
	"github.com/rtype/arcade/internal/transport"
)

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	board, err := leaderboard.Load(t.TempDir()+"/leaderboard.json", testLogger())
	require.NoError(t, err)
	return New(transport.NewServer(testLogger()), lobby.NewManager(), room.NewManager(), session.NewManager(testLogger()), board, testLogger())
}

func TestHandleConnectAssignsPlayerIDAndRejectsDuplicateName(t *testing.T) {
	d := newTestDispatcher(t)

	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "alice"}))
	require.Len(t, d.players, 1)
	rec, ok := d.byClient[1]
	require.True(t, ok)
	assert.Equal(t, "alice", rec.name)
	assert.EqualValues(t, 1, rec.playerID)

	// A second CONNECT from a different peer with the same name must be
	// rejected and never registered.
	d.handleConnect(2, protocol.EncodeConnect(protocol.ConnectPayload{Name: "alice"}))
	assert.Len(t, d.players, 1)
	_, ok = d.byClient[2]
	assert.False(t, ok)
}

func TestHandleConnectRejectsWhenFull(t *testing.T) {
	d := newTestDispatcher(t)
	for i := 0; i < MaxPlayers; i++ {
		d.nextPlayer++
		rec := &player{clientID: transport.PeerID(i + 1), playerID: d.nextPlayer, name: uuid.NewString()}
		d.players[rec.playerID] = rec
		d.byClient[rec.clientID] = rec
	}

	d.handleConnect(transport.PeerID(MaxPlayers+1), protocol.EncodeConnect(protocol.ConnectPayload{Name: "late"}))
	assert.Len(t, d.players, MaxPlayers)
}

func TestHandleDisconnectClearsRosterAndMembership(t *testing.T) {
	d := newTestDispatcher(t)
	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "bob"}))
	rec := d.byClient[1]
	rec.lobbyID = 99

	d.handleDisconnect(1)
	assert.Empty(t, d.players)
	assert.Empty(t, d.byClient)
}

func TestAttachRosterAssignsSequentialWireIDs(t *testing.T) {
	d := newTestDispatcher(t)
	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "p1"}))

	roster := []session.RosterMember{{PlayerID: 1, Name: "p1"}}
	sid1 := uuid.New()
	sid2 := uuid.New()

	w1 := d.attachRoster(roster, sid1)
	w2 := d.attachRoster(roster, sid2)

	assert.EqualValues(t, 1, w1)
	assert.EqualValues(t, 2, w2)
	assert.Equal(t, sid2, d.byClient[1].sessionID, "attaching a second roster should move the player to the new session")
}

func TestHandleUDPHandshakeRequiresMatchingSession(t *testing.T) {
	d := newTestDispatcher(t)
	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "p1"}))
	rec := d.byClient[1]

	sid := uuid.New()
	wireID := d.attachRoster([]session.RosterMember{{PlayerID: rec.playerID, Name: rec.name}}, sid)

	d.handleUDPHandshake(1, protocol.EncodeUDPHandshake(protocol.UDPHandshakePayload{PlayerID: rec.playerID, SessionID: wireID + 1}))
	assert.False(t, rec.udpAssociated, "a mismatched session id must not associate the UDP channel")

	d.handleUDPHandshake(1, protocol.EncodeUDPHandshake(protocol.UDPHandshakePayload{PlayerID: rec.playerID, SessionID: wireID}))
	assert.True(t, rec.udpAssociated)
}

func TestHandleReceiveDropsMalformedPacketAndCounts(t *testing.T) {
	d := newTestDispatcher(t)
	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "p1"}))

	// Declared payload length far exceeds the bytes that follow.
	garbage := protocol.Frame(protocol.TypeInput, 1, nil)
	garbage[2], garbage[3] = 0x03, 0xE8 // payload_length = 1000
	d.handleReceive(1, transport.ChannelReliable, garbage)

	assert.EqualValues(t, 1, d.protocolErrors.Load())
	assert.Len(t, d.players, 1, "the peer stays registered after a malformed packet")
}

func TestBarrierBroadcastRoutesPerRecipientEvents(t *testing.T) {
	d := newTestDispatcher(t)
	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "p1"}))
	d.handleConnect(2, protocol.EncodeConnect(protocol.ConnectPayload{Name: "p2"}))

	roster := []session.RosterMember{{PlayerID: 1, Name: "p1"}, {PlayerID: 2, Name: "p2"}}
	s := d.sessions.Create(roster, session.KindSideScroller, 1, 1600, 900)
	d.attachRoster(roster, s.ID)

	require.NoError(t, d.sessions.Tick(session.TickInterval))
	// Transport sends fail (no live QUIC peers) but the queue must still
	// fully drain at the barrier.
	d.barrierBroadcast()
	assert.Empty(t, s.DrainOutbound())
}

func TestReapEndingSessionsSubmitsScoresAndFreesPlayers(t *testing.T) {
	d := newTestDispatcher(t)
	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "p1"}))

	roster := []session.RosterMember{{PlayerID: 1, Name: "p1"}}
	s := d.sessions.Create(roster, session.KindSideScroller, 1, 1600, 900)
	d.attachRoster(roster, s.ID)

	s.End(protocol.GameOverDefeat)
	d.reapEndingSessions()

	_, ok := d.sessions.Get(s.ID)
	assert.False(t, ok)
	rec := d.byClient[1]
	assert.False(t, rec.inSession())
	assert.Len(t, d.board.Snapshot(), 1, "final scores reach the leaderboard")
}

func TestPauseResumeTogglesPausedFlag(t *testing.T) {
	d := newTestDispatcher(t)
	assert.False(t, d.paused)
	d.Pause()
	assert.True(t, d.paused)
	d.Resume()
	assert.False(t, d.paused)
}

func TestInfoReportsAggregateCounts(t *testing.T) {
	d := newTestDispatcher(t)
	d.handleConnect(1, protocol.EncodeConnect(protocol.ConnectPayload{Name: "p1"}))

	info := d.Info()
	assert.Equal(t, 1, info.Players)
	assert.Equal(t, 0, info.Sessions)
	assert.Equal(t, 0, info.Lobbies)
	assert.Equal(t, 0, info.Rooms)
	assert.False(t, info.Paused)
}

func TestClearEnemiesFiltersBySession(t *testing.T) {
	d := newTestDispatcher(t)
	s1 := d.sessions.Create([]session.RosterMember{{PlayerID: 1, Name: "a"}}, session.KindSideScroller, 1, 1600, 900)
	s2 := d.sessions.Create([]session.RosterMember{{PlayerID: 2, Name: "b"}}, session.KindSideScroller, 2, 1600, 900)

	n, err := d.ClearEnemies(s1.ID.String())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)

	n, err = d.ClearEnemies("")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)
	_ = s2
}
