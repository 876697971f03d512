package lobby

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtype/arcade/internal/protocol"
)

func TestJoinLobbyPoolsMatchingModeAndDifficulty(t *testing.T) {
	m := NewManager()

	a, err := m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 7)
	require.NoError(t, err)

	b, err := m.JoinLobby(Member{PlayerID: 2, Name: "B"}, ModeDuo, 0, 7)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.True(t, a.Full())
	assert.True(t, a.countingDown)
}

func TestJoinLobbyRejectsDoubleJoin(t *testing.T) {
	m := NewManager()
	_, err := m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 7)
	require.NoError(t, err)

	_, err = m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 7)
	assert.ErrorIs(t, err, ErrAlreadyInLobby)
}

func TestJoinLobbySeparatesDifferentModes(t *testing.T) {
	m := NewManager()
	duo, _ := m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 1)
	squad, _ := m.JoinLobby(Member{PlayerID: 2, Name: "B"}, ModeSquad, 0, 1)
	assert.NotEqual(t, duo.ID, squad.ID)
}

func TestLeaveLobbyCancelsCountdownAndDestroysWhenEmpty(t *testing.T) {
	m := NewManager()
	_, _ = m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 1)
	l, _ := m.JoinLobby(Member{PlayerID: 2, Name: "B"}, ModeDuo, 0, 1)
	require.True(t, l.countingDown)

	m.LeaveLobby(2)
	got, ok := m.LobbyOf(1)
	require.True(t, ok)
	assert.False(t, got.countingDown)

	m.LeaveLobby(1)
	_, ok = m.LobbyOf(1)
	assert.False(t, ok)
}

func TestTickPromotesAtZeroAndEmitsOneCountdownPerSecond(t *testing.T) {
	m := NewManager()
	_, _ = m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 1)
	_, _ = m.JoinLobby(Member{PlayerID: 2, Name: "B"}, ModeDuo, 0, 1)

	var promoted []*Lobby
	for i := 0; i < countdownSeconds; i++ {
		promoted = append(promoted, m.Tick(time.Second)...)
	}

	require.Len(t, promoted, 1)
	assert.Equal(t, uint8(2), uint8(len(promoted[0].Members)))

	_, ok := m.LobbyOf(1)
	assert.False(t, ok)
}

func TestTickDoesNotPromoteBeforeFullSecondElapsed(t *testing.T) {
	m := NewManager()
	_, _ = m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 1)
	_, _ = m.JoinLobby(Member{PlayerID: 2, Name: "B"}, ModeDuo, 0, 1)

	promoted := m.Tick(500 * time.Millisecond)
	assert.Empty(t, promoted)
}

func TestCountdownCountsFiveToOne(t *testing.T) {
	m := NewManager()
	_, _ = m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 1)
	_, _ = m.JoinLobby(Member{PlayerID: 2, Name: "B"}, ModeDuo, 0, 1)

	for i := 0; i < countdownSeconds; i++ {
		m.Tick(time.Second)
	}

	var seconds []uint8
	for _, ev := range m.DrainOutbound() {
		if ev.Type != protocol.TypeCountdown {
			continue
		}
		p, err := protocol.DecodeCountdown(ev.Payload)
		require.NoError(t, err)
		seconds = append(seconds, p.SecondsRemaining)
	}
	assert.Equal(t, []uint8{5, 4, 3, 2, 1}, seconds)
}

func TestDrainOutboundClearsQueue(t *testing.T) {
	m := NewManager()
	_, _ = m.JoinLobby(Member{PlayerID: 1, Name: "A"}, ModeDuo, 0, 1)

	events := m.DrainOutbound()
	require.Len(t, events, 1)
	assert.Empty(t, m.DrainOutbound())
}
