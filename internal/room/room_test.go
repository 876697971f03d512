package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtype/arcade/internal/protocol"
)

func TestCreateRoomJoinsHostAutomatically(t *testing.T) {
	m := NewManager()
	r, err := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "room", "", 0, 0, 5, 4, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), r.HostPlayerID)
	require.Len(t, r.Members, 1)
}

func TestCreateRoomSubstitutesPlaceholderForEmptyName(t *testing.T) {
	m := NewManager()
	r, err := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "", "", 0, 0, 5, 4, false)
	require.NoError(t, err)
	assert.Equal(t, "Room #1", r.Name)
}

func TestJoinRoomEnforcesPasswordCapacityAndStatus(t *testing.T) {
	m := NewManager()
	r, _ := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "room", "secret", 0, 0, 5, 2, false)

	_, err := m.JoinRoom(Member{PlayerID: 2, Name: "B"}, r.ID, "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	joined, err := m.JoinRoom(Member{PlayerID: 2, Name: "B"}, r.ID, "secret")
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)

	_, err = m.JoinRoom(Member{PlayerID: 3, Name: "C"}, r.ID, "secret")
	assert.ErrorIs(t, err, ErrRoomFull)

	_, err = m.JoinRoom(Member{PlayerID: 4, Name: "D"}, 9999, "")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestLeaveRoomTransfersHostToEarliestJoined(t *testing.T) {
	m := NewManager()
	r, _ := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "room", "", 0, 0, 5, 4, false)
	_, _ = m.JoinRoom(Member{PlayerID: 2, Name: "B"}, r.ID, "")
	_, _ = m.JoinRoom(Member{PlayerID: 3, Name: "C"}, r.ID, "")

	m.LeaveRoom(1)

	got, ok := m.Get(r.ID)
	require.True(t, ok)
	assert.Equal(t, uint32(2), got.HostPlayerID)
}

func TestLeaveRoomBroadcastsNewHostToRemainingMembers(t *testing.T) {
	m := NewManager()
	r, _ := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "room", "", 0, 0, 5, 4, false)
	_, _ = m.JoinRoom(Member{PlayerID: 2, Name: "B"}, r.ID, "")
	_, _ = m.JoinRoom(Member{PlayerID: 3, Name: "C"}, r.ID, "")
	m.DrainOutbound()

	m.LeaveRoom(1)

	events := m.DrainOutbound()
	require.Len(t, events, 2, "one membership update per remaining member")
	for _, ev := range events {
		assert.Equal(t, protocol.TypeRoomJoined, ev.Type)
		p, err := protocol.DecodeRoomJoined(ev.Payload)
		require.NoError(t, err)
		assert.EqualValues(t, 2, p.HostPlayerID, "the earliest-joined remainder inherits the host")
		require.Len(t, ev.Recipients, 1)
		assert.Equal(t, ev.Recipients[0], p.YourPlayerID)
	}
}

func TestLeaveRoomDestroysOnNextTickWhenEmpty(t *testing.T) {
	m := NewManager()
	r, _ := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "room", "", 0, 0, 5, 4, false)
	m.LeaveRoom(1)

	_, ok := m.Get(r.ID)
	require.True(t, ok, "room should still exist until the next Tick reaps it")

	m.Tick(time.Millisecond)
	_, ok = m.Get(r.ID)
	assert.False(t, ok)
}

func TestStartGameRequiresHostAndNotAlreadyRunning(t *testing.T) {
	m := NewManager()
	r, _ := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "room", "", 0, 0, 5, 4, false)
	_, _ = m.JoinRoom(Member{PlayerID: 2, Name: "B"}, r.ID, "")

	_, err := m.StartGame(r.ID, 2)
	assert.ErrorIs(t, err, ErrNotHost)

	started, err := m.StartGame(r.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusCountdown, started.Status)

	_, err = m.StartGame(r.ID, 1)
	assert.ErrorIs(t, err, ErrRoomInProgress)
}

func TestTickPromotesRoomAfterCountdown(t *testing.T) {
	m := NewManager()
	r, _ := m.CreateRoom(Member{PlayerID: 1, Name: "Host"}, "room", "", 0, 0, 5, 4, false)
	_, _ = m.StartGame(r.ID, 1)

	var promoted []*Room
	for i := 0; i < countdownSeconds; i++ {
		promoted = append(promoted, m.Tick(time.Second)...)
	}

	require.Len(t, promoted, 1)
	assert.Equal(t, StatusInProgress, promoted[0].Status)
}

func TestGetPublicRoomsExcludesPrivateAndNonWaiting(t *testing.T) {
	m := NewManager()
	pub, _ := m.CreateRoom(Member{PlayerID: 1, Name: "A"}, "public", "", 0, 0, 1, 4, false)
	_, _ = m.CreateRoom(Member{PlayerID: 2, Name: "B"}, "private", "", 0, 0, 1, 4, true)
	running, _ := m.CreateRoom(Member{PlayerID: 3, Name: "C"}, "running", "", 0, 0, 1, 4, false)
	_, _ = m.StartGame(running.ID, 3)

	summaries := m.GetPublicRooms()
	require.Len(t, summaries, 1)
	assert.Equal(t, pub.ID, summaries[0].RoomID)
}
