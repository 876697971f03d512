package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestManagerCreateGetRemove(t *testing.T) {
	m := NewManager(testLogger())
	roster := []RosterMember{{PlayerID: 1, Name: "a"}, {PlayerID: 2, Name: "b"}}

	s := m.Create(roster, KindSideScroller, 1, 1600, 900)
	require.NotEqual(t, s.ID.String(), "")

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	m.Remove(s.ID)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
}

func TestManagerTickAdvancesAllSessions(t *testing.T) {
	m := NewManager(testLogger())
	roster := []RosterMember{{PlayerID: 1, Name: "a"}}

	s1 := m.Create(roster, KindSideScroller, 1, 1600, 900)
	s2 := m.Create(roster, KindBlob, 2, 1600, 900)

	require.NoError(t, m.Tick(TickInterval))

	assert.Equal(t, uint32(1), s1.ServerTick)
	assert.Equal(t, uint32(1), s2.ServerTick)
}

func TestManagerListReturnsAllSessions(t *testing.T) {
	m := NewManager(testLogger())
	roster := []RosterMember{{PlayerID: 1, Name: "a"}}
	m.Create(roster, KindSideScroller, 1, 1600, 900)
	m.Create(roster, KindSideScroller, 2, 1600, 900)

	assert.Len(t, m.List(), 2)
}

func TestManagerEndingSessionsFiltersByState(t *testing.T) {
	m := NewManager(testLogger())
	roster := []RosterMember{{PlayerID: 1, Name: "a"}}
	s := m.Create(roster, KindSideScroller, 1, 1600, 900)
	m.Create(roster, KindSideScroller, 2, 1600, 900)

	s.End(0)

	ending := m.EndingSessions()
	require.Len(t, ending, 1)
	assert.Equal(t, s.ID, ending[0].ID)
}

func TestManagerTickSkipsEndingSessions(t *testing.T) {
	m := NewManager(testLogger())
	roster := []RosterMember{{PlayerID: 1, Name: "a"}}
	s := m.Create(roster, KindSideScroller, 1, 1600, 900)
	s.End(0)

	require.NoError(t, m.Tick(time.Second))
	assert.Equal(t, uint32(0), s.ServerTick)
}
