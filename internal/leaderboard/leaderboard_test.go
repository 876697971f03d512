package leaderboard

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmptyBoard(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.NoError(t, err)
	assert.Empty(t, b.Snapshot())
}

func TestAddSortsDescendingAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	b, err := Load(path, nil)
	require.NoError(t, err)

	assert.True(t, b.Add("alice", 100, 1))
	assert.True(t, b.Add("bob", 300, 2))
	assert.True(t, b.Add("carol", 200, 3))

	snap := b.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "bob", snap[0].PlayerName)
	assert.Equal(t, "carol", snap[1].PlayerName)
	assert.Equal(t, "alice", snap[2].PlayerName)

	reloaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, snap, reloaded.Snapshot())
}

func TestAddRejectsScoreBelowFullTable(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "leaderboard.json"), nil)
	require.NoError(t, err)

	for i := int32(0); i < maxEntries; i++ {
		assert.True(t, b.Add("p", (i+1)*10, int64(i)))
	}
	assert.False(t, b.Add("latecomer", 5, 999))
	assert.Len(t, b.Snapshot(), maxEntries)
}

func TestAddEvictsLowestWhenFull(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "leaderboard.json"), nil)
	require.NoError(t, err)

	for i := int32(0); i < maxEntries; i++ {
		assert.True(t, b.Add("p", (i+1)*10, int64(i)))
	}
	assert.True(t, b.Add("newcomer", 1000, 999))

	snap := b.Snapshot()
	require.Len(t, snap, maxEntries)
	assert.Equal(t, "newcomer", snap[0].PlayerName)
}
