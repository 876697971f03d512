package admin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	players    []PlayerView
	info       InfoView
	kicked     uint32
	kickErr    error
	paused     bool
	cleared    int
	clearedErr error
	clearedArg string
}

func (f *fakeServer) List() []PlayerView { return f.players }
func (f *fakeServer) Info() InfoView     { return f.info }
func (f *fakeServer) Kick(playerID uint32, reason string) error {
	f.kicked = playerID
	return f.kickErr
}
func (f *fakeServer) Pause()  { f.paused = true }
func (f *fakeServer) Resume() { f.paused = false }
func (f *fakeServer) ClearEnemies(sessionIDFilter string) (int, error) {
	f.clearedArg = sessionIDFilter
	return f.cleared, f.clearedErr
}

func TestParse(t *testing.T) {
	assert.Equal(t, Command{}, Parse("   "))
	assert.Equal(t, Command{Name: "kick", Args: []string{"5", "griefing"}}, Parse("KICK 5 griefing"))
}

func TestRunHelp(t *testing.T) {
	r := Run(&fakeServer{}, Parse("help"))
	assert.True(t, r.Success)
	assert.Contains(t, r.Message, "clearenemies")
}

func TestRunUnknownCommand(t *testing.T) {
	r := Run(&fakeServer{}, Parse("frobnicate"))
	assert.False(t, r.Success)
}

func TestRunList(t *testing.T) {
	srv := &fakeServer{players: []PlayerView{{PlayerID: 1, Name: "a"}}}
	r := Run(srv, Parse("list"))
	assert.True(t, r.Success)
	assert.Contains(t, r.Message, "a")
}

func TestRunListEmpty(t *testing.T) {
	r := Run(&fakeServer{}, Parse("list"))
	assert.True(t, r.Success)
	assert.Contains(t, r.Message, "no players")
}

func TestRunKickRequiresArg(t *testing.T) {
	r := Run(&fakeServer{}, Parse("kick"))
	assert.False(t, r.Success)
}

func TestRunKickSuccess(t *testing.T) {
	srv := &fakeServer{}
	r := Run(srv, Parse("kick 7 spamming"))
	require.True(t, r.Success)
	assert.EqualValues(t, 7, srv.kicked)
}

func TestRunKickPropagatesError(t *testing.T) {
	srv := &fakeServer{kickErr: errors.New("unknown player")}
	r := Run(srv, Parse("kick 7"))
	assert.False(t, r.Success)
}

func TestRunPauseResume(t *testing.T) {
	srv := &fakeServer{}
	Run(srv, Parse("pause"))
	assert.True(t, srv.paused)
	Run(srv, Parse("resume"))
	assert.False(t, srv.paused)
}

func TestRunClearEnemies(t *testing.T) {
	srv := &fakeServer{cleared: 3}
	r := Run(srv, Parse("clearenemies abc-123"))
	require.True(t, r.Success)
	assert.Equal(t, "abc-123", srv.clearedArg)
	assert.Contains(t, r.Message, "3")
}

func TestRunInfo(t *testing.T) {
	srv := &fakeServer{info: InfoView{Players: 2, Sessions: 1}}
	r := Run(srv, Parse("info"))
	assert.True(t, r.Success)
	assert.Contains(t, r.Message, "players=2")
}
