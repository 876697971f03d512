package clientnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtype/arcade/internal/ecs"
	"github.com/rtype/arcade/internal/protocol"
)

// The core's packet routing is driven directly here; no transport
// connection exists, so send paths are no-ops and only state effects
// are observable.

func TestCoreHandlesAccept(t *testing.T) {
	c := NewCore(nil)
	c.handlePacket(protocol.TypeAccept, protocol.EncodeAccept(protocol.AcceptPayload{
		AssignedPlayerID: 7, MapWidth: 1600, MapHeight: 900,
	}))

	assert.EqualValues(t, 7, c.PlayerID())
	w, h := c.MapSize()
	assert.Equal(t, float32(1600), w)
	assert.Equal(t, float32(900), h)
}

func TestCoreRejectMessageSurvivesDisconnect(t *testing.T) {
	c := NewCore(nil)
	assert.Equal(t, "Disconnected from server", c.DisconnectReason())

	c.handlePacket(protocol.TypeReject, protocol.EncodeReject(protocol.RejectPayload{
		Reason: protocol.ReasonServerFull, Message: "server full",
	}))
	assert.Equal(t, "server full", c.DisconnectReason())
}

func TestCoreGameStartEntersSessionAndResetsState(t *testing.T) {
	c := NewCore(nil)
	c.Predictor.ApplyInput(ecs.InputRight, 1, tickSeconds)
	c.Interpolator.Ingest(1, protocol.EntityState{EntityID: 9}, 0)

	c.handlePacket(protocol.TypeGameStart, protocol.EncodeGameStart(protocol.GameStartPayload{
		SessionID: 3, MapID: 1, YourEntityID: 42,
	}))

	assert.True(t, c.InSession())
	assert.EqualValues(t, 42, c.LocalEntityID())
	assert.Empty(t, c.Predictor.Pending())
	_, ok := c.Interpolator.Sample(9)
	assert.False(t, ok)
}

func TestCoreSnapshotRoutesLocalAndRemoteEntities(t *testing.T) {
	c := NewCore(nil)
	c.handlePacket(protocol.TypeGameStart, protocol.EncodeGameStart(protocol.GameStartPayload{
		SessionID: 1, YourEntityID: 1,
	}))

	// Two locally predicted inputs; the server acknowledges the first
	// and reports the exact predicted position, so no snap occurs.
	c.SendInput(ecs.InputRight, 100)
	afterFirst := c.Predictor.Position
	c.SendInput(ecs.InputRight, 101)

	snapshot := protocol.EncodeSnapshot(protocol.SnapshotPayload{
		ServerTick:                 10,
		LastProcessedInputSequence: 1,
		Entities: []protocol.EntityState{
			{EntityID: 1, PositionX: float32(afterFirst.X), PositionY: float32(afterFirst.Y)},
			{EntityID: 2, PositionX: 50, PositionY: 60},
		},
	})
	c.handlePacket(protocol.TypeSnapshot, snapshot)

	require.Len(t, c.Predictor.Pending(), 1, "the acknowledged input is dropped")
	rs, ok := c.Interpolator.Sample(2)
	require.True(t, ok)
	assert.Equal(t, float32(50), rs.X)
	_, ok = c.Interpolator.Sample(1)
	assert.False(t, ok, "the local entity never enters the interpolator")
}

func TestCoreEntityDestroyForgetsRemote(t *testing.T) {
	c := NewCore(nil)
	c.handlePacket(protocol.TypeGameStart, protocol.EncodeGameStart(protocol.GameStartPayload{YourEntityID: 1}))
	c.Interpolator.Ingest(1, protocol.EntityState{EntityID: 2}, 1)

	c.handlePacket(protocol.TypeEntityDestroy, protocol.EncodeEntityDestroy(protocol.EntityDestroyPayload{EntityID: 2}))
	_, ok := c.Interpolator.Sample(2)
	assert.False(t, ok)
}

func TestCoreGameOverLeavesSession(t *testing.T) {
	c := NewCore(nil)
	c.handlePacket(protocol.TypeGameStart, protocol.EncodeGameStart(protocol.GameStartPayload{YourEntityID: 1}))
	require.True(t, c.InSession())

	c.handlePacket(protocol.TypeGameOver, protocol.EncodeGameOver(protocol.GameOverPayload{Reason: protocol.GameOverDefeat}))
	assert.False(t, c.InSession())
	assert.Empty(t, c.Predictor.Pending())
}

func TestCoreSendInputOutsideSessionIsNoop(t *testing.T) {
	c := NewCore(nil)
	c.SendInput(ecs.InputRight, 1)
	assert.Empty(t, c.Predictor.Pending())
}
