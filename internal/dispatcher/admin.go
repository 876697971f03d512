package dispatcher

import (
	"fmt"

	"github.com/rtype/arcade/internal/protocol"
)

// PlayerSummary is one row of the admin console's `list` output.
type PlayerSummary struct {
	PlayerID  uint32
	Name      string
	LobbyID   uint32
	RoomID    uint32
	InSession bool
}

// List returns a snapshot of every connected player, for the admin
// console's `list` command. Safe to call from any goroutine.
func (d *Dispatcher) List() []PlayerSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]PlayerSummary, 0, len(d.players))
	for _, rec := range d.players {
		out = append(out, PlayerSummary{
			PlayerID: rec.playerID, Name: rec.name, LobbyID: rec.lobbyID,
			RoomID: rec.roomID, InSession: rec.inSession(),
		})
	}
	return out
}

// Info reports aggregate counts for the admin console's `info` command.
type Info struct {
	Players        int
	Sessions       int
	Lobbies        int
	Rooms          int
	Paused         bool
	ProtocolErrors uint64
}

// Info returns the current aggregate server state.
func (d *Dispatcher) Info() Info {
	d.mu.Lock()
	players := len(d.players)
	paused := d.paused
	d.mu.Unlock()
	return Info{
		Players:        players,
		Sessions:       len(d.sessions.List()),
		Lobbies:        d.lobbies.Count(),
		Rooms:          d.rooms.Count(),
		Paused:         paused,
		ProtocolErrors: d.protocolErrors.Load(),
	}
}

// Kick disconnects a player by id, per the admin console's `kick`
// command. reason is logged and sent to the client as the message of a
// REJECT frame just before the peer is disconnected.
func (d *Dispatcher) Kick(playerID uint32, reason string) error {
	peer, ok := d.peerFor(playerID)
	if !ok {
		return fmt.Errorf("dispatcher: unknown player %d", playerID)
	}
	d.log.Infow("admin kick", "player_id", playerID, "reason", reason)
	d.sendReliable(peer, protocol.TypeReject, protocol.EncodeReject(protocol.RejectPayload{Reason: protocol.ReasonInternalError, Message: reason}))
	d.transport.DisconnectPeer(peer)
	return nil
}

// Pause / Resume freeze or unfreeze the session tick advance (transport
// polling, lobby/room countdowns, and the barrier broadcast keep
// running so players still see countdown and chat-adjacent traffic).
func (d *Dispatcher) Pause() {
	d.mu.Lock()
	d.paused = true
	d.mu.Unlock()
}

func (d *Dispatcher) Resume() {
	d.mu.Lock()
	d.paused = false
	d.mu.Unlock()
}

// ClearEnemies tags every enemy entity ToDestroy in one session, or in
// every running session when sessionIDFilter is empty.
func (d *Dispatcher) ClearEnemies(sessionIDFilter string) (int, error) {
	cleared := 0
	for _, s := range d.sessions.List() {
		if sessionIDFilter != "" && s.ID.String() != sessionIDFilter {
			continue
		}
		cleared += s.ClearEnemies()
	}
	return cleared, nil
}
