// Package lobby implements quick-match matchmaking: players request a
// mode and difficulty, the manager pools them into same-shaped lobbies
// (found on join or created), and a full lobby counts down to
// promotion into a session.
package lobby

import (
	"errors"
	"sync"
	"time"

	"github.com/rtype/arcade/internal/protocol"
)

// Mode is a quick-match lobby's player-count shape.
type Mode uint8

const (
	ModeDuo Mode = iota
	ModeTrio
	ModeSquad
)

// MaxPlayers returns the fixed roster size for a mode.
func (m Mode) MaxPlayers() int {
	switch m {
	case ModeDuo:
		return 2
	case ModeTrio:
		return 3
	case ModeSquad:
		return 4
	default:
		return 2
	}
}

// countdownSeconds is how long a full lobby waits before promotion.
const countdownSeconds = 5

// ErrAlreadyInLobby is returned when a player who already belongs to a
// lobby calls JoinLobby again.
var ErrAlreadyInLobby = errors.New("lobby: player already in a lobby")

// Member is one roster entry of a lobby.
type Member struct {
	PlayerID uint32
	Name     string
}

// Lobby is a matchmaking container that becomes a session once its
// countdown reaches zero.
type Lobby struct {
	ID         uint32
	Mode       Mode
	Difficulty uint8
	MapID      uint32
	Members    []Member

	countingDown   bool
	secondsLeft    uint8
	countdownAccum time.Duration
}

// Full reports whether the lobby has reached its mode's player cap.
func (l *Lobby) Full() bool { return len(l.Members) >= l.Mode.MaxPlayers() }

// OutboundEvent is one encoded payload addressed to a set of players,
// mirroring session.OutboundEvent so the dispatcher can drain both
// queues through the same barrier-broadcast code path.
type OutboundEvent struct {
	Recipients []uint32
	Type       protocol.PacketType
	Reliable   bool
	Payload    []byte
}

// Manager pools players into lobbies by (mode, difficulty) and advances
// their countdowns once promoted-to-full. The mutex covers the
// dispatcher's tick-thread mutation and the admin console's queries,
// which run on another goroutine.
type Manager struct {
	mu       sync.Mutex
	lobbies  map[uint32]*Lobby
	memberOf map[uint32]uint32 // player_id -> lobby_id
	nextID   uint32
	outbound []OutboundEvent
}

// NewManager returns an empty lobby manager.
func NewManager() *Manager {
	return &Manager{
		lobbies:  make(map[uint32]*Lobby),
		memberOf: make(map[uint32]uint32),
	}
}

// JoinLobby attaches a player to an existing lobby matching (mode,
// difficulty) that is not full and not already counting down, or
// creates one. Starts a countdown the moment the lobby becomes full.
func (m *Manager) JoinLobby(player Member, mode Mode, difficulty uint8, mapID uint32) (*Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.memberOf[player.PlayerID]; ok {
		return nil, ErrAlreadyInLobby
	}

	var l *Lobby
	for _, candidate := range m.lobbies {
		if candidate.Mode == mode && candidate.Difficulty == difficulty && !candidate.Full() && !candidate.countingDown {
			l = candidate
			break
		}
	}
	if l == nil {
		m.nextID++
		l = &Lobby{ID: m.nextID, Mode: mode, Difficulty: difficulty, MapID: mapID}
		m.lobbies[l.ID] = l
	}

	l.Members = append(l.Members, player)
	m.memberOf[player.PlayerID] = l.ID

	m.broadcastLobbyState(l)

	if l.Full() {
		l.countingDown = true
		l.secondsLeft = countdownSeconds
		l.countdownAccum = 0
		m.broadcastCountdown(l)
	}
	return l, nil
}

// LeaveLobby detaches a player, cancels any active countdown
// destructively, and destroys the lobby if it is now empty.
func (m *Manager) LeaveLobby(playerID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lobbyID, ok := m.memberOf[playerID]
	if !ok {
		return
	}
	delete(m.memberOf, playerID)

	l, ok := m.lobbies[lobbyID]
	if !ok {
		return
	}
	for i, mem := range l.Members {
		if mem.PlayerID == playerID {
			l.Members = append(l.Members[:i], l.Members[i+1:]...)
			break
		}
	}
	l.countingDown = false
	l.secondsLeft = 0
	l.countdownAccum = 0

	if len(l.Members) == 0 {
		delete(m.lobbies, lobbyID)
		return
	}
	m.broadcastLobbyState(l)
}

// Count reports the number of active lobbies, for admin `info` output.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lobbies)
}

// Get looks up a lobby by id.
func (m *Manager) Get(id uint32) (*Lobby, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lobbies[id]
	return l, ok
}

// LobbyOf reports which lobby, if any, a player currently belongs to.
func (m *Manager) LobbyOf(playerID uint32) (*Lobby, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.memberOf[playerID]
	if !ok {
		return nil, false
	}
	l, ok := m.lobbies[id]
	return l, ok
}

// Tick advances every active countdown by dt, emitting one countdown
// event per elapsed second, and returns the lobbies that reached zero
// this call so the caller can seed a session from their roster. A
// promoted lobby is removed from the manager immediately; the caller
// owns destroying the resulting session later.
func (m *Manager) Tick(dt time.Duration) []*Lobby {
	m.mu.Lock()
	defer m.mu.Unlock()

	var promoted []*Lobby
	for id, l := range m.lobbies {
		if !l.countingDown {
			continue
		}
		l.countdownAccum += dt
		for l.countdownAccum >= time.Second && l.secondsLeft > 0 {
			l.countdownAccum -= time.Second
			l.secondsLeft--
			if l.secondsLeft == 0 {
				promoted = append(promoted, l)
				delete(m.lobbies, id)
				for _, mem := range l.Members {
					delete(m.memberOf, mem.PlayerID)
				}
				break
			}
			m.broadcastCountdown(l)
		}
	}
	return promoted
}

// DrainOutbound returns and clears the manager's outbound queue.
func (m *Manager) DrainOutbound() []OutboundEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.outbound
	m.outbound = nil
	return out
}

func (m *Manager) recipients(l *Lobby) []uint32 {
	ids := make([]uint32, len(l.Members))
	for i, mem := range l.Members {
		ids[i] = mem.PlayerID
	}
	return ids
}

func (m *Manager) broadcastLobbyState(l *Lobby) {
	payload := protocol.EncodeLobbyState(protocol.LobbyStatePayload{
		LobbyID:    l.ID,
		Mode:       uint8(l.Mode),
		Difficulty: l.Difficulty,
		Current:    uint8(len(l.Members)),
		Max:        uint8(l.Mode.MaxPlayers()),
	})
	m.outbound = append(m.outbound, OutboundEvent{Recipients: m.recipients(l), Type: protocol.TypeLobbyState, Reliable: true, Payload: payload})
}

func (m *Manager) broadcastCountdown(l *Lobby) {
	payload := protocol.EncodeCountdown(protocol.CountdownPayload{SecondsRemaining: l.secondsLeft})
	m.outbound = append(m.outbound, OutboundEvent{Recipients: m.recipients(l), Type: protocol.TypeCountdown, Reliable: true, Payload: payload})
}
