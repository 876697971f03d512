// Package room implements host-owned custom rooms: the lobby package's
// quick-match peer, generalized with a name, optional bcrypt-hashed
// password, host ownership and transfer, and an explicit start_game
// gate. Rooms are keyed by an explicit room id and a host rather than
// found by matching shape.
package room

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rtype/arcade/internal/protocol"
)

// Status is a room's coarse lifecycle stage.
type Status uint8

const (
	StatusWaiting Status = iota
	StatusCountdown
	StatusInProgress
)

const countdownSeconds = 5

var (
	ErrWrongPassword    = errors.New("room: wrong password")
	ErrRoomFull         = errors.New("room: full")
	ErrRoomNotFound     = errors.New("room: not found")
	ErrRoomInProgress   = errors.New("room: already in progress")
	ErrNotHost          = errors.New("room: requester is not host")
	ErrNotEnoughMembers = errors.New("room: needs at least one player")
)

// Member is one roster entry of a room.
type Member struct {
	PlayerID uint32
	Name     string
}

// Room is a custom, host-owned lobby.
type Room struct {
	ID           uint32
	Name         string
	passwordHash []byte // nil if the room has no password
	HostPlayerID uint32
	IsPrivate    bool
	Status       Status
	Mode         uint8
	Difficulty   uint8
	MapID        uint32
	MaxPlayers   uint8
	Members      []Member // index 0 joined first; host transfer picks Members[0]

	countdownAccum time.Duration
	secondsLeft    uint8
}

func (r *Room) hasPassword() bool { return len(r.passwordHash) > 0 }

// OutboundEvent mirrors session.OutboundEvent and lobby.OutboundEvent so
// the dispatcher drains all three queues identically at the barrier.
type OutboundEvent struct {
	Recipients []uint32
	Type       protocol.PacketType
	Reliable   bool
	Payload    []byte
}

// Summary is the public, listable view of a waiting, non-private room.
type Summary struct {
	RoomID     uint32
	Name       string
	Current    uint8
	Max        uint8
	Mode       uint8
	Difficulty uint8
}

// Manager owns every custom room. The mutex covers the dispatcher's
// tick-thread mutation and the admin console's queries, which run on
// another goroutine.
type Manager struct {
	mu       sync.Mutex
	rooms    map[uint32]*Room
	memberOf map[uint32]uint32 // player_id -> room_id
	nextID   uint32
	outbound []OutboundEvent
}

// NewManager returns an empty room manager.
func NewManager() *Manager {
	return &Manager{rooms: make(map[uint32]*Room), memberOf: make(map[uint32]uint32)}
}

// CreateRoom allocates a new room with the host automatically joined.
// password, if non-empty, is hashed with bcrypt before storage.
func (m *Manager) CreateRoom(host Member, name, password string, mode, difficulty uint8, mapID uint32, maxPlayers uint8, isPrivate bool) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var hash []byte
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	if maxPlayers == 0 {
		maxPlayers = 4
	}

	m.nextID++
	if name == "" {
		name = fmt.Sprintf("Room #%d", m.nextID)
	}
	r := &Room{
		ID: m.nextID, Name: name, passwordHash: hash, HostPlayerID: host.PlayerID,
		IsPrivate: isPrivate, Status: StatusWaiting, Mode: mode, Difficulty: difficulty,
		MapID: mapID, MaxPlayers: maxPlayers, Members: []Member{host},
	}
	m.rooms[r.ID] = r
	m.memberOf[host.PlayerID] = r.ID
	return r, nil
}

// JoinRoom attaches a player to an existing room, validating its
// password, capacity, and status.
func (m *Manager) JoinRoom(player Member, roomID uint32, password string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.Status != StatusWaiting {
		return nil, ErrRoomInProgress
	}
	if len(r.Members) >= int(r.MaxPlayers) {
		return nil, ErrRoomFull
	}
	if r.hasPassword() {
		if bcrypt.CompareHashAndPassword(r.passwordHash, []byte(password)) != nil {
			return nil, ErrWrongPassword
		}
	}

	r.Members = append(r.Members, player)
	m.memberOf[player.PlayerID] = r.ID
	m.broadcastMembership(r, player.PlayerID)
	return r, nil
}

// LeaveRoom detaches a player. If the departing player was host,
// ownership transfers to the earliest-joined remaining member. Empty
// rooms are destroyed on the next Tick, not inline.
func (m *Manager) LeaveRoom(playerID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.memberOf[playerID]
	if !ok {
		return
	}
	delete(m.memberOf, playerID)

	r, ok := m.rooms[roomID]
	if !ok {
		return
	}
	for i, mem := range r.Members {
		if mem.PlayerID == playerID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			break
		}
	}
	if len(r.Members) == 0 {
		return // reaped by Tick
	}
	if r.HostPlayerID == playerID {
		r.HostPlayerID = r.Members[0].PlayerID
	}
	m.broadcastMembership(r, 0)
}

// StartGame transitions a waiting room into countdown. Only the host
// may call it; it requires at least one player and fails if the room
// is already counting down or running.
func (m *Manager) StartGame(roomID, requester uint32) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.HostPlayerID != requester {
		return nil, ErrNotHost
	}
	if r.Status != StatusWaiting {
		return nil, ErrRoomInProgress
	}
	if len(r.Members) == 0 {
		return nil, ErrNotEnoughMembers
	}

	r.Status = StatusCountdown
	r.secondsLeft = countdownSeconds
	r.countdownAccum = 0
	m.broadcastCountdown(r)
	return r, nil
}

// Get looks up a room by id.
func (m *Manager) Get(id uint32) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	return r, ok
}

// RoomOf reports which room, if any, a player currently belongs to.
func (m *Manager) RoomOf(playerID uint32) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.memberOf[playerID]
	if !ok {
		return nil, false
	}
	r, ok := m.rooms[id]
	return r, ok
}

// Count reports the number of active rooms, for admin `info` output.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// GetPublicRooms enumerates every waiting, non-private room.
func (m *Manager) GetPublicRooms() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Summary, 0, len(m.rooms))
	for _, r := range m.rooms {
		if r.Status != StatusWaiting || r.IsPrivate {
			continue
		}
		out = append(out, Summary{
			RoomID: r.ID, Name: r.Name, Current: uint8(len(r.Members)),
			Max: r.MaxPlayers, Mode: r.Mode, Difficulty: r.Difficulty,
		})
	}
	return out
}

// Tick advances every counting-down room's countdown, emitting one
// countdown event per elapsed second, reaps empty rooms, and returns
// the rooms that reached zero this call so the caller can seed a
// session from their roster.
func (m *Manager) Tick(dt time.Duration) []*Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	var promoted []*Room
	for id, r := range m.rooms {
		if len(r.Members) == 0 {
			delete(m.rooms, id)
			continue
		}
		if r.Status != StatusCountdown {
			continue
		}
		r.countdownAccum += dt
		for r.countdownAccum >= time.Second && r.secondsLeft > 0 {
			r.countdownAccum -= time.Second
			r.secondsLeft--
			if r.secondsLeft == 0 {
				r.Status = StatusInProgress
				promoted = append(promoted, r)
				break
			}
			m.broadcastCountdown(r)
		}
	}
	return promoted
}

// Destroy removes a room outright, used once its promoted session ends.
func (m *Manager) Destroy(roomID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return
	}
	for _, mem := range r.Members {
		delete(m.memberOf, mem.PlayerID)
	}
	delete(m.rooms, roomID)
}

// DrainOutbound returns and clears the manager's outbound queue.
func (m *Manager) DrainOutbound() []OutboundEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.outbound
	m.outbound = nil
	return out
}

func (m *Manager) recipients(r *Room) []uint32 {
	ids := make([]uint32, len(r.Members))
	for i, mem := range r.Members {
		ids[i] = mem.PlayerID
	}
	return ids
}

// broadcastMembership tells each member (except skip, typically a new
// joiner the dispatcher replies to directly) the room's current host.
// The wire catalogue has no dedicated room-state packet, so membership
// changes reuse room_joined with a per-recipient YourPlayerID; this is
// how remaining members learn about a host transfer.
func (m *Manager) broadcastMembership(r *Room, skip uint32) {
	for _, mem := range r.Members {
		if mem.PlayerID == skip {
			continue
		}
		payload := protocol.EncodeRoomJoined(protocol.RoomJoinedPayload{
			RoomID:       r.ID,
			HostPlayerID: r.HostPlayerID,
			YourPlayerID: mem.PlayerID,
		})
		m.outbound = append(m.outbound, OutboundEvent{Recipients: []uint32{mem.PlayerID}, Type: protocol.TypeRoomJoined, Reliable: true, Payload: payload})
	}
}

func (m *Manager) broadcastCountdown(r *Room) {
	payload := protocol.EncodeCountdown(protocol.CountdownPayload{SecondsRemaining: r.secondsLeft})
	m.outbound = append(m.outbound, OutboundEvent{Recipients: m.recipients(r), Type: protocol.TypeCountdown, Reliable: true, Payload: payload})
}
