// Package dispatcher implements the server's single orchestrator: it
// drains the transport's event stream, routes decoded packets into the
// lobby/room managers and running sessions, and drains every manager's
// and session's outbound queue at one barrier broadcast per tick. It
// is the single concrete implementer of the network, lobby, and
// session listener roles, collapsed into one struct rather than three
// abstract interfaces wired together by pointer.
package dispatcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rtype/arcade/internal/leaderboard"
	"github.com/rtype/arcade/internal/lobby"
	"github.com/rtype/arcade/internal/protocol"
	"github.com/rtype/arcade/internal/room"
	"github.com/rtype/arcade/internal/session"
	"github.com/rtype/arcade/internal/transport"
)

// MaxPlayers is the transport's admission ceiling.
const MaxPlayers = 32

// defaultMapWidth / defaultMapHeight size every session's playfield;
// a map catalogue keyed by map_id would replace these, but asset
// loading is out of scope.
const (
	defaultMapWidth  = 1600
	defaultMapHeight = 900
)

// player is the dispatcher's per-connection roster record.
type player struct {
	clientID      transport.PeerID
	playerID      uint32
	name          string
	skin          uint8
	lobbyID       uint32
	roomID        uint32
	sessionID     uuid.UUID
	udpAssociated bool
}

func (p *player) inLobby() bool { return p.lobbyID != 0 }
func (p *player) inRoom() bool  { return p.roomID != 0 }
func (p *player) inSession() bool {
	return p.sessionID != uuid.Nil
}

// Dispatcher wires the transport, matchmaking managers, and session
// manager together and drives the fixed-tick loop.
type Dispatcher struct {
	log *zap.SugaredLogger

	transport *transport.Server
	lobbies   *lobby.Manager
	rooms     *room.Manager
	sessions  *session.Manager
	board     *leaderboard.Board

	mu          sync.Mutex // guards players/byClient/sequences; read by admin queries
	players     map[uint32]*player
	byClient    map[transport.PeerID]*player
	nextPlayer  uint32
	sequences   map[transport.PeerID]uint32

	// The wire's game_start/udp_handshake payloads carry a uint32
	// session_id, but internal/session keys sessions by uuid.UUID (so ids
	// stay unique across restarts without a persisted counter). This pair
	// of maps is the dispatcher-owned translation between the two,
	// assigned sequentially as sessions are created.
	sessionWireID  map[uuid.UUID]uint32
	wireIDSession  map[uint32]uuid.UUID
	nextSessionWID uint32

	// Custom-room sessions keep their room alive (status IN_PROGRESS)
	// until the session ends; this map ties each back for teardown.
	sessionRoom map[uuid.UUID]uint32

	paused         bool
	tickCount      uint64
	protocolErrors atomic.Uint64
}

// New wires a dispatcher around an already-constructed transport and
// the three managers it orchestrates.
func New(t *transport.Server, lobbies *lobby.Manager, rooms *room.Manager, sessions *session.Manager, board *leaderboard.Board, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		log: log, transport: t, lobbies: lobbies, rooms: rooms, sessions: sessions, board: board,
		players:       make(map[uint32]*player),
		byClient:      make(map[transport.PeerID]*player),
		sequences:     make(map[transport.PeerID]uint32),
		sessionWireID: make(map[uuid.UUID]uint32),
		wireIDSession: make(map[uint32]uuid.UUID),
		sessionRoom:   make(map[uuid.UUID]uint32),
	}
}

// Run drives the fixed 50ms tick loop until ctx is
// cancelled. Each tick: drain transport events, advance sessions,
// advance lobby/room countdowns, then broadcast every queued outbound
// event at the barrier.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(session.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Dispatcher) tick() {
	d.tickCount++
	d.drainTransportEvents()

	d.mu.Lock()
	paused := d.paused
	d.mu.Unlock()
	if !paused {
		if err := d.sessions.Tick(session.TickInterval); err != nil {
			d.log.Warnw("session tick error", "error", err)
		}
	}

	for _, l := range d.lobbies.Tick(session.TickInterval) {
		d.promoteLobby(l)
	}
	for _, r := range d.rooms.Tick(session.TickInterval) {
		d.promoteRoom(r)
	}

	d.barrierBroadcast()
	d.reapEndingSessions()

	if d.tickCount%session.TickRate == 0 {
		d.broadcastLeaderboard()
	}
}

// drainTransportEvents empties whatever the transport has queued so far
// this tick without blocking past what is already buffered.
func (d *Dispatcher) drainTransportEvents() {
	events := d.transport.Poll()
	for {
		select {
		case ev := <-events:
			d.handleTransportEvent(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) handleTransportEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventConnect:
		// Admission is deferred to the application-level CONNECT packet;
		// the raw QUIC connection alone does not yet have a player_id.
	case transport.EventDisconnect:
		d.handleDisconnect(ev.Peer)
	case transport.EventReceive:
		d.handleReceive(ev.Peer, ev.Channel, ev.Data)
	}
}

func (d *Dispatcher) handleReceive(peer transport.PeerID, ch transport.Channel, data []byte) {
	header, body, err := protocol.SplitFrame(data)
	if err != nil {
		d.protocolErrors.Add(1)
		// A version mismatch from a peer that never completed CONNECT is
		// an admission failure, not line noise: reject and close. Every
		// other malformed packet is dropped and the peer stays connected.
		if err == protocol.ErrBadVersion {
			if _, bound := d.playerOf(peer); !bound {
				d.sendReject(peer, protocol.ReasonVersionMismatch, "unsupported protocol version")
				return
			}
		}
		d.log.Debugw("dropping malformed packet", "peer", peer, "error", err)
		return
	}
	defer func() {
		// One malformed payload must never take the tick loop down with
		// it.
		if r := recover(); r != nil {
			d.log.Errorw("panic decoding packet", "peer", peer, "type", header.Type, "recover", r)
		}
	}()
	d.route(peer, ch, header.Type, body)
}

func (d *Dispatcher) route(peer transport.PeerID, ch transport.Channel, typ protocol.PacketType, body []byte) {
	switch typ {
	case protocol.TypeConnect:
		d.handleConnect(peer, body)
	case protocol.TypeDisconnect:
		d.transport.DisconnectPeer(peer)
	case protocol.TypePing:
		d.handlePing(peer, body)
	case protocol.TypeJoinLobby:
		d.handleJoinLobby(peer, body)
	case protocol.TypeLeaveLobby:
		d.handleLeaveLobby(peer)
	case protocol.TypeCreateRoom:
		d.handleCreateRoom(peer, body)
	case protocol.TypeJoinRoom:
		d.handleJoinRoom(peer, body)
	case protocol.TypeLeaveRoom:
		d.handleLeaveRoom(peer)
	case protocol.TypeRequestRoomList:
		d.handleRequestRoomList(peer)
	case protocol.TypeStartGame:
		d.handleStartGame(peer, body)
	case protocol.TypeSetPlayerName:
		d.handleSetPlayerName(peer, body)
	case protocol.TypeSetPlayerSkin:
		d.handleSetPlayerSkin(peer, body)
	case protocol.TypeUDPHandshake:
		d.handleUDPHandshake(peer, body)
	case protocol.TypeInput:
		d.handleInput(peer, body)
	default:
		d.log.Debugw("unhandled inbound packet type", "type", typ)
	}
}

func (d *Dispatcher) handleConnect(peer transport.PeerID, body []byte) {
	p, err := protocol.DecodeConnect(body)
	if err != nil {
		return
	}

	d.mu.Lock()
	if _, exists := d.byClient[peer]; exists {
		d.mu.Unlock()
		return // CONNECT precondition violated: already bound
	}
	if len(d.players) >= MaxPlayers {
		d.mu.Unlock()
		d.sendReject(peer, protocol.ReasonServerFull, "server full")
		return
	}
	for _, existing := range d.players {
		if existing.name == p.Name {
			d.mu.Unlock()
			d.sendReject(peer, protocol.ReasonDuplicateName, "name already in use")
			return
		}
	}

	d.nextPlayer++
	rec := &player{clientID: peer, playerID: d.nextPlayer, name: p.Name}
	d.players[rec.playerID] = rec
	d.byClient[peer] = rec
	d.mu.Unlock()

	d.log.Infow("player connected", "client_id", peer, "player_id", rec.playerID, "name", p.Name)
	d.sendReliable(peer, protocol.TypeAccept, protocol.EncodeAccept(protocol.AcceptPayload{
		AssignedPlayerID: rec.playerID,
		MapWidth:         defaultMapWidth,
		MapHeight:        defaultMapHeight,
	}))
}

func (d *Dispatcher) handleDisconnect(peer transport.PeerID) {
	d.mu.Lock()
	rec, ok := d.byClient[peer]
	if ok {
		delete(d.byClient, peer)
		delete(d.players, rec.playerID)
		delete(d.sequences, peer)
	}
	d.mu.Unlock()
	if !ok {
		return
	}

	if rec.inLobby() {
		d.lobbies.LeaveLobby(rec.playerID)
	}
	if rec.inRoom() {
		d.rooms.LeaveRoom(rec.playerID)
	}
	if rec.inSession() {
		if s, ok := d.sessions.Get(rec.sessionID); ok {
			s.RemovePlayer(rec.playerID)
		}
	}
	d.log.Infow("player disconnected", "player_id", rec.playerID)
}

func (d *Dispatcher) handlePing(peer transport.PeerID, body []byte) {
	p, err := protocol.DecodePing(body)
	if err != nil {
		return
	}
	d.sendReliable(peer, protocol.TypePong, protocol.EncodePong(protocol.PongPayload{Timestamp: p.Timestamp}))
}

func (d *Dispatcher) handleJoinLobby(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || rec.inLobby() {
		return
	}
	req, err := protocol.DecodeJoinLobby(body)
	if err != nil {
		return
	}

	l, err := d.lobbies.JoinLobby(lobby.Member{PlayerID: rec.playerID, Name: rec.name}, lobby.Mode(req.Mode), req.Difficulty, 1)
	if err != nil {
		return // ALREADY_IN_LOBBY: precondition already checked above, defensive
	}
	d.mu.Lock()
	rec.lobbyID = l.ID
	d.mu.Unlock()

	members := make([]uint32, 0, len(l.Members))
	for _, m := range l.Members {
		members = append(members, m.PlayerID)
	}
	d.sendExistingSkins(peer, members, rec.playerID)
}

func (d *Dispatcher) handleLeaveLobby(peer transport.PeerID) {
	rec, ok := d.playerOf(peer)
	if !ok || !rec.inLobby() {
		return
	}
	d.lobbies.LeaveLobby(rec.playerID)
	d.mu.Lock()
	rec.lobbyID = 0
	d.mu.Unlock()
}

func (d *Dispatcher) handleCreateRoom(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || rec.inRoom() {
		return
	}
	req, err := protocol.DecodeCreateRoom(body)
	if err != nil {
		return
	}
	// The wire carries no explicit privacy flag; a password-protected
	// room is treated as private and left off the public listing.
	isPrivate := req.PasswordHash != ""
	r, err := d.rooms.CreateRoom(room.Member{PlayerID: rec.playerID, Name: rec.name}, req.Name, req.PasswordHash, req.Mode, req.Difficulty, req.MapID, req.MaxPlayers, isPrivate)
	if err != nil {
		d.sendReliable(peer, protocol.TypeRoomError, protocol.EncodeRoomError(protocol.RoomErrorPayload{Reason: protocol.RoomErrorRoomNotFound, Message: err.Error()}))
		return
	}
	d.mu.Lock()
	rec.roomID = r.ID
	d.mu.Unlock()

	d.sendReliable(peer, protocol.TypeRoomCreated, protocol.EncodeRoomCreated(protocol.RoomCreatedPayload{RoomID: r.ID, HostPlayerID: r.HostPlayerID}))
}

func (d *Dispatcher) handleJoinRoom(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || rec.inRoom() {
		return
	}
	req, err := protocol.DecodeJoinRoom(body)
	if err != nil {
		return
	}

	r, err := d.rooms.JoinRoom(room.Member{PlayerID: rec.playerID, Name: rec.name}, req.RoomID, req.PasswordHash)
	if err != nil {
		d.sendReliable(peer, protocol.TypeRoomError, protocol.EncodeRoomError(protocol.RoomErrorPayload{Reason: roomErrorReason(err), Message: err.Error()}))
		return
	}
	d.mu.Lock()
	rec.roomID = r.ID
	d.mu.Unlock()
	d.sendReliable(peer, protocol.TypeRoomJoined, protocol.EncodeRoomJoined(protocol.RoomJoinedPayload{RoomID: r.ID, HostPlayerID: r.HostPlayerID, YourPlayerID: rec.playerID}))

	members := make([]uint32, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, m.PlayerID)
	}
	d.sendExistingSkins(peer, members, rec.playerID)
}

func (d *Dispatcher) handleLeaveRoom(peer transport.PeerID) {
	rec, ok := d.playerOf(peer)
	if !ok || !rec.inRoom() {
		return
	}
	roomID := rec.roomID
	d.rooms.LeaveRoom(rec.playerID)
	d.mu.Lock()
	rec.roomID = 0
	d.mu.Unlock()
	d.sendReliable(peer, protocol.TypeRoomLeft, protocol.EncodeRoomLeft(protocol.RoomLeftPayload{RoomID: roomID}))
}

func (d *Dispatcher) handleRequestRoomList(peer transport.PeerID) {
	summaries := d.rooms.GetPublicRooms()
	out := make([]protocol.RoomSummary, len(summaries))
	for i, s := range summaries {
		out[i] = protocol.RoomSummary{RoomID: s.RoomID, Name: s.Name, Current: s.Current, Max: s.Max, Mode: s.Mode, Difficulty: s.Difficulty}
	}
	d.sendReliable(peer, protocol.TypeRoomList, protocol.EncodeRoomList(protocol.RoomListPayload{Rooms: out}))
}

func (d *Dispatcher) handleStartGame(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || !rec.inRoom() {
		return
	}
	req, err := protocol.DecodeStartGame(body)
	if err != nil {
		return
	}
	if _, err := d.rooms.StartGame(req.RoomID, rec.playerID); err != nil {
		d.sendReliable(peer, protocol.TypeRoomError, protocol.EncodeRoomError(protocol.RoomErrorPayload{Reason: roomErrorReason(err), Message: err.Error()}))
	}
}

func (d *Dispatcher) handleSetPlayerName(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || !(rec.inLobby() || rec.inRoom()) {
		return
	}
	req, err := protocol.DecodeSetPlayerName(body)
	if err != nil || req.Name == "" {
		return
	}
	d.mu.Lock()
	rec.name = req.Name
	d.mu.Unlock()
	d.broadcastToPeers(rec, protocol.TypePlayerNameUpdated, protocol.EncodePlayerNameUpdated(protocol.PlayerNameUpdatedPayload{PlayerID: rec.playerID, Name: rec.name}))
}

func (d *Dispatcher) handleSetPlayerSkin(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || !(rec.inLobby() || rec.inRoom()) {
		return
	}
	req, err := protocol.DecodeSetPlayerSkin(body)
	if err != nil {
		return
	}
	d.mu.Lock()
	rec.skin = req.Skin
	d.mu.Unlock()
	d.broadcastToPeers(rec, protocol.TypePlayerSkinUpdated, protocol.EncodePlayerSkinUpdated(protocol.PlayerSkinUpdatedPayload{PlayerID: rec.playerID, Skin: rec.skin}))
}

func (d *Dispatcher) handleUDPHandshake(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || !rec.inSession() {
		return
	}
	req, err := protocol.DecodeUDPHandshake(body)
	if err != nil {
		return
	}
	if req.PlayerID != rec.playerID {
		return
	}
	d.mu.Lock()
	sid, ok := d.wireIDSession[req.SessionID]
	d.mu.Unlock()
	if !ok || sid != rec.sessionID {
		return
	}
	d.mu.Lock()
	rec.udpAssociated = true
	d.mu.Unlock()
}

func (d *Dispatcher) handleInput(peer transport.PeerID, body []byte) {
	rec, ok := d.playerOf(peer)
	if !ok || !rec.inSession() || !rec.udpAssociated {
		return
	}
	req, err := protocol.DecodeInput(body)
	if err != nil || req.PlayerID != rec.playerID {
		return
	}
	s, ok := d.sessions.Get(rec.sessionID)
	if !ok {
		return
	}
	_ = s.HandleInput(req.PlayerID, req)
}

// promoteLobby seeds a new session from a promoted lobby's roster and
// broadcasts game_start to every member.
func (d *Dispatcher) promoteLobby(l *lobby.Lobby) {
	roster := make([]session.RosterMember, len(l.Members))
	for i, m := range l.Members {
		roster[i] = session.RosterMember{PlayerID: m.PlayerID, Name: m.Name}
	}
	s := d.sessions.Create(roster, session.KindSideScroller, l.MapID, defaultMapWidth, defaultMapHeight)
	wireID := d.attachRoster(roster, s.ID)
	d.announceGameStart(s, wireID, l.MapID, roster)
}

// promoteRoom mirrors promoteLobby for the custom-room flow. Room.Mode
// doubles as the game-kind selector: 0 starts the side-scroller, 1 the
// blob arena.
func (d *Dispatcher) promoteRoom(r *room.Room) {
	roster := make([]session.RosterMember, len(r.Members))
	for i, m := range r.Members {
		roster[i] = session.RosterMember{PlayerID: m.PlayerID, Name: m.Name}
	}
	kind := session.KindSideScroller
	if r.Mode == 1 {
		kind = session.KindBlob
	}
	s := d.sessions.Create(roster, kind, r.MapID, defaultMapWidth, defaultMapHeight)
	wireID := d.attachRoster(roster, s.ID)
	d.mu.Lock()
	d.sessionRoom[s.ID] = r.ID
	d.mu.Unlock()
	d.announceGameStart(s, wireID, r.MapID, roster)
}

// announceGameStart sends each roster member their own game_start frame,
// carrying the shared session id plus that member's replicated entity.
func (d *Dispatcher) announceGameStart(s *session.Session, wireID, mapID uint32, roster []session.RosterMember) {
	for _, m := range roster {
		peer, ok := d.peerFor(m.PlayerID)
		if !ok {
			continue
		}
		entity, _ := s.PlayerEntity(m.PlayerID)
		d.sendReliable(peer, protocol.TypeGameStart, protocol.EncodeGameStart(protocol.GameStartPayload{
			SessionID:    wireID,
			MapID:        mapID,
			YourEntityID: uint32(entity),
		}))
	}
}

// sendExistingSkins catches a new lobby/room member up on every other
// member's current skin, one player_skin frame each.
func (d *Dispatcher) sendExistingSkins(peer transport.PeerID, memberIDs []uint32, joiner uint32) {
	d.mu.Lock()
	type skinOf struct {
		playerID uint32
		skin     uint8
	}
	skins := make([]skinOf, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == joiner {
			continue
		}
		if other, ok := d.players[id]; ok {
			skins = append(skins, skinOf{playerID: id, skin: other.skin})
		}
	}
	d.mu.Unlock()

	for _, s := range skins {
		d.sendReliable(peer, protocol.TypePlayerSkin, protocol.EncodePlayerSkin(protocol.PlayerSkinPayload{PlayerID: s.playerID, Skin: s.skin}))
	}
}

// peerFor looks up the transport peer currently bound to a player id.
func (d *Dispatcher) peerFor(playerID uint32) (transport.PeerID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.players[playerID]
	if !ok {
		return 0, false
	}
	return rec.clientID, true
}

// attachRoster binds every roster member to the new session, assigns it
// a wire-visible uint32 id, and returns that id for the game_start
// broadcast.
func (d *Dispatcher) attachRoster(roster []session.RosterMember, sid uuid.UUID) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextSessionWID++
	wireID := d.nextSessionWID
	d.sessionWireID[sid] = wireID
	d.wireIDSession[wireID] = sid

	for _, m := range roster {
		if rec, ok := d.players[m.PlayerID]; ok {
			rec.sessionID = sid
			rec.lobbyID = 0
			rec.roomID = 0
		}
	}
	return wireID
}

// barrierBroadcast drains every manager's and session's outbound queue,
// in production order, and broadcasts each on the channel its event
// type belongs to. The snapshot for a tick goes out after every
// spawn/destroy event that tick produced, so peers always observe a
// sequence consistent with one tick boundary.
func (d *Dispatcher) barrierBroadcast() {
	for _, ev := range d.lobbies.DrainOutbound() {
		d.sendToPlayerIDs(ev.Recipients, ev.Type, ev.Reliable, ev.Payload)
	}
	for _, ev := range d.rooms.DrainOutbound() {
		d.sendToPlayerIDs(ev.Recipients, ev.Type, ev.Reliable, ev.Payload)
	}
	for _, s := range d.sessions.List() {
		recipients := d.sessionRecipients(s.ID)
		for _, ev := range s.DrainOutbound() {
			if ev.Recipient != 0 {
				d.sendToPlayerIDs([]uint32{ev.Recipient}, ev.Type, ev.Reliable, ev.Payload)
				continue
			}
			d.sendToPlayerIDs(recipients, ev.Type, ev.Reliable, ev.Payload)
		}
	}
}

func (d *Dispatcher) sessionRecipients(sid uuid.UUID) []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []uint32
	for id, rec := range d.players {
		if rec.sessionID == sid {
			out = append(out, id)
		}
	}
	return out
}

func (d *Dispatcher) reapEndingSessions() {
	for _, s := range d.sessions.EndingSessions() {
		d.sessions.Remove(s.ID)
		d.submitFinalScores(s)

		d.mu.Lock()
		for _, rec := range d.players {
			if rec.sessionID == s.ID {
				rec.sessionID = uuid.Nil
				rec.udpAssociated = false
			}
		}
		if wireID, ok := d.sessionWireID[s.ID]; ok {
			delete(d.wireIDSession, wireID)
			delete(d.sessionWireID, s.ID)
		}
		roomID, hadRoom := d.sessionRoom[s.ID]
		delete(d.sessionRoom, s.ID)
		d.mu.Unlock()

		if hadRoom {
			d.rooms.Destroy(roomID)
		}
	}
}

// submitFinalScores feeds each roster member's final score into the
// global leaderboard; the next 1 Hz leaderboard frame carries the
// result to every connected peer.
func (d *Dispatcher) submitFinalScores(s *session.Session) {
	for playerID, score := range s.FinalScores() {
		d.mu.Lock()
		rec, ok := d.players[playerID]
		name := ""
		if ok {
			name = rec.name
		}
		d.mu.Unlock()
		if !ok {
			continue
		}
		if d.board.Add(name, score, time.Now().Unix()) {
			d.log.Infow("leaderboard entry recorded", "player_id", playerID, "name", name, "score", score)
		}
	}
}

// broadcastLeaderboard pushes the current global top-10 to every
// connected peer, once per second.
func (d *Dispatcher) broadcastLeaderboard() {
	snap := d.board.Snapshot()
	entries := make([]protocol.LeaderboardEntry, len(snap))
	for i, e := range snap {
		entries[i] = protocol.LeaderboardEntry{
			Name:      e.PlayerName,
			Score:     uint32(e.BestScore),
			Timestamp: uint32(e.Timestamp),
		}
	}
	payload := protocol.EncodeGlobalLeaderboard(protocol.GlobalLeaderboardPayload{Entries: entries})

	d.mu.Lock()
	peers := make([]transport.PeerID, 0, len(d.byClient))
	for peer := range d.byClient {
		peers = append(peers, peer)
	}
	d.mu.Unlock()

	for _, peer := range peers {
		d.sendReliable(peer, protocol.TypeGlobalLeaderboard, payload)
	}
}

func (d *Dispatcher) shutdown() {
	for _, s := range d.sessions.List() {
		s.End(protocol.GameOverShutdown)
	}
	d.barrierBroadcast()
}

// --- send helpers ---

func (d *Dispatcher) playerOf(peer transport.PeerID) (*player, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.byClient[peer]
	return rec, ok
}

func (d *Dispatcher) broadcastToPeers(rec *player, typ protocol.PacketType, payload []byte) {
	var ids []uint32
	if rec.inLobby() {
		if l, ok := d.lobbies.Get(rec.lobbyID); ok {
			for _, m := range l.Members {
				ids = append(ids, m.PlayerID)
			}
		}
	}
	if rec.inRoom() {
		if r, ok := d.rooms.Get(rec.roomID); ok {
			for _, m := range r.Members {
				ids = append(ids, m.PlayerID)
			}
		}
	}
	d.sendToPlayerIDs(ids, typ, true, payload)
}

func (d *Dispatcher) sendToPlayerIDs(ids []uint32, typ protocol.PacketType, reliable bool, payload []byte) {
	d.mu.Lock()
	peers := make([]transport.PeerID, 0, len(ids))
	for _, id := range ids {
		if rec, ok := d.players[id]; ok {
			peers = append(peers, rec.clientID)
		}
	}
	d.mu.Unlock()

	for _, peer := range peers {
		if reliable {
			d.sendReliable(peer, typ, payload)
		} else {
			d.sendUnreliable(peer, typ, payload)
		}
	}
}

func (d *Dispatcher) sendReliable(peer transport.PeerID, typ protocol.PacketType, payload []byte) {
	seq := d.nextSequence(peer)
	if err := d.transport.SendReliable(peer, protocol.Frame(typ, seq, payload)); err != nil {
		d.log.Debugw("send reliable failed", "peer", peer, "type", typ, "error", err)
	}
}

func (d *Dispatcher) sendUnreliable(peer transport.PeerID, typ protocol.PacketType, payload []byte) {
	seq := d.nextSequence(peer)
	if err := d.transport.SendUnreliable(peer, protocol.Frame(typ, seq, payload)); err != nil {
		d.log.Debugw("send unreliable failed", "peer", peer, "type", typ, "error", err)
	}
}

func (d *Dispatcher) sendReject(peer transport.PeerID, reason protocol.RejectReason, msg string) {
	d.sendReliable(peer, protocol.TypeReject, protocol.EncodeReject(protocol.RejectPayload{Reason: reason, Message: msg}))
	d.transport.DisconnectPeer(peer)
}

func (d *Dispatcher) nextSequence(peer transport.PeerID) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sequences[peer]++
	return d.sequences[peer]
}

func roomErrorReason(err error) protocol.RoomErrorReason {
	switch err {
	case room.ErrWrongPassword:
		return protocol.RoomErrorWrongPassword
	case room.ErrRoomFull:
		return protocol.RoomErrorRoomFull
	case room.ErrRoomNotFound:
		return protocol.RoomErrorRoomNotFound
	case room.ErrRoomInProgress:
		return protocol.RoomErrorRoomInProgress
	default:
		return protocol.RoomErrorRoomNotFound
	}
}
