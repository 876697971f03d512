package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quic-go/quic-go"
	"go.uber.org/zap"

	"github.com/rtype/arcade/internal/protocol"
)

// watchdogTimeout disconnects a peer with no activity on either channel
// for this long.
const watchdogTimeout = 30 * time.Second

// peer tracks one connected client's reliable stream, association state,
// and liveness.
type peer struct {
	id   PeerID
	conn *quic.Conn

	streamMu sync.Mutex
	stream   *quic.Stream

	associated atomic.Bool
	lastActive atomic.Int64 // unix nanos

	watchdog *time.Timer
}

func (p *peer) touch() { p.lastActive.Store(time.Now().UnixNano()) }

// Server accepts QUIC connections and exposes the hybrid reliable/
// unreliable channel contract to the dispatcher.
type Server struct {
	log *zap.SugaredLogger

	listener *quic.Listener

	mu      sync.RWMutex
	peers   map[PeerID]*peer
	nextID  atomic.Uint32
	events  chan Event
	closing chan struct{}
}

// NewServer returns an unstarted Server.
func NewServer(log *zap.SugaredLogger) *Server {
	return &Server{
		log:     log,
		peers:   make(map[PeerID]*peer),
		events:  make(chan Event, 1024),
		closing: make(chan struct{}),
	}
}

// StartServer binds one QUIC endpoint. bindAll binds 0.0.0.0 instead
// of localhost.
func (s *Server) StartServer(port int, bindAll bool) error {
	host := "127.0.0.1"
	if bindAll {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	tlsConf, err := selfSignedTLSConfig()
	if err != nil {
		return err
	}

	ln, err := quic.ListenAddr(addr, tlsConf, &quic.Config{
		EnableDatagrams: true,
		MaxIdleTimeout:  watchdogTimeout,
	})
	if err != nil {
		return fmt.Errorf("transport: listen %s: %w", addr, err)
	}
	s.listener = ln

	go s.acceptLoop()
	s.log.Infow("transport listening", "addr", addr)
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept(context.Background())
		if err != nil {
			select {
			case <-s.closing:
				return
			default:
				s.log.Warnw("accept failed", "error", err)
				return
			}
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn *quic.Conn) {
	stream, err := conn.AcceptStream(context.Background())
	if err != nil {
		s.log.Warnw("peer never opened reliable stream", "error", err)
		conn.CloseWithError(0, "no reliable stream")
		return
	}

	id := PeerID(s.nextID.Add(1))
	p := &peer{id: id, conn: conn, stream: stream}
	p.touch()
	p.watchdog = time.AfterFunc(watchdogTimeout, func() { s.reapIdle(id) })

	s.mu.Lock()
	s.peers[id] = p
	s.mu.Unlock()

	s.emit(Event{Kind: EventConnect, Peer: id})

	go s.readReliable(p)
	go s.readUnreliable(p)
}

func (s *Server) readReliable(p *peer) {
	for {
		frame, err := readFrame(p.stream)
		if err != nil {
			s.disconnect(p.id, "reliable stream closed")
			return
		}
		p.touch()
		p.watchdog.Reset(watchdogTimeout)
		s.emit(Event{Kind: EventReceive, Peer: p.id, Channel: ChannelReliable, Data: frame})
	}
}

// readFrame reads exactly one header-prefixed packet off an ordered
// stream. The stream is a byte pipe, not a datagram socket; a naive
// Read could hand back half a packet or two coalesced ones, so framing
// has to happen here, against the header's declared payload length.
// The length bytes are read positionally without validating the rest of
// the header — validation is the codec's job, and staying in sync with
// the stream matters even for packets the codec will then reject.
func readFrame(r io.Reader) ([]byte, error) {
	header := make([]byte, protocol.HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	payloadLen := int(binary.BigEndian.Uint16(header[2:4]))
	frame := make([]byte, protocol.HeaderSize+payloadLen)
	copy(frame, header)
	if _, err := io.ReadFull(r, frame[protocol.HeaderSize:]); err != nil {
		return nil, err
	}
	return frame, nil
}

func (s *Server) readUnreliable(p *peer) {
	for {
		data, err := p.conn.ReceiveDatagram(context.Background())
		if err != nil {
			return // connection gone; readReliable drives the disconnect event
		}
		p.touch()
		p.watchdog.Reset(watchdogTimeout)
		p.associated.Store(true)
		cp := make([]byte, len(data))
		copy(cp, data)
		s.emit(Event{Kind: EventReceive, Peer: p.id, Channel: ChannelUnreliable, Data: cp})
	}
}

func (s *Server) reapIdle(id PeerID) {
	s.log.Infow("peer watchdog expired", "peer", id)
	s.disconnect(id, "idle timeout")
}

func (s *Server) disconnect(id PeerID, reason string) {
	s.mu.Lock()
	p, ok := s.peers[id]
	if ok {
		delete(s.peers, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	p.watchdog.Stop()
	p.conn.CloseWithError(0, reason)
	s.emit(Event{Kind: EventDisconnect, Peer: id})
}

func (s *Server) emit(e Event) {
	select {
	case s.events <- e:
	case <-s.closing:
	}
}

// Poll returns the channel of transport events; the dispatcher's tick
// loop drains it once per tick.
func (s *Server) Poll() <-chan Event { return s.events }

// SendReliable writes one framed packet to a peer's ordered stream.
// The call never blocks past a short deadline; it fails rather than
// hanging on a dead peer.
func (s *Server) SendReliable(id PeerID, data []byte) error {
	p, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("transport: unknown peer %d", id)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	p.streamMu.Lock()
	defer p.streamMu.Unlock()
	p.stream.SetWriteDeadline(deadlineFromContext(ctx))
	_, err := p.stream.Write(data)
	return err
}

// SendUnreliable fires one datagram at a peer, fire-and-forget: it is
// never retried, and is a silent no-op if the peer has not yet
// completed the unreliable handshake.
func (s *Server) SendUnreliable(id PeerID, data []byte) error {
	p, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("transport: unknown peer %d", id)
	}
	if !p.associated.Load() {
		return nil
	}
	return p.conn.SendDatagram(data)
}

// BroadcastReliable sends to every connected peer except those in except.
func (s *Server) BroadcastReliable(data []byte, except ...PeerID) {
	for _, id := range s.allPeerIDs(except) {
		if err := s.SendReliable(id, data); err != nil {
			s.log.Debugw("broadcast reliable failed", "peer", id, "error", err)
		}
	}
}

// BroadcastUnreliable sends to every associated peer except those in except.
func (s *Server) BroadcastUnreliable(data []byte, except ...PeerID) {
	for _, id := range s.allPeerIDs(except) {
		if err := s.SendUnreliable(id, data); err != nil {
			s.log.Debugw("broadcast unreliable failed", "peer", id, "error", err)
		}
	}
}

// RTT reports the QUIC connection's current smoothed round-trip time.
func (s *Server) RTT(id PeerID) (time.Duration, error) {
	p, ok := s.lookup(id)
	if !ok {
		return 0, fmt.Errorf("transport: unknown peer %d", id)
	}
	return p.conn.ConnectionStats().SmoothedRTT, nil
}

// DisconnectPeer closes a peer's connection and frees its resources.
func (s *Server) DisconnectPeer(id PeerID) {
	s.disconnect(id, "server disconnect")
}

// Close shuts down the listener and every peer connection.
func (s *Server) Close() error {
	close(s.closing)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.mu.Lock()
	ids := make([]PeerID, 0, len(s.peers))
	for id := range s.peers {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.disconnect(id, "server shutdown")
	}
	return nil
}

func (s *Server) lookup(id PeerID) (*peer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.peers[id]
	return p, ok
}

func (s *Server) allPeerIDs(except []PeerID) []PeerID {
	skip := make(map[PeerID]struct{}, len(except))
	for _, id := range except {
		skip[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]PeerID, 0, len(s.peers))
	for id := range s.peers {
		if _, excluded := skip[id]; !excluded {
			ids = append(ids, id)
		}
	}
	return ids
}

func deadlineFromContext(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Time{}
}
