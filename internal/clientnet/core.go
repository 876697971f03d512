package clientnet

import (
	"context"

	"go.uber.org/zap"

	"github.com/rtype/arcade/internal/ecs"
	"github.com/rtype/arcade/internal/protocol"
	"github.com/rtype/arcade/internal/transport"
)

// tickSeconds is the server's fixed simulation step. Prediction and
// replay integrate with the same step so the client's movement math
// matches the authority's exactly.
const tickSeconds = 0.05

// Core is the client-side networking core: it owns the transport
// connection, sequences outgoing packets, routes inbound packets into
// the predictor and interpolator, and surfaces the session state a
// frontend (rendering/input backend loop) needs each frame. The
// frontend calls Poll once per frame, per the client loop contract.
type Core struct {
	client *transport.Client
	log    *zap.SugaredLogger

	Predictor    *Predictor
	Interpolator *Interpolator

	// BlobState selects the blob-game snapshot layout (the wire itself
	// carries no discriminator); set it before the session starts, from
	// the room mode the player picked.
	BlobState bool

	playerID  uint32
	sessionID uint32
	entityID  uint32

	mapWidth, mapHeight float32

	connected  bool
	inSession  bool
	lastReject string

	sendSeq uint32
}

// NewCore returns a core with an empty predictor and interpolator,
// not yet connected.
func NewCore(log *zap.SugaredLogger) *Core {
	return &Core{
		log:          log,
		Predictor:    NewPredictor(ecs.Position{}),
		Interpolator: NewInterpolator(),
	}
}

// Connect dials the server and sends the application-level CONNECT
// carrying the player's display name. The ACCEPT (or REJECT) reply
// arrives through Poll.
func (c *Core) Connect(ctx context.Context, host string, port int, name string) error {
	client, err := transport.Connect(ctx, host, port)
	if err != nil {
		return err
	}
	c.client = client
	c.connected = true
	return c.sendReliable(protocol.TypeConnect, protocol.EncodeConnect(protocol.ConnectPayload{Name: name}))
}

// Disconnect closes the connection, if any.
func (c *Core) Disconnect() {
	if c.client != nil {
		c.client.Disconnect()
	}
	c.connected = false
	c.inSession = false
}

// Connected reports whether the transport connection is up.
func (c *Core) Connected() bool { return c.connected }

// InSession reports whether a game_start has been received and no
// game_over yet.
func (c *Core) InSession() bool { return c.inSession }

// PlayerID returns the stable identity the server assigned at accept.
func (c *Core) PlayerID() uint32 { return c.playerID }

// LocalEntityID returns the wire id of the locally controlled entity.
func (c *Core) LocalEntityID() uint32 { return c.entityID }

// MapSize returns the playfield dimensions from the accept payload.
func (c *Core) MapSize() (w, h float32) { return c.mapWidth, c.mapHeight }

// DisconnectReason returns the last REJECT message, or the generic
// message when the server dropped the connection without one.
func (c *Core) DisconnectReason() string {
	if c.lastReject != "" {
		return c.lastReject
	}
	return "Disconnected from server"
}

// Poll drains every transport event received since the last call and
// routes each decoded packet. Called once per frame by the frontend
// loop; it never blocks.
func (c *Core) Poll() {
	if c.client == nil {
		return
	}
	events := c.client.Poll()
	for {
		select {
		case ev := <-events:
			c.handleEvent(ev)
		default:
			return
		}
	}
}

// SendInput applies one frame of player intent locally (prediction) and
// ships it to the server on the unreliable channel. No-op outside a
// session.
func (c *Core) SendInput(flags ecs.InputFlags, clientTimestamp uint32) {
	if !c.inSession {
		return
	}
	pending := c.Predictor.ApplyInput(flags, clientTimestamp, tickSeconds)
	payload := protocol.EncodeInput(protocol.InputPayload{
		PlayerID:        c.playerID,
		InputFlags:      uint16(flags),
		Sequence:        pending.Sequence,
		ClientTimestamp: clientTimestamp,
	})
	c.sendUnreliable(protocol.TypeInput, payload)
}

// JoinLobby requests quick-match placement.
func (c *Core) JoinLobby(mode, difficulty uint8) error {
	return c.sendReliable(protocol.TypeJoinLobby, protocol.EncodeJoinLobby(protocol.JoinLobbyPayload{Mode: mode, Difficulty: difficulty}))
}

// Ping sends an application-level ping the server echoes back as pong.
func (c *Core) Ping(timestamp uint32) error {
	return c.sendReliable(protocol.TypePing, protocol.EncodePing(protocol.PingPayload{Timestamp: timestamp}))
}

func (c *Core) handleEvent(ev transport.Event) {
	switch ev.Kind {
	case transport.EventDisconnect:
		c.connected = false
		c.inSession = false
	case transport.EventReceive:
		header, body, err := protocol.SplitFrame(ev.Data)
		if err != nil {
			if c.log != nil {
				c.log.Debugw("dropping malformed packet", "error", err)
			}
			return
		}
		c.handlePacket(header.Type, body)
	}
}

func (c *Core) handlePacket(typ protocol.PacketType, body []byte) {
	switch typ {
	case protocol.TypeAccept:
		p, err := protocol.DecodeAccept(body)
		if err != nil {
			return
		}
		c.playerID = p.AssignedPlayerID
		c.mapWidth, c.mapHeight = p.MapWidth, p.MapHeight
	case protocol.TypeReject:
		if p, err := protocol.DecodeReject(body); err == nil {
			c.lastReject = p.Message
		}
	case protocol.TypeGameStart:
		p, err := protocol.DecodeGameStart(body)
		if err != nil {
			return
		}
		c.sessionID = p.SessionID
		c.entityID = p.YourEntityID
		c.inSession = true
		c.Predictor.Reset()
		c.Interpolator.Clear()
		c.associateUnreliable()
	case protocol.TypeSnapshot:
		c.handleSnapshot(body)
	case protocol.TypeEntityDestroy:
		if p, err := protocol.DecodeEntityDestroy(body); err == nil {
			c.Interpolator.Forget(p.EntityID)
		}
	case protocol.TypeGameOver:
		c.inSession = false
		c.Predictor.Reset()
		c.Interpolator.Clear()
	}
}

func (c *Core) handleSnapshot(body []byte) {
	p, err := protocol.DecodeSnapshot(body, c.BlobState)
	if err != nil {
		return
	}
	for _, state := range p.Entities {
		if state.EntityID == c.entityID {
			serverPos := ecs.Position{X: float64(state.PositionX), Y: float64(state.PositionY)}
			c.Predictor.Reconcile(p.LastProcessedInputSequence, serverPos, tickSeconds)
			continue
		}
		c.Interpolator.Ingest(p.ServerTick, state, c.entityID)
	}
}

// associateUnreliable sends the udp_handshake on both channels: the
// reliable copy carries the session/player pair the dispatcher
// validates, and the datagram copy is what teaches the transport this
// peer can receive datagrams at all.
func (c *Core) associateUnreliable() {
	payload := protocol.EncodeUDPHandshake(protocol.UDPHandshakePayload{SessionID: c.sessionID, PlayerID: c.playerID})
	_ = c.sendReliable(protocol.TypeUDPHandshake, payload)
	c.sendUnreliable(protocol.TypeUDPHandshake, payload)
}

func (c *Core) sendReliable(typ protocol.PacketType, payload []byte) error {
	if c.client == nil {
		return nil
	}
	c.sendSeq++
	return c.client.SendReliable(protocol.Frame(typ, c.sendSeq, payload))
}

func (c *Core) sendUnreliable(typ protocol.PacketType, payload []byte) {
	if c.client == nil {
		return
	}
	c.sendSeq++
	_ = c.client.SendUnreliable(protocol.Frame(typ, c.sendSeq, payload))
}
