// Package transport implements the hybrid reliable/unreliable peer
// transport on top of QUIC: the reliable stream opened once per
// connection is the ordered channel, and QUIC datagrams are the
// unreliable channel, multiplexed over the same UDP socket so no
// second association handshake at the OS level is ever required.
package transport

// PeerID is the transport's reliable-channel identity, assigned
// monotonically by the server on accept.
type PeerID uint32

// Channel distinguishes which of the two logical channels a Receive
// event arrived on.
type Channel uint8

const (
	ChannelReliable Channel = iota
	ChannelUnreliable
)

// EventKind tags an Event's payload shape.
type EventKind uint8

const (
	EventConnect EventKind = iota
	EventDisconnect
	EventReceive
)

// Event is one item from Poll(): a peer connecting, disconnecting, or
// delivering bytes on one of its two channels.
type Event struct {
	Kind    EventKind
	Peer    PeerID
	Channel Channel
	Data    []byte
}
