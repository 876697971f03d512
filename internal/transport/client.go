package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
)

// Client is the client-side half of the transport contract: dial the
// server, open the one reliable stream, and expose both channels.
type Client struct {
	conn   *quic.Conn
	stream *quic.Stream

	streamMu sync.Mutex
	events   chan Event
	closing  chan struct{}
}

// Connect dials the server and opens the reliable stream. The server
// accepts the stream (see Server.handleConn) before admitting the peer,
// so the stream must be opened before any application handshake bytes
// are sent.
func Connect(ctx context.Context, host string, port int) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := quic.DialAddr(ctx, addr, &tls.Config{
		InsecureSkipVerify: true, // self-signed server cert; see transport.selfSignedTLSConfig
		NextProtos:         []string{"rtype-arcade"},
	}, &quic.Config{EnableDatagrams: true})
	if err != nil {
		return nil, fmt.Errorf("transport: connect %s: %w", addr, err)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(0, "failed to open reliable stream")
		return nil, fmt.Errorf("transport: open stream: %w", err)
	}

	c := &Client{conn: conn, stream: stream, events: make(chan Event, 256), closing: make(chan struct{})}
	go c.readReliable()
	go c.readUnreliable()
	return c, nil
}

func (c *Client) readReliable() {
	for {
		frame, err := readFrame(c.stream)
		if err != nil {
			c.emit(Event{Kind: EventDisconnect})
			return
		}
		c.emit(Event{Kind: EventReceive, Channel: ChannelReliable, Data: frame})
	}
}

func (c *Client) readUnreliable() {
	for {
		data, err := c.conn.ReceiveDatagram(context.Background())
		if err != nil {
			return
		}
		cp := make([]byte, len(data))
		copy(cp, data)
		c.emit(Event{Kind: EventReceive, Channel: ChannelUnreliable, Data: cp})
	}
}

func (c *Client) emit(e Event) {
	select {
	case c.events <- e:
	case <-c.closing:
	}
}

// Poll returns the channel of incoming events for the client's
// networking core to drain every frame.
func (c *Client) Poll() <-chan Event { return c.events }

// SendReliable writes one framed packet to the server.
func (c *Client) SendReliable(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c.streamMu.Lock()
	defer c.streamMu.Unlock()
	c.stream.SetWriteDeadline(deadlineFromContext(ctx))
	_, err := c.stream.Write(data)
	return err
}

// SendUnreliable fires one datagram at the server.
func (c *Client) SendUnreliable(data []byte) error {
	return c.conn.SendDatagram(data)
}

// RTT reports the connection's current smoothed round-trip time.
func (c *Client) RTT() time.Duration { return c.conn.ConnectionStats().SmoothedRTT }

// Disconnect closes the connection to the server.
func (c *Client) Disconnect() {
	close(c.closing)
	c.conn.CloseWithError(0, "client disconnect")
}
