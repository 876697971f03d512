// Package protocol implements the wire framing and payload codec shared
// by both games: a fixed 8-byte header followed by a payload whose shape
// is fully determined by the header's type tag.
//
// Wire convention (documented once, both ends agree): multi-byte
// integers are network byte order (big-endian); floats are IEEE-754
// little-endian.
package protocol

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the fixed length, in bytes, of every packet's header.
const HeaderSize = 8

// ProtocolVersion is the only version this codec accepts.
const ProtocolVersion uint8 = 1

var (
	// ErrTruncated is returned when fewer bytes than header+payload_length
	// are available.
	ErrTruncated = errors.New("protocol: truncated packet")
	// ErrBadVersion is returned when the header's version byte does not
	// match ProtocolVersion.
	ErrBadVersion = errors.New("protocol: unsupported version")
	// ErrBadType is returned when the header's type tag is not a known
	// packet type.
	ErrBadType = errors.New("protocol: unknown packet type")
	// ErrCountMismatch is returned when a variable-length packet's
	// declared payload_length disagrees with its embedded entry count.
	ErrCountMismatch = errors.New("protocol: count/length mismatch")
)

// Header is the fixed 8-byte frame prefix.
type Header struct {
	Version        uint8
	Type           PacketType
	PayloadLength  uint16
	SequenceNumber uint32
}

// Encode writes the header in network byte order.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = h.Version
	buf[1] = uint8(h.Type)
	binary.BigEndian.PutUint16(buf[2:4], h.PayloadLength)
	binary.BigEndian.PutUint32(buf[4:8], h.SequenceNumber)
	return buf
}

// DecodeHeader parses the first HeaderSize bytes of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrTruncated
	}
	h := Header{
		Version:        buf[0],
		Type:           PacketType(buf[1]),
		PayloadLength:  binary.BigEndian.Uint16(buf[2:4]),
		SequenceNumber: binary.BigEndian.Uint32(buf[4:8]),
	}
	if h.Version != ProtocolVersion {
		return Header{}, ErrBadVersion
	}
	if !h.Type.Valid() {
		return Header{}, ErrBadType
	}
	return h, nil
}

// Frame prefixes an encoded payload with its header, filling in
// PayloadLength from the payload's length.
func Frame(typ PacketType, seq uint32, payload []byte) []byte {
	h := Header{
		Version:        ProtocolVersion,
		Type:           typ,
		PayloadLength:  uint16(len(payload)),
		SequenceNumber: seq,
	}
	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, h.Encode()...)
	out = append(out, payload...)
	return out
}

// SplitFrame validates and separates a full packet (header+payload)
// read off the wire into its header and payload slice.
func SplitFrame(buf []byte) (Header, []byte, error) {
	h, err := DecodeHeader(buf)
	if err != nil {
		return Header{}, nil, err
	}
	rest := buf[HeaderSize:]
	if len(rest) < int(h.PayloadLength) {
		return Header{}, nil, ErrTruncated
	}
	return h, rest[:h.PayloadLength], nil
}
