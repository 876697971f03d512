// Package wire holds the default network addressing both the server
// and client binaries need without importing each other's cmd
// packages. The frame layout itself lives in internal/protocol, which
// both sides already depend on directly.
package wire

// DefaultPort is the single QUIC endpoint carrying both the reliable
// stream and unreliable datagrams, multiplexed over one UDP socket.
const DefaultPort = 4242

// DefaultAdminPort is the echo-fronted admin websocket bridge's port,
// kept separate from the game transport so exposing it publicly never
// requires opening the game port to a different authentication model.
const DefaultAdminPort = 4243
