// Package signaling carries SDP offer/answer blobs between a PeerConnection
// and a remote browser peer over a local HTTP/WebSocket exchange.
package signaling

// SessionHandler is invoked once per connecting browser, on its own
// goroutine, with a Session bound to that browser's WebSocket.
type SessionHandler func(*Session)

// Client listens for signaling sessions and hands each to a SessionHandler.
type Client interface {
	// Listen connects/serves and handles incoming sessions. Blocks until an
	// error occurs or Shutdown is called.
	Listen() error

	// Shutdown interrupts the signaling client.
	Shutdown() error
}

// NewClient constructs the active signaling Client implementation. Set by
// whichever transport file (local.go) registers itself via init.
var NewClient func(handler SessionHandler) (Client, error)
