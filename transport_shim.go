//////////////////////////////////////////////////////////////////////////////
//
// Transport shim (§9, "Global-ish transport shims -> explicit context"): an
// explicit net.Conn backing the DTLS engine, fed inbound bytes by the
// ingress pipeline's classifier instead of reading the ICE agent directly.
// Outbound bytes go straight to the underlying ICE net.Conn — UDP sends
// don't block, so Write never needs buffering.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"io"
	"net"
	"time"
)

// loopConn adapts the classifier's demultiplexed byte stream into a
// net.Conn, so engines written against net.Conn (pion/dtls) can be driven
// from our single-threaded dispatch loop without reading the wire directly.
// Reads block on inbound — this is safe because it is only ever called from
// a dedicated handshake/engine goroutine, never from loop() itself (§5).
type loopConn struct {
	underlying net.Conn
	inbound    chan []byte
	closed     chan struct{}
}

func newLoopConn(underlying net.Conn) *loopConn {
	return &loopConn{
		underlying: underlying,
		inbound:    make(chan []byte, 32),
		closed:     make(chan struct{}),
	}
}

// deliver hands one classified datagram to the conn's reader. Called from
// the ingress pipeline on the loop thread; never blocks (buffered channel,
// drops on overflow rather than stalling the tick).
func (c *loopConn) deliver(buf []byte) {
	cp := append([]byte(nil), buf...)
	select {
	case c.inbound <- cp:
	default:
		// Reader is behind; drop rather than block the dispatch loop.
	}
}

func (c *loopConn) Read(p []byte) (int, error) {
	select {
	case buf := <-c.inbound:
		n := copy(p, buf)
		return n, nil
	case <-c.closed:
		return 0, io.EOF
	}
}

func (c *loopConn) Write(p []byte) (int, error) {
	return c.underlying.Write(p)
}

func (c *loopConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *loopConn) LocalAddr() net.Addr                { return c.underlying.LocalAddr() }
func (c *loopConn) RemoteAddr() net.Addr               { return c.underlying.RemoteAddr() }
func (c *loopConn) SetDeadline(t time.Time) error       { return nil }
func (c *loopConn) SetReadDeadline(t time.Time) error   { return nil }
func (c *loopConn) SetWriteDeadline(t time.Time) error  { return nil }
