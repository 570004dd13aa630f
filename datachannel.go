//////////////////////////////////////////////////////////////////////////////
//
// Data channel adapter (C6/C7, §4.3): bridges one accepted
// github.com/pion/datachannel.DataChannel onto the Capabilities surface.
// DCEP open/ack is handled inside pion/datachannel itself; this layer only
// deals with the string/binary payload framing the spec names explicitly.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"errors"
	"io"
	"sync"

	"github.com/pion/datachannel"
)

const dataChannelReceiveMTU = 8192

type dataChannelBridge struct {
	dc   *datachannel.DataChannel
	caps Capabilities

	mu     sync.Mutex
	closed bool
}

func newDataChannelBridge(dc *datachannel.DataChannel, caps Capabilities) *dataChannelBridge {
	b := &dataChannelBridge{dc: dc, caps: caps}
	caps.OnDataChannelOpen()
	go b.readLoop()
	return b
}

// readLoop runs off the dispatch loop (§5): pion/datachannel.ReadDataChannel
// blocks on the wire, so it cannot be polled from loop() without stalling it.
// OnDataChannelMessage and OnDataChannelClose are called from this goroutine,
// not from the Loop goroutine; callers must make those implementations safe
// for that.
func (b *dataChannelBridge) readLoop() {
	buf := make([]byte, dataChannelReceiveMTU)
	for {
		n, isString, err := b.dc.ReadDataChannel(buf)
		if err != nil {
			b.mu.Lock()
			already := b.closed
			b.closed = true
			b.mu.Unlock()
			if already {
				// close() ran first (Destroy): no further capability fires.
				return
			}
			if !errors.Is(err, io.EOF) {
				b.caps.OnPacketDropped("datachannel read: " + err.Error())
			}
			b.caps.OnDataChannelClose()
			return
		}
		msg := append([]byte(nil), buf[:n]...)
		b.caps.OnDataChannelMessage(msg, isString)
	}
}

// send writes one message, framed per the ordered/string PPID rules
// pion/datachannel applies internally (§4.3).
func (b *dataChannelBridge) send(data []byte, isString bool) error {
	_, err := b.dc.WriteDataChannel(data, isString)
	return err
}

func (b *dataChannelBridge) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.dc.Close()
}
