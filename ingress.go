//////////////////////////////////////////////////////////////////////////////
//
// Ingress pipeline (C5, §4.5): a single non-blocking receive per tick,
// classified and dispatched to the RTCP parser, the DTLS engine (which may
// surface SCTP data), or the RTP consumer.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"net"
	"time"

	"github.com/pion/rtp"
)

const maxDatagramLen = 1500 + 256

// runIngress performs at most one non-blocking receive from the transport
// and dispatches it by classified kind (§4.5, §5: "at most one inbound
// datagram read" per tick).
func (pc *PeerConnection) runIngress() {
	buf, err := pc.receiveDatagram()
	if err != nil {
		pc.caps.OnPacketDropped("transport read: " + err.Error())
		return
	}
	if buf == nil {
		return
	}

	switch classify(buf) {
	case kindSTUN:
		// pion/ice already consumes STUN internally on this conn; a STUN
		// datagram reaching here is a spurious duplicate. Nothing to do.
	case kindDTLS:
		pc.transport.deliver(buf)
	case kindRTCP:
		if plaintext := pc.decryptRTCP(buf); plaintext != nil {
			pc.handleInboundRTCP(plaintext)
		}
	case kindRTP:
		pc.handleInboundRTP(buf)
	default:
		pc.caps.OnPacketDropped("classifier: unrecognized datagram")
	}
}

// receiveDatagram performs one non-blocking read from the ICE-selected
// candidate pair (§5: "agent_recv... return zero/negative if no data").
func (pc *PeerConnection) receiveDatagram() ([]byte, error) {
	if pc.iceConn == nil {
		return nil, nil
	}

	buf := make([]byte, maxDatagramLen)
	_ = pc.iceConn.SetReadDeadline(time.Now())
	n, err := pc.iceConn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, nil
		}
		return nil, err
	}
	return buf[:n], nil
}

// decryptRTCP unprotects an inbound SRTCP packet, returning nil on failure.
// A decrypt failure is reported through OnPacketDropped here; a missing SRTP
// context returns nil without reporting.
func (pc *PeerConnection) decryptRTCP(ciphertext []byte) []byte {
	if pc.srtp == nil {
		return nil
	}
	plaintext, err := pc.srtp.decryptRTCP(ciphertext)
	if err != nil {
		pc.caps.OnPacketDropped("srtcp decrypt: " + err.Error())
		return nil
	}
	return plaintext
}

// handleInboundRTP unprotects one SRTP packet and invokes OnTrack with the
// decrypted payload (§4.5; resolves spec.md §9's "ontrack never invoked"
// bug).
func (pc *PeerConnection) handleInboundRTP(ciphertext []byte) {
	if pc.srtp == nil {
		pc.caps.OnPacketDropped("rtp before srtp established")
		return
	}
	plaintext, err := pc.srtp.decryptRTP(ciphertext)
	if err != nil {
		pc.caps.OnPacketDropped("srtp decrypt: " + err.Error())
		return
	}

	var pkt rtp.Packet
	if err := pkt.Unmarshal(plaintext); err != nil {
		pc.caps.OnPacketDropped("rtp unmarshal: " + err.Error())
		return
	}
	pc.caps.OnTrack(pkt.Payload)
}
