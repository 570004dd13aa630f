//////////////////////////////////////////////////////////////////////////////
//
// Packet classifier (§4.3): routes an inbound datagram to STUN/DTLS/RTP/RTCP
// by inspecting its leading bytes. Replaces the source's byte-range
// if/else-if chain with a tagged variant (spec.md §9).
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import "github.com/pion/stun/v3"

// Kind of an inbound datagram, as determined by Classify.
type datagramKind int

const (
	kindDrop datagramKind = iota
	kindSTUN
	kindDTLS
	kindRTP
	kindRTCP
)

const (
	minSTUNLen = 20
	minDTLSLen = 13
	minRTPLen  = 12
)

// classify inspects the leading bytes of buf and returns exactly one
// datagramKind, per §4.3 and the classifier-totality property (§8.5): every
// byte prefix in [0,255] maps to one of {STUN, DTLS, RTP, RTCP, drop}.
func classify(buf []byte) datagramKind {
	if len(buf) == 0 {
		return kindDrop
	}
	b0 := buf[0]

	switch {
	case b0 < 4:
		if len(buf) < minSTUNLen || !stun.IsMessage(buf) {
			return kindDrop
		}
		return kindSTUN

	case b0 >= 20 && b0 <= 63:
		if len(buf) < minDTLSLen {
			return kindDrop
		}
		return kindDTLS

	case b0 >= 128 && b0 <= 191:
		if len(buf) < minRTPLen {
			return kindDrop
		}
		// RTP version bits (top two bits of byte 0) must read 10.
		if b0>>6 != 2 {
			return kindDrop
		}
		payloadType := buf[1]
		if payloadType >= 200 && payloadType <= 210 {
			return kindRTCP
		}
		return kindRTP

	default:
		return kindDrop
	}
}
