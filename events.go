//////////////////////////////////////////////////////////////////////////////
//
// Event surface (§4.7): a capability interface replaces the source's raw
// function-pointer + user_data pairs (see spec.md §9, "Callback polymorphism
// -> interface abstraction").
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

// Capabilities is the set of events a PeerConnection owner can observe. Every
// method is optional: embed NoCapabilities and override only what you need.
// Unset capabilities are explicit no-ops, never nil-panics.
type Capabilities interface {
	// OnICECandidate fires once per NEW cycle with the fully assembled local
	// SDP, after ICE gathering completes or, if it has not completed within
	// the 5-second gathering timeout, with the candidates found so far.
	OnICECandidate(sdp string)

	// OnStateChange fires on real PeerConnection state transitions only.
	OnStateChange(state State)

	// OnTrack delivers a decrypted RTP payload for inbound media.
	OnTrack(payload []byte)

	// OnConnected fires once when DTLS-SRTP reaches State.Connected.
	OnConnected()

	// OnReceiverPacketLoss reports a parsed RTCP Receiver Report: fraction in
	// [0,1) and the 24-bit cumulative lost-packet count.
	OnReceiverPacketLoss(fraction float64, cumulative uint32)

	// OnDataChannelMessage delivers one complete inbound data-channel user
	// message (never partial — SCTP framing already reassembled it).
	OnDataChannelMessage(data []byte, isString bool)

	// OnDataChannelOpen fires once the SCTP data channel finishes its DCEP
	// open handshake and is ready to send.
	OnDataChannelOpen()

	// OnDataChannelClose fires when the data channel, or the SCTP
	// association carrying it, closes or fails to read. It does not fire for
	// the close Destroy performs.
	OnDataChannelClose()

	// OnPacketDropped is an optional metrics sink (§4.3): called whenever an
	// inbound datagram is dropped (unclassifiable, undecryptable or
	// unparsable), and also when an outbound packet or message fails to
	// marshal, encrypt or send, or a remote candidate is rejected. reason is a
	// short human-readable description of the form "stage: error text"
	// (e.g. "srtp decrypt: ...", "classifier: unrecognized datagram").
	OnPacketDropped(reason string)
}

// NoCapabilities implements Capabilities with no-ops for every method.
// Embed it in a partial implementation so only the events you care about
// need overriding.
type NoCapabilities struct{}

func (NoCapabilities) OnICECandidate(string)                      {}
func (NoCapabilities) OnStateChange(State)                        {}
func (NoCapabilities) OnTrack([]byte)                             {}
func (NoCapabilities) OnConnected()                                {}
func (NoCapabilities) OnReceiverPacketLoss(fraction float64, cumulative uint32) {}
func (NoCapabilities) OnDataChannelMessage(data []byte, isString bool)          {}
func (NoCapabilities) OnDataChannelOpen()                          {}
func (NoCapabilities) OnDataChannelClose()                         {}
func (NoCapabilities) OnPacketDropped(string)                      {}
