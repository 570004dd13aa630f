//////////////////////////////////////////////////////////////////////////////
//
// Egress pipeline (C4, §4.4): drains at most one frame per media class per
// tick, packetizes media, SRTP-encrypts, and hands the result to transport.
// Data-channel messages go to SCTP directly, never through SRTP (§2 data
// flow diagram: "data goes via DTLS, not SRTP").
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

// samplesPerFrame is a fixed per-frame clock advance. A real encoder would
// supply the exact duration per access unit; this core treats every queued
// frame as one fixed-duration sample block, matching spec.md's "complete
// access unit / sample block" framing without modeling variable frame rate.
const samplesPerFrame = 3000

// runEgress drains at most one video frame, then one audio frame, then one
// data message, in that fixed order (§4.4: "fair round-robin... bounds
// per-tick work").
func (pc *PeerConnection) runEgress() {
	pc.drainVideo()
	pc.drainAudio()
	pc.drainData()
}

func (pc *PeerConnection) drainVideo() {
	if pc.videoQueue == nil {
		return
	}
	frame, ok := pc.videoQueue.PeekHead()
	if !ok {
		return
	}
	pc.videoQueue.PopHead()

	for _, pkt := range pc.videoPacketizer.packetize(frame, samplesPerFrame) {
		pc.sendRTPPacket(pkt)
	}
}

func (pc *PeerConnection) drainAudio() {
	if pc.audioQueue == nil {
		return
	}
	frame, ok := pc.audioQueue.PeekHead()
	if !ok {
		return
	}
	pc.audioQueue.PopHead()

	for _, pkt := range pc.audioPacketizer.packetize(frame, samplesPerFrame) {
		pc.sendRTPPacket(pkt)
	}
}

func (pc *PeerConnection) sendRTPPacket(pkt interface{ Marshal() ([]byte, error) }) {
	raw, err := pkt.Marshal()
	if err != nil {
		pc.caps.OnPacketDropped("rtp marshal: " + err.Error())
		return
	}
	protected, err := pc.srtp.encryptRTP(raw)
	if err != nil {
		pc.caps.OnPacketDropped("srtp encrypt: " + err.Error())
		return
	}
	if err := pc.writeDatagram(protected); err != nil {
		pc.caps.OnPacketDropped("transport write: " + err.Error())
	}
}

func (pc *PeerConnection) drainData() {
	if pc.dataQueue == nil || pc.dc == nil {
		return
	}
	msg, ok := pc.dataQueue.PeekHead()
	if !ok {
		return
	}
	pc.dataQueue.PopHead()

	isString := pc.options.DataChannel == DataChannelString
	if err := pc.dc.send(msg, isString); err != nil {
		pc.caps.OnPacketDropped("datachannel send: " + err.Error())
	}
}
