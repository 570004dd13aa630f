//////////////////////////////////////////////////////////////////////////////
//
// RTP packetizers (C4, §4.4): wraps github.com/pion/rtp and its codecs
// sub-package to turn raw media frames into RTP packets, one packetizer per
// enabled media kind. Grounded on the pack's TrackLocalStaticSample.Bind,
// which builds exactly this payloader+sequencer+clockRate triple.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

const (
	videoClockRate = 90000
	audioClockRate = 8000
)

type mediaPacketizer struct {
	packetizer rtp.Packetizer
	ssrc       uint32
}

func newVideoPacketizer(mtu int, ssrc uint32) *mediaPacketizer {
	return &mediaPacketizer{
		packetizer: rtp.NewPacketizer(
			uint16(mtu),
			payloadTypeH264,
			ssrc,
			&codecs.H264Payloader{},
			rtp.NewRandomSequencer(),
			videoClockRate,
		),
		ssrc: ssrc,
	}
}

func newAudioPacketizer(mtu int, ssrc uint32) *mediaPacketizer {
	return &mediaPacketizer{
		packetizer: rtp.NewPacketizer(
			uint16(mtu),
			payloadTypePCMA,
			ssrc,
			&codecs.G711Payloader{},
			rtp.NewRandomSequencer(),
			audioClockRate,
		),
		ssrc: ssrc,
	}
}

// packetize splits one media frame into RTP packets covering samples worth
// of clock ticks (§4.4: one frame may span several packets, e.g. H.264 NALUs
// larger than the MTU).
func (m *mediaPacketizer) packetize(frame []byte, samples uint32) []*rtp.Packet {
	return m.packetizer.Packetize(frame, samples)
}
