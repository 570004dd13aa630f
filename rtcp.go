//////////////////////////////////////////////////////////////////////////////
//
// RTCP handling (C3/C5/C7, §4.5/§4.7): receiver-report loss extraction and
// PLI construction, built on github.com/pion/rtcp. Resolves the teacher's
// unimplemented internal/rtcp PictureLossIndication branch (left as a
// commented-out case in internal/rtcp/packet.go) and the spec's open
// question about completing peer_connection_send_rtcp_pli.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"fmt"

	"github.com/pion/rtcp"
)

// handleInboundRTCP unmarshals one decrypted RTCP compound packet and
// dispatches any receiver reports it carries to Capabilities.OnReceiverPacketLoss
// (§4.5). Unrecognized packet types are ignored, not errors — RTCP compound
// packets routinely carry types this peer has no use for (SDES, BYE, ...).
func (pc *PeerConnection) handleInboundRTCP(plaintext []byte) {
	packets, err := rtcp.Unmarshal(plaintext)
	if err != nil {
		pc.caps.OnPacketDropped("rtcp unmarshal: " + err.Error())
		return
	}

	for _, p := range packets {
		rr, ok := p.(*rtcp.ReceiverReport)
		if !ok {
			continue
		}
		for _, report := range rr.Reports {
			fraction := float64(report.FractionLost) / 256.0
			pc.caps.OnReceiverPacketLoss(fraction, report.TotalLost)
		}
	}
}

// sendRTCPPLI builds and transmits one Picture Loss Indication, requesting
// that the remote encoder produce a new key frame (§4.7). mediaSSRC is the
// SSRC of the video stream the loss was observed on.
func (pc *PeerConnection) sendRTCPPLI(mediaSSRC uint32) error {
	if pc.srtp == nil {
		return newPeerError(KindNotConnected, fmt.Errorf("srtp not established"))
	}

	pli := &rtcp.PictureLossIndication{
		SenderSSRC: pc.localSSRCVideo,
		MediaSSRC:  mediaSSRC,
	}
	raw, err := pli.Marshal()
	if err != nil {
		return fmt.Errorf("marshal pli: %w", err)
	}

	protected, err := pc.srtp.encryptRTCP(raw)
	if err != nil {
		return err
	}
	return pc.writeDatagram(protected)
}
