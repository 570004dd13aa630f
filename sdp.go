//////////////////////////////////////////////////////////////////////////////
//
// SDP Builder (§4.2, C2): assembles the local session description and parses
// the remote one. Built on github.com/pion/sdp/v3 rather than the hand-rolled
// parser the teacher's legacy sdp.go wrote from scratch, per SPEC_FULL.md
// D-DOMAIN — the wire format itself is an external collaborator's concern.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pion/sdp/v3"
)

const (
	payloadTypeH264 = 96
	payloadTypePCMA = 8

	sdpUsername = "peerlink"
)

// remoteSession holds the pieces of a parsed remote SDP that the state
// machine and transport engines need (§3, SessionDescription).
type remoteSession struct {
	ufrag       string
	pwd         string
	fingerprint string
	setupRole   string // "active", "passive", or "actpass"
	candidates  []string
}

// buildLocalOffer assembles a local SDP containing ICE credentials, the DTLS
// fingerprint, setup:actpass, one m= section per enabled medium, and one
// a=candidate line per gathered local candidate (§4.2). candidates may be
// nil (e.g. BuildOffer's synchronous test path, which skips gathering).
func (pc *PeerConnection) buildLocalOffer(candidates []string) (string, error) {
	ufrag, pwd, err := pc.ice.localCredentials()
	if err != nil {
		return "", err
	}

	sd := &sdp.SessionDescription{
		Version: 0,
		Origin: sdp.Origin{
			Username:       sdpUsername,
			SessionID:      uuid.New().ID() & 0x7fffffff,
			SessionVersion: 2,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "0.0.0.0",
		},
		SessionName: "-",
		TimeDescriptions: []sdp.TimeDescription{
			{Timing: sdp.Timing{StartTime: 0, StopTime: 0}},
		},
	}
	sd = sd.
		WithValueAttribute("ice-ufrag", ufrag).
		WithValueAttribute("ice-pwd", pwd).
		WithValueAttribute("fingerprint", "sha-256 "+pc.dtls.fingerprint).
		WithValueAttribute("setup", "actpass")

	if pc.options.VideoCodec == VideoCodecH264 {
		sd.MediaDescriptions = append(sd.MediaDescriptions, videoMediaDescription())
	}
	if pc.options.AudioCodec == AudioCodecPCMA {
		sd.MediaDescriptions = append(sd.MediaDescriptions, audioMediaDescription())
	}
	if pc.options.DataChannel != DataChannelDisabled {
		sd.MediaDescriptions = append(sd.MediaDescriptions, dataMediaDescription())
	}

	for _, c := range candidates {
		sd = sd.WithValueAttribute("candidate", strings.TrimPrefix(c, "candidate:"))
	}

	raw, err := sd.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal local sdp: %w", err)
	}
	return string(raw), nil
}

func videoMediaDescription() *sdp.MediaDescription {
	m := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   "video",
			Port:    sdp.RangedPort{Value: 9},
			Protos:  []string{"UDP", "TLS", "RTP", "SAVPF"},
			Formats: []string{strconv.Itoa(payloadTypeH264)},
		},
		ConnectionInformation: localConnectionInfo(),
	}
	return m.
		WithPropertyAttribute("recvonly").
		WithPropertyAttribute("rtcp-mux").
		WithValueAttribute("rtpmap", fmt.Sprintf("%d H264/90000", payloadTypeH264)).
		WithValueAttribute("fmtp", fmt.Sprintf("%d level-asymmetry-allowed=1;packetization-mode=1", payloadTypeH264))
}

func audioMediaDescription() *sdp.MediaDescription {
	m := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   "audio",
			Port:    sdp.RangedPort{Value: 9},
			Protos:  []string{"UDP", "TLS", "RTP", "SAVPF"},
			Formats: []string{strconv.Itoa(payloadTypePCMA)},
		},
		ConnectionInformation: localConnectionInfo(),
	}
	return m.
		WithPropertyAttribute("sendrecv").
		WithPropertyAttribute("rtcp-mux").
		WithValueAttribute("rtpmap", fmt.Sprintf("%d PCMA/8000", payloadTypePCMA))
}

func dataMediaDescription() *sdp.MediaDescription {
	m := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   "application",
			Port:    sdp.RangedPort{Value: 9},
			Protos:  []string{"UDP", "DTLS", "SCTP"},
			Formats: []string{"webrtc-datachannel"},
		},
		ConnectionInformation: localConnectionInfo(),
	}
	return m.WithValueAttribute("sctp-port", "5000")
}

func localConnectionInfo() *sdp.ConnectionInformation {
	return &sdp.ConnectionInformation{
		NetworkType: "IN",
		AddressType: "IP4",
		Address:     &sdp.Address{Address: "0.0.0.0"},
	}
}

// parseRemoteSession parses a remote SDP offer/answer, extracting the ICE
// credentials, DTLS fingerprint, negotiated setup role, and any inline
// candidates (§4.2).
func parseRemoteSession(raw string) (*remoteSession, error) {
	sd := &sdp.SessionDescription{}
	if err := sd.Unmarshal([]byte(raw)); err != nil {
		return nil, fmt.Errorf("parse remote sdp: %w", err)
	}

	rs := &remoteSession{setupRole: "actpass"}

	if v, ok := sd.Attribute("ice-ufrag"); ok {
		rs.ufrag = v
	}
	if v, ok := sd.Attribute("ice-pwd"); ok {
		rs.pwd = v
	}
	if v, ok := sd.Attribute("fingerprint"); ok {
		rs.fingerprint = fingerprintValue(v)
	}
	if v, ok := sd.Attribute("setup"); ok {
		rs.setupRole = v
	}
	for _, a := range sd.Attributes {
		if a.Key == "candidate" {
			rs.candidates = append(rs.candidates, "candidate:"+a.Value)
		}
	}

	for _, m := range sd.MediaDescriptions {
		if v, ok := m.Attribute("ice-ufrag"); ok {
			rs.ufrag = v
		}
		if v, ok := m.Attribute("ice-pwd"); ok {
			rs.pwd = v
		}
		if v, ok := m.Attribute("fingerprint"); ok {
			rs.fingerprint = fingerprintValue(v)
		}
		if v, ok := m.Attribute("setup"); ok {
			rs.setupRole = v
		}
		for _, a := range m.Attributes {
			if a.Key == "candidate" {
				rs.candidates = append(rs.candidates, "candidate:"+a.Value)
			}
		}
	}

	if rs.ufrag == "" || rs.pwd == "" {
		return nil, newPeerError(KindConfigError, fmt.Errorf("remote sdp missing ice-ufrag/ice-pwd"))
	}
	return rs, nil
}

// fingerprintValue strips the "sha-256 " hash-function prefix pion/sdp
// leaves attached, returning just the colon-separated hex digest.
func fingerprintValue(attr string) string {
	parts := strings.SplitN(attr, " ", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return attr
}
