//////////////////////////////////////////////////////////////////////////////
//
// PeerOptions contains configuration data for a PeerConnection
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"crypto"
	"crypto/x509"
	"time"
)

// AudioCodec identifies the audio codec a PeerConnection will offer, if any.
type AudioCodec int

const (
	AudioCodecNone AudioCodec = iota
	AudioCodecPCMA
)

// VideoCodec identifies the video codec a PeerConnection will offer, if any.
type VideoCodec int

const (
	VideoCodecNone VideoCodec = iota
	VideoCodecH264
)

// DataChannelMode selects whether a data channel is offered, and if so which
// SCTP payload protocol identifier its messages carry.
type DataChannelMode int

const (
	DataChannelDisabled DataChannelMode = iota
	DataChannelString
	DataChannelBinary
)

const (
	defaultMTU           = 1200
	defaultRingCapacity  = 64
	defaultHandshakeWait = 10 * time.Second
)

// PeerOptions is the immutable configuration a PeerConnection is built from.
// Fields mirror §3 of the spec this module implements plus the dependency
// knobs the domain stack (ICE/DTLS/SRTP engines) needs.
type PeerOptions struct {
	AudioCodec      AudioCodec
	VideoCodec      VideoCodec
	DataChannel     DataChannelMode

	// MTU bounds the size of a single RTP packet emitted by the packetizer.
	// Zero selects defaultMTU.
	MTU int

	// RingCapacity bounds the number of frames each enabled media/data ring
	// buffer can hold before push_tail reports Overflow. Zero selects
	// defaultRingCapacity.
	RingCapacity int

	// STUNServers seed ICE server-reflexive candidate gathering. May be empty
	// for host-candidates-only operation (e.g. same-LAN testing).
	STUNServers []string

	// HandshakeTimeout bounds the cumulative wait the DTLS handshake helper
	// will spend polling for datagrams (§5: "cap total wait e.g. <=10s
	// cumulative"). Zero selects defaultHandshakeWait.
	HandshakeTimeout time.Duration

	// Certificate/PrivateKey let a caller pin the DTLS identity across
	// restarts. Both nil means NewPeerConnection generates an ephemeral
	// self-signed certificate.
	Certificate *x509.Certificate
	PrivateKey  crypto.PrivateKey
}

func (o *PeerOptions) withDefaults() PeerOptions {
	out := *o
	if out.MTU <= 0 {
		out.MTU = defaultMTU
	}
	if out.RingCapacity <= 0 {
		out.RingCapacity = defaultRingCapacity
	}
	if out.HandshakeTimeout <= 0 {
		out.HandshakeTimeout = defaultHandshakeWait
	}
	return out
}

// validate rejects option combinations that can never produce a usable
// PeerConnection. Most combinations are permitted even if unusual (e.g. no
// media and no data channel at all is a legal, if useless, configuration);
// only genuinely unknown tag values are a ConfigError.
func (o *PeerOptions) validate() error {
	switch o.AudioCodec {
	case AudioCodecNone, AudioCodecPCMA:
	default:
		return newPeerError(KindConfigError, errInvalidAudioCodec)
	}
	switch o.VideoCodec {
	case VideoCodecNone, VideoCodecH264:
	default:
		return newPeerError(KindConfigError, errInvalidVideoCodec)
	}
	switch o.DataChannel {
	case DataChannelDisabled, DataChannelString, DataChannelBinary:
	default:
		return newPeerError(KindConfigError, errInvalidDataChannelMode)
	}
	if (o.Certificate == nil) != (o.PrivateKey == nil) {
		return newPeerError(KindConfigError, errIncompleteCertificate)
	}
	return nil
}
