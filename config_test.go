package peerlink

import (
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeerOptionsWithDefaults(t *testing.T) {
	out := (&PeerOptions{}).withDefaults()
	assert.Equal(t, defaultMTU, out.MTU)
	assert.Equal(t, defaultRingCapacity, out.RingCapacity)
	assert.Equal(t, defaultHandshakeWait, out.HandshakeTimeout)

	custom := (&PeerOptions{MTU: 500, RingCapacity: 8, HandshakeTimeout: time.Second}).withDefaults()
	assert.Equal(t, 500, custom.MTU)
	assert.Equal(t, 8, custom.RingCapacity)
	assert.Equal(t, time.Second, custom.HandshakeTimeout)
}

func TestPeerOptionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		opts    PeerOptions
		wantErr bool
	}{
		{"defaults ok", PeerOptions{}, false},
		{"valid audio+video+data", PeerOptions{AudioCodec: AudioCodecPCMA, VideoCodec: VideoCodecH264, DataChannel: DataChannelBinary}, false},
		{"bad audio codec", PeerOptions{AudioCodec: AudioCodec(99)}, true},
		{"bad video codec", PeerOptions{VideoCodec: VideoCodec(99)}, true},
		{"bad data channel mode", PeerOptions{DataChannel: DataChannelMode(99)}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.opts.validate()
			if c.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPeerOptionsValidateRequiresMatchedCertAndKey(t *testing.T) {
	opts := PeerOptions{Certificate: nil, PrivateKey: nil}
	assert.NoError(t, opts.validate())

	certOnly := PeerOptions{Certificate: &x509.Certificate{}}
	assert.Error(t, certOnly.validate())
}
