package peerlink

import (
	"strings"
	"testing"
	"time"

	"github.com/pion/rtcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCapabilities captures every fired event for assertions, instead
// of the teacher's approach of printing from inline callbacks.
type recordingCapabilities struct {
	NoCapabilities
	states        []State
	candidates    []string
	lossFractions []float64
	lossTotals    []uint32
}

func (r *recordingCapabilities) OnStateChange(s State) { r.states = append(r.states, s) }
func (r *recordingCapabilities) OnICECandidate(sdp string) {
	r.candidates = append(r.candidates, sdp)
}
func (r *recordingCapabilities) OnReceiverPacketLoss(fraction float64, cumulative uint32) {
	r.lossFractions = append(r.lossFractions, fraction)
	r.lossTotals = append(r.lossTotals, cumulative)
}

func newTestPeerConnection(t *testing.T, opts PeerOptions) (*PeerConnection, *recordingCapabilities) {
	t.Helper()
	caps := &recordingCapabilities{}
	pc, err := NewPeerConnection(opts, caps)
	require.NoError(t, err)
	t.Cleanup(pc.Destroy)
	return pc, caps
}

func TestStateChangeFiresOnlyOnActualTransition(t *testing.T) {
	pc, caps := newTestPeerConnection(t, PeerOptions{})

	pc.setState(StateChecking)
	pc.setState(StateChecking) // no-op: same state
	pc.setState(StateConnected)

	assert.Equal(t, []State{StateChecking, StateConnected}, caps.states)
}

func TestDestroyIsIdempotent(t *testing.T) {
	pc, _ := newTestPeerConnection(t, PeerOptions{})

	pc.Destroy()
	assert.Equal(t, StateClosed, pc.State())

	// A second Destroy must not panic or re-run teardown.
	pc.Destroy()
	assert.Equal(t, StateClosed, pc.State())
}

func TestSDPRoundTrip(t *testing.T) {
	pc, _ := newTestPeerConnection(t, PeerOptions{
		AudioCodec:  AudioCodecPCMA,
		VideoCodec:  VideoCodecH264,
		DataChannel: DataChannelString,
	})

	offer, err := pc.BuildOffer()
	require.NoError(t, err)
	assert.Contains(t, offer, "a=ice-ufrag:")
	assert.Contains(t, offer, "a=fingerprint:sha-256 ")
	assert.Contains(t, offer, "m=video")
	assert.Contains(t, offer, "m=audio")
	assert.Contains(t, offer, "m=application")

	remote, err := pc.ParseAnswer(offer)
	require.NoError(t, err)
	assert.NotEmpty(t, remote.ufrag)
	assert.NotEmpty(t, remote.pwd)
	assert.NotEmpty(t, remote.fingerprint)
	assert.False(t, strings.HasPrefix(remote.fingerprint, "sha-256"))
}

func TestAudioOnlyOfferOmitsOtherMedia(t *testing.T) {
	pc, caps := newTestPeerConnection(t, PeerOptions{AudioCodec: AudioCodecPCMA})

	pc.CreateOffer()

	deadline := time.Now().Add(10 * time.Second)
	for len(caps.candidates) == 0 && time.Now().Before(deadline) {
		pc.Loop()
		time.Sleep(10 * time.Millisecond)
	}

	require.Len(t, caps.candidates, 1)
	offer := caps.candidates[0]
	assert.Contains(t, offer, "m=audio")
	assert.NotContains(t, offer, "m=video")
	assert.NotContains(t, offer, "m=application")

	// A second Loop tick must not re-fire OnICECandidate (offerCreated latch).
	pc.Loop()
	assert.Len(t, caps.candidates, 1)
}

func TestSendAudioOverflowAfterRingFull(t *testing.T) {
	pc, _ := newTestPeerConnection(t, PeerOptions{AudioCodec: AudioCodecPCMA, RingCapacity: 2})

	// Bypass the full ICE/DTLS handshake: force the state this call path
	// checks directly, since this test targets ring back-pressure, not
	// connection establishment.
	pc.state = StateConnected
	pc.dtls.mu.Lock()
	pc.dtls.state = dtlsConnected
	pc.dtls.mu.Unlock()

	require.NoError(t, pc.SendAudio([]byte("one")))
	require.NoError(t, pc.SendAudio([]byte("two")))

	err := pc.SendAudio([]byte("three"))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestReceiverReportLossExtraction(t *testing.T) {
	pc, caps := newTestPeerConnection(t, PeerOptions{})

	rr := &rtcp.ReceiverReport{
		SSRC: 1,
		Reports: []rtcp.ReceptionReport{
			{SSRC: 2, FractionLost: 0x40, TotalLost: 256},
		},
	}
	raw, err := rr.Marshal()
	require.NoError(t, err)

	pc.handleInboundRTCP(raw)

	require.Len(t, caps.lossFractions, 1)
	assert.InDelta(t, 0.25, caps.lossFractions[0], 0.001)
	assert.Equal(t, uint32(256), caps.lossTotals[0])
}
