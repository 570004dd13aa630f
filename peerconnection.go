//////////////////////////////////////////////////////////////////////////////
//
// PeerConnection (C6, §4.6, §4.8): drives the NEW -> CHECKING -> CONNECTED
// lifecycle, owns every collaborator (ICE agent, DTLS engine, SRTP context,
// SCTP endpoint, ring buffers, packetizers), and exposes the public API
// surface of §6. Grounded on the teacher's peer_connection.go — same
// single-struct ownership shape, rebuilt around the real pion/* engines and
// the Go-native Capabilities interface instead of callback+user_data pairs.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/randutil"

	"github.com/tidalrtc/peerlink/internal/logging"
)

const (
	videoMaxFrameLen = 2 * 1024 * 1024 // one H.264 access unit, generous upper bound
	audioMaxFrameLen = 4096            // one PCMA sample block
	dataMaxFrameLen  = 16 * 1024       // one data-channel user message

	gatherTimeout = 5 * time.Second
)

// PeerConnection is a single-peer WebRTC endpoint core. It is not internally
// threaded: every exported method, and Loop, must be called from the same
// goroutine (§5).
type PeerConnection struct {
	options PeerOptions
	caps    Capabilities
	log     *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state State

	ice  *iceAgent
	dtls *dtlsEngine
	srtp *srtpContext
	sctp *sctpEndpoint
	dc   *dataChannelBridge

	transport *loopConn
	iceConn   net.Conn

	videoQueue *RingBuffer
	audioQueue *RingBuffer
	dataQueue  *RingBuffer

	videoPacketizer *mediaPacketizer
	audioPacketizer *mediaPacketizer

	localSSRCVideo uint32
	localSSRCAudio uint32

	offerRequested bool
	offerCreated   bool
	localSDP       string
	remote         *remoteSession

	sctpStarted    bool
	connectedFired bool

	mu        sync.Mutex
	destroyed bool
}

// NewPeerConnection builds a PeerConnection from options, conditionally
// allocating ring buffers and packetizers for each enabled medium, and
// initializing the ICE agent (controlled role) and DTLS engine (server
// role) per §4.8. Construction never blocks on the network.
func NewPeerConnection(opts PeerOptions, caps Capabilities) (*PeerConnection, error) {
	if caps == nil {
		caps = NoCapabilities{}
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	log := logging.DefaultLogger.WithTag("peerlink")
	factory := newPionLoggerFactory(log)

	ice, err := newICEAgent(opts, log.WithTag("ice"), factory)
	if err != nil {
		return nil, err
	}
	dtls, err := newDTLSEngine(opts, log.WithTag("dtls"), factory)
	if err != nil {
		ice.close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	pc := &PeerConnection{
		options: opts,
		caps:    caps,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		state:   StateNew,
		ice:     ice,
		dtls:    dtls,
	}

	if opts.VideoCodec != VideoCodecNone {
		pc.videoQueue = NewRingBuffer(opts.RingCapacity, videoMaxFrameLen)
		pc.localSSRCVideo = randomSSRC()
		pc.videoPacketizer = newVideoPacketizer(opts.MTU, pc.localSSRCVideo)
	}
	if opts.AudioCodec != AudioCodecNone {
		pc.audioQueue = NewRingBuffer(opts.RingCapacity, audioMaxFrameLen)
		pc.localSSRCAudio = randomSSRC()
		pc.audioPacketizer = newAudioPacketizer(opts.MTU, pc.localSSRCAudio)
	}
	if opts.DataChannel != DataChannelDisabled {
		pc.dataQueue = NewRingBuffer(opts.RingCapacity, dataMaxFrameLen)
		pc.sctp = newSCTPEndpoint(log.WithTag("sctp"))
	}

	return pc, nil
}

// randomSSRC picks a local synchronization source identifier, the same way
// pion-webrtc's track constructors do (randutil.NewMathRandomGenerator, not
// crypto/rand — an SSRC collision is a correctness nuisance, not a security
// boundary).
func randomSSRC() uint32 {
	return randutil.NewMathRandomGenerator().Uint32()
}

// Destroy tears down every owned collaborator in reverse dependency order
// (§3: "torn down in reverse dependency order on destroy"). It is
// synchronous and idempotent; after Destroy, no further capability fires.
func (pc *PeerConnection) Destroy() {
	pc.mu.Lock()
	if pc.destroyed {
		pc.mu.Unlock()
		return
	}
	pc.destroyed = true
	pc.mu.Unlock()

	pc.cancel()

	if pc.dc != nil {
		pc.dc.close()
	}
	if pc.sctp != nil {
		pc.sctp.close()
	}
	pc.dtls.close()
	pc.ice.close()
	if pc.transport != nil {
		pc.transport.Close()
	}

	pc.state = StateClosed
}

// CreateOffer arms offer generation on the next Loop call (§6). The local
// SDP is built at most once per PeerConnection: no transition leads back to
// NEW, and nothing clears the offer-created latch.
func (pc *PeerConnection) CreateOffer() {
	pc.offerRequested = true
}

// BuildOffer synchronously assembles the local SDP without waiting for ICE
// candidate gathering, for unit tests that want a round-trippable blob
// without driving Loop (SPEC_FULL testability addition, resolving spec.md
// Testable Property 3 without requiring a live network).
func (pc *PeerConnection) BuildOffer() (string, error) {
	return pc.buildLocalOffer(nil)
}

// ParseAnswer parses a remote SDP without mutating PeerConnection state, so
// a test can play both SDP roles against a single parser (SPEC_FULL
// testability addition).
func (pc *PeerConnection) ParseAnswer(raw string) (*remoteSession, error) {
	return parseRemoteSession(raw)
}

// SetRemoteDescription applies a remote SDP offer/answer: installs the
// remote ICE credentials and candidates, then transitions NEW -> CHECKING
// (§3).
func (pc *PeerConnection) SetRemoteDescription(raw string) error {
	remote, err := parseRemoteSession(raw)
	if err != nil {
		return err
	}
	if err := pc.ice.setRemoteCredentials(remote.ufrag, remote.pwd); err != nil {
		return err
	}
	for _, c := range remote.candidates {
		if err := pc.ice.addRemoteCandidate(c); err != nil {
			pc.caps.OnPacketDropped("bad remote candidate: " + err.Error())
		}
	}
	pc.remote = remote
	pc.setState(StateChecking)
	return nil
}

// SendVideo queues one complete video access unit for packetization and
// SRTP-encrypted transmission (§4.4). Returns ErrNotConnected before the
// peer reaches CONNECTED, ErrOverflow if the video queue is full.
func (pc *PeerConnection) SendVideo(frame []byte) error {
	if pc.videoQueue == nil {
		return newPeerError(KindConfigError, fmt.Errorf("video not enabled"))
	}
	if pc.state != StateConnected || !pc.dtls.isConnected() {
		return ErrNotConnected
	}
	return pc.videoQueue.PushTail(frame)
}

// SendAudio queues one complete audio sample block (§4.4).
func (pc *PeerConnection) SendAudio(frame []byte) error {
	if pc.audioQueue == nil {
		return newPeerError(KindConfigError, fmt.Errorf("audio not enabled"))
	}
	if pc.state != StateConnected || !pc.dtls.isConnected() {
		return ErrNotConnected
	}
	return pc.audioQueue.PushTail(frame)
}

// DataChannelSend queues one complete data-channel user message (§4.4).
// Returns ErrNotConnected if SCTP has not yet opened, ErrOverflow if the
// data queue is full.
func (pc *PeerConnection) DataChannelSend(data []byte) error {
	if pc.dataQueue == nil {
		return newPeerError(KindConfigError, fmt.Errorf("data channel not enabled"))
	}
	if pc.dc == nil {
		return ErrNotConnected
	}
	return pc.dataQueue.PushTail(data)
}

// SendRTCPPLI builds, SRTCP-encrypts, and transmits one Picture Loss
// Indication for mediaSSRC (§4.7, resolving spec.md's PLI open question).
func (pc *PeerConnection) SendRTCPPLI(mediaSSRC uint32) error {
	if pc.state != StateConnected || !pc.dtls.isConnected() {
		return ErrNotConnected
	}
	return pc.sendRTCPPLI(mediaSSRC)
}

// State returns the current externally observable lifecycle state.
func (pc *PeerConnection) State() State { return pc.state }

// writeDatagram sends one already-protected (SRTP/SRTCP) datagram on the
// ICE-selected candidate pair.
func (pc *PeerConnection) writeDatagram(buf []byte) error {
	if pc.iceConn == nil {
		return ErrNotConnected
	}
	_, err := pc.iceConn.Write(buf)
	return err
}

// Loop performs one tick of the state machine (§4.6, §5): at most one
// connectivity check, at most one outbound frame per media class, and at
// most one inbound datagram read. It must be called repeatedly by the
// embedder (a tight loop, a timer, or an I/O-driven scheduler).
func (pc *PeerConnection) Loop() {
	if pc.destroyed {
		return
	}
	switch pc.state {
	case StateNew:
		pc.tickNew()
	case StateChecking:
		pc.tickChecking()
	case StateConnected:
		pc.tickConnected()
	default:
		// COMPLETED/FAILED/DISCONNECTED/CLOSED: no-op in the loop (§4.6).
	}
}

func (pc *PeerConnection) tickNew() {
	if !pc.offerRequested || pc.offerCreated {
		return
	}

	candidates, err := pc.gatherCandidatesSync()
	if err != nil {
		pc.log.Error("candidate gathering: %v", err)
		pc.setState(StateFailed)
		return
	}

	sdpText, err := pc.buildLocalOffer(candidates)
	if err != nil {
		pc.log.Error("build offer: %v", err)
		pc.setState(StateFailed)
		return
	}

	pc.localSDP = sdpText
	pc.offerCreated = true
	pc.caps.OnICECandidate(sdpText)
}

// gatherCandidatesSync blocks for at most gatherTimeout waiting for ICE
// candidate gathering to complete. Trickle ICE is a spec.md Non-goal, so a
// single complete candidate set is assembled before the offer is built.
func (pc *PeerConnection) gatherCandidatesSync() ([]string, error) {
	var candidates []string
	done := make(chan struct{})

	err := pc.ice.gatherCandidates(
		func(c string) { candidates = append(candidates, c) },
		func() {
			select {
			case <-done:
			default:
				close(done)
			}
		},
	)
	if err != nil {
		return nil, err
	}

	select {
	case <-done:
		return candidates, nil
	case <-time.After(gatherTimeout):
		return candidates, nil
	}
}

func (pc *PeerConnection) tickChecking() {
	if pc.remote == nil {
		return
	}

	if !pc.ice.hasStarted() {
		pc.ice.beginConnect(pc.ctx, pc.remote.ufrag, pc.remote.pwd)
		return
	}

	conn, err, ok := pc.ice.pollConnected()
	if !ok {
		return
	}
	if err != nil {
		pc.log.Error("ice connect: %v", err)
		pc.setState(StateFailed)
		return
	}

	pc.iceConn = conn
	pc.transport = newLoopConn(conn)
	pc.setState(StateConnected)
}

func (pc *PeerConnection) tickConnected() {
	switch {
	case pc.dtls.isFailed():
		pc.setState(StateFailed)
		return
	case !pc.dtls.isConnected():
		pc.driveHandshake()
		if pc.state == StateConnected {
			// The handshake goroutine reads its records from pc.transport,
			// which only runIngress feeds.
			pc.runIngress()
		}
		return
	}

	if !pc.sctpStarted && pc.options.DataChannel != DataChannelDisabled {
		if err := pc.sctp.start(pc.dtls); err != nil {
			pc.log.Error("sctp start: %v", err)
		}
		pc.sctpStarted = true
	}

	if pc.srtp == nil {
		if err := pc.establishSRTP(); err != nil {
			pc.log.Error("establish srtp: %v", err)
			pc.setState(StateFailed)
			return
		}
		if !pc.connectedFired {
			pc.connectedFired = true
			pc.caps.OnConnected()
		}
	}

	if pc.sctp != nil {
		if dc := pc.sctp.pollAccepted(); dc != nil && pc.dc == nil {
			pc.dc = newDataChannelBridge(dc, pc.caps)
		}
	}

	pc.runEgress()
	pc.runIngress()
}

func (pc *PeerConnection) driveHandshake() {
	if !pc.dtls.hasStarted() {
		pc.dtls.beginHandshake(pc.ctx, pc.transport, pc.options.HandshakeTimeout)
		return
	}
	ok, err := pc.dtls.pollHandshake()
	if !ok {
		return
	}
	if err != nil {
		pc.log.Error("dtls handshake: %v", err)
		pc.setState(StateFailed)
	}
}

func (pc *PeerConnection) establishSRTP() error {
	if pc.remote != nil && pc.remote.fingerprint != "" {
		if err := pc.dtls.validateRemoteFingerprint(pc.remote.fingerprint); err != nil {
			return err
		}
	}
	writeKey, writeSalt, readKey, readSalt, err := pc.dtls.srtpKeyingMaterial()
	if err != nil {
		return err
	}
	srtp, err := newSRTPContext(writeKey, writeSalt, readKey, readSalt)
	if err != nil {
		return err
	}
	pc.srtp = srtp
	return nil
}
