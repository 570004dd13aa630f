//////////////////////////////////////////////////////////////////////////////
//
// SCTP endpoint adapter (C6, §4.3): wires github.com/pion/sctp in as the
// DCEP-over-SCTP-over-DTLS collaborator, grounded on the association
// lifecycle in the pack's pion-webrtc/sctptransport.go (association created
// once DTLS is up, then a single accept goroutine hands new streams off).
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"fmt"
	"sync"

	"github.com/pion/datachannel"
	"github.com/pion/sctp"

	"github.com/tidalrtc/peerlink/internal/logging"
)

const sctpDefaultPort = 5000

type sctpEndpoint struct {
	log *logging.Logger

	mu          sync.Mutex
	association *sctp.Association
	accepted    chan *datachannel.DataChannel
	closed      chan struct{}
}

func newSCTPEndpoint(log *logging.Logger) *sctpEndpoint {
	return &sctpEndpoint{
		log:      log,
		accepted: make(chan *datachannel.DataChannel, 4),
		closed:   make(chan struct{}),
	}
}

// start establishes the SCTP association over the already-connected DTLS
// conn. The peer is always the DTLS server, so it takes the SCTP server role
// too (§4.3: the answerer accepts the association rather than initiating).
func (s *sctpEndpoint) start(conn *dtlsEngine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.association != nil {
		return nil
	}

	assoc, err := sctp.Server(sctp.Config{
		NetConn:       conn.netConn(),
		LoggerFactory: newPionLoggerFactory(s.log),
	})
	if err != nil {
		return newPeerError(KindHandshakeFailed, fmt.Errorf("sctp server: %w", err))
	}
	s.association = assoc

	go s.acceptLoop()
	return nil
}

// acceptLoop hands each newly opened DCEP channel to the accepted queue. It
// runs off the dispatch loop (§5's bounded-goroutine allowance) because
// datachannel.Accept blocks on the wire.
func (s *sctpEndpoint) acceptLoop() {
	for {
		dc, err := datachannel.Accept(s.association, &datachannel.Config{}, nil, nil)
		if err != nil {
			return
		}
		select {
		case s.accepted <- dc:
		case <-s.closed:
			dc.Close()
			return
		}
	}
}

// pollAccepted is non-blocking: returns the next opened channel, if any.
func (s *sctpEndpoint) pollAccepted() *datachannel.DataChannel {
	select {
	case dc := <-s.accepted:
		return dc
	default:
		return nil
	}
}

func (s *sctpEndpoint) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	if s.association != nil {
		return s.association.Close()
	}
	return nil
}
