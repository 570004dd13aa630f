//////////////////////////////////////////////////////////////////////////////
//
// ICE agent adapter (C6/C8): wires github.com/pion/ice/v4 in as the ICE
// collaborator spec.md §1/§6 places out of scope to reimplement. The agent
// always takes the controlled (answerer-style) role, per spec.md's glossary.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/pion/ice/v4"
	pionlog "github.com/pion/logging"

	"github.com/tidalrtc/peerlink/internal/logging"
)

type iceAgent struct {
	agent *ice.Agent
	log   *logging.Logger

	mu        sync.Mutex
	conn      net.Conn
	connected chan struct{}
	connErr   error
	started   bool
}

func newICEAgent(opts PeerOptions, log *logging.Logger, factory pionlog.LoggerFactory) (*iceAgent, error) {
	cfg := &ice.AgentConfig{
		NetworkTypes:     []ice.NetworkType{ice.NetworkTypeUDP4, ice.NetworkTypeUDP6},
		LoggerFactory:    factory,
	}
	for _, s := range opts.STUNServers {
		cfg.Urls = append(cfg.Urls, &ice.URL{Scheme: ice.SchemeTypeSTUN, Host: s})
	}

	a, err := ice.NewAgent(cfg)
	if err != nil {
		return nil, newPeerError(KindIceFailed, fmt.Errorf("create ice agent: %w", err))
	}

	return &iceAgent{
		agent:     a,
		log:       log,
		connected: make(chan struct{}),
	}, nil
}

// localCredentials returns this agent's ufrag/pwd, for inclusion in the local
// SDP (§4.2).
func (ia *iceAgent) localCredentials() (ufrag, pwd string, err error) {
	ufrag, pwd, err = ia.agent.GetLocalUserCredentials()
	if err != nil {
		return "", "", newPeerError(KindIceFailed, err)
	}
	return ufrag, pwd, nil
}

func (ia *iceAgent) setRemoteCredentials(ufrag, pwd string) error {
	if err := ia.agent.SetRemoteCredentials(ufrag, pwd); err != nil {
		return newPeerError(KindIceFailed, err)
	}
	return nil
}

func (ia *iceAgent) addRemoteCandidate(desc string) error {
	c, err := ice.UnmarshalCandidate(desc)
	if err != nil {
		return newPeerError(KindIceFailed, fmt.Errorf("parse candidate %q: %w", desc, err))
	}
	if err := ia.agent.AddRemoteCandidate(c); err != nil {
		return newPeerError(KindIceFailed, err)
	}
	return nil
}

// gatherCandidates starts local candidate gathering. onCandidate fires once
// per discovered candidate; onDone fires once gathering completes (a nil
// candidate, per pion/ice convention).
func (ia *iceAgent) gatherCandidates(onCandidate func(string), onDone func()) error {
	err := ia.agent.OnCandidate(func(c ice.Candidate) {
		if c == nil {
			if onDone != nil {
				onDone()
			}
			return
		}
		onCandidate(c.Marshal())
	})
	if err != nil {
		return newPeerError(KindIceFailed, err)
	}
	if err := ia.agent.GatherCandidates(); err != nil {
		return newPeerError(KindIceFailed, err)
	}
	return nil
}

// beginConnect starts the controlled-role connectivity check exactly once.
// It runs pion/ice's blocking Accept on its own goroutine; the state
// machine's CHECKING tick polls pollConnected() rather than blocking,
// matching the "at most one connectivity check per tick" budget (§4.6).
func (ia *iceAgent) beginConnect(ctx context.Context, ufrag, pwd string) {
	ia.mu.Lock()
	if ia.started {
		ia.mu.Unlock()
		return
	}
	ia.started = true
	ia.mu.Unlock()

	go func() {
		conn, err := ia.agent.Accept(ctx, ufrag, pwd)
		ia.mu.Lock()
		ia.conn, ia.connErr = conn, err
		ia.mu.Unlock()
		close(ia.connected)
	}()
}

// pollConnected is non-blocking: ok is true once the connectivity check has
// resolved (success or failure).
func (ia *iceAgent) pollConnected() (conn net.Conn, err error, ok bool) {
	select {
	case <-ia.connected:
		ia.mu.Lock()
		defer ia.mu.Unlock()
		return ia.conn, ia.connErr, true
	default:
		return nil, nil, false
	}
}

// hasStarted reports whether beginConnect has already been called once.
func (ia *iceAgent) hasStarted() bool {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	return ia.started
}

func (ia *iceAgent) close() error {
	return ia.agent.Close()
}
