package peerlink

// State is the externally observable PeerConnection lifecycle (§3).
type State int

const (
	StateNew State = iota
	StateChecking
	StateConnected
	StateCompleted
	StateFailed
	StateDisconnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateChecking:
		return "checking"
	case StateConnected:
		return "connected"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateDisconnected:
		return "disconnected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// setState transitions pc to the given state, invoking OnStateChange exactly
// once iff the state actually changes (§3 invariant: "no callback if the new
// state equals the current").
func (pc *PeerConnection) setState(s State) {
	if pc.state == s {
		return
	}
	pc.state = s
	pc.caps.OnStateChange(s)
	pc.log.Info("state -> %s", s)
}
