package signaling

import "context"

// Session carries one browser's signaling exchange: a single offer in, a
// single answer out. Candidates are not trickled separately — spec.md's
// Non-goals exclude trickle ICE, so the offer SDP already carries every
// gathered local candidate, and the browser's answer is expected to do the
// same.
type Session struct {
	Context context.Context
	cancel  context.CancelFunc

	// Offer delivers the browser's SDP offer exactly once.
	Offer chan string

	// SendAnswer transmits the local SDP answer back to the browser.
	SendAnswer func(sdp string) error
}

func newSession(ctx context.Context, cancel context.CancelFunc, sendAnswer func(string) error) *Session {
	return &Session{
		Context:    ctx,
		cancel:     cancel,
		Offer:      make(chan string, 1),
		SendAnswer: sendAnswer,
	}
}

// Done reports when the underlying connection has closed.
func (s *Session) Done() <-chan struct{} {
	return s.Context.Done()
}

// Err returns the reason Done was closed, if any.
func (s *Session) Err() error {
	return s.Context.Err()
}

func (s *Session) close() {
	s.cancel()
}
