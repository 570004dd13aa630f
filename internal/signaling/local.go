package signaling

// A signaling.Client that also acts as the signaling server: a local HTTP
// server the browser connects to directly, with SDP exchanged over a single
// WebSocket message pair (offer in, answer out) per session.

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	flag "github.com/spf13/pflag"

	"github.com/tidalrtc/peerlink/internal/logging"
)

var log = logging.DefaultLogger.WithTag("signaling")

var flagPort int

func init() {
	flag.IntVarP(&flagPort, "port", "p", 8000, "HTTP port on which to listen")
	NewClient = newLocalWebSignaler
}

const indexPage = `<!DOCTYPE html>
<html><head><title>peerlink</title></head>
<body>
<p>Connect a WebRTC peer at <code>ws://%s/ws</code> and send one JSON
message <code>{"type":"offer","sdp":"..."}</code>; the answer arrives as
<code>{"type":"answer","sdp":"..."}</code>.</p>
</body></html>
`

type localWebSignaler struct {
	handler SessionHandler
	server  *http.Server
	addr    string
}

func newLocalWebSignaler(handler SessionHandler) (Client, error) {
	addr := fmt.Sprintf(":%d", flagPort)
	router := http.NewServeMux()
	s := &localWebSignaler{
		handler: handler,
		addr:    addr,
		server:  &http.Server{Addr: addr, Handler: router},
	}
	router.HandleFunc("/", s.handleIndex)
	router.HandleFunc("/ws", s.handleWebsocket)
	return s, nil
}

func (s *localWebSignaler) Listen() error {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	} else if !strings.Contains(host, ".") {
		host += ".local"
	}
	url := host + s.addr

	fmt.Printf("Open http://%s/ in a browser\n", url)
	err = s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *localWebSignaler) Shutdown() error {
	return s.server.Shutdown(context.Background())
}

func (s *localWebSignaler) handleIndex(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, indexPage, r.Host)
}

func (s *localWebSignaler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(context.Background())

	ws, err := new(websocket.Upgrader).Upgrade(w, r, nil)
	if err != nil {
		log.Warn("upgrade: %v", err)
		cancel()
		return
	}
	defer ws.Close()
	defer cancel()

	session := newSession(ctx, cancel, func(sdp string) error {
		return ws.WriteJSON(map[string]string{"type": "answer", "sdp": sdp})
	})

	go s.handler(session)

	// Expect exactly one offer message per session; candidates are inline in
	// the SDP (non-trickle, per spec.md's Non-goals).
	msg := map[string]string{}
	if err := ws.ReadJSON(&msg); err != nil {
		log.Warn("read offer: %v", err)
		return
	}
	if msg["type"] != "offer" {
		log.Warn("expected offer, got %q", msg["type"])
		return
	}
	session.Offer <- msg["sdp"]

	<-ctx.Done()
}
