package main

import (
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/tidalrtc/peerlink"
	"github.com/tidalrtc/peerlink/internal/logging"
	"github.com/tidalrtc/peerlink/internal/signaling"
)

var log = logging.DefaultLogger.WithTag("peerlinkd")

func main() {
	flag.Parse()

	if flagHelp {
		help()
		os.Exit(0)
	}

	client, err := signaling.NewClient(doPeerSession)
	if err != nil {
		log.Fatal(err)
	}
	if err := client.Listen(); err != nil {
		log.Fatal(err)
	}
}

func doPeerSession(ss *signaling.Session) {
	opts := peerlink.PeerOptions{
		AudioCodec:  peerlink.AudioCodecPCMA,
		VideoCodec:  peerlink.VideoCodecH264,
		DataChannel: peerlink.DataChannelString,
	}
	if flagSTUNAddress != "" {
		opts.STUNServers = []string{flagSTUNAddress}
	}

	caps := &cliCapabilities{ss: ss}
	pc, err := peerlink.NewPeerConnection(opts, caps)
	if err != nil {
		log.Fatal(err)
	}
	defer pc.Destroy()

	pc.CreateOffer()

	select {
	case offer := <-ss.Offer:
		// Still NEW: this tick gathers candidates and fires OnICECandidate,
		// which sends the local SDP back as the answer.
		pc.Loop()
		if err := pc.SetRemoteDescription(offer); err != nil {
			log.Fatal(err)
		}
	case <-ss.Done():
		log.Fatal(ss.Err())
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ss.Done():
			return
		case <-ticker.C:
			pc.Loop()
			if pc.State() == peerlink.StateFailed || pc.State() == peerlink.StateClosed {
				return
			}
		}
	}
}

// cliCapabilities logs peer events and relays the assembled local SDP back
// over the signaling session once ICE gathering completes.
type cliCapabilities struct {
	peerlink.NoCapabilities
	ss *signaling.Session
}

func (c *cliCapabilities) OnICECandidate(sdp string) {
	if err := c.ss.SendAnswer(sdp); err != nil {
		log.Warn("send answer: %v", err)
	}
}

func (c *cliCapabilities) OnStateChange(state peerlink.State) {
	printState(state)
}

func (c *cliCapabilities) OnConnected() {
	printConnected()
}
