package main

import (
	"fmt"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/tidalrtc/peerlink"
)

var (
	flagSTUNAddress string
	flagHelp        bool
)

func init() {
	flag.StringVarP(&flagSTUNAddress, "stun-address", "s", "", "STUN server address (host:port)")
	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
}

const helpString = `peerlinkd — single-peer WebRTC endpoint, driven from the command line

Usage: peerlinkd [OPTION]...

Network:
  -p, --port=NUM         HTTP/WebSocket signaling port (default: 8000)
  -s, --stun-address=URI STUN server address, e.g. stun.l.google.com:19302

Miscellaneous:
  -h, --help             Prints this help message and exits
`

// Help information is printed and program exits.
func help() {
	fmt.Println(helpString)
}

var (
	stateColor     = color.New(color.FgYellow)
	connectedColor = color.New(color.FgGreen)
)

func printState(state peerlink.State) {
	stateColor.Printf("state -> %s\n", state)
}

func printConnected() {
	connectedColor.Println("connected")
}
