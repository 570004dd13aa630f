package peerlink

import (
	"math/rand"
	"testing"
)

func TestClassifyTotality(t *testing.T) {
	// Every possible leading byte must resolve to one of the known kinds;
	// classify must never panic regardless of trailing content.
	for b0 := 0; b0 < 256; b0++ {
		for _, n := range []int{0, 1, 12, 13, 20, 64} {
			buf := make([]byte, n)
			if n > 0 {
				buf[0] = byte(b0)
			}
			kind := classify(buf)
			switch kind {
			case kindDrop, kindSTUN, kindDTLS, kindRTP, kindRTCP:
			default:
				t.Fatalf("classify(%#v) returned unknown kind %v", buf, kind)
			}
		}
	}
}

func TestClassifyRanges(t *testing.T) {
	rtpHeader := func(pt byte) []byte {
		buf := make([]byte, 12)
		buf[0] = 0x80 // version 2, no padding/extension/CSRC
		buf[1] = pt
		return buf
	}

	cases := []struct {
		name string
		buf  []byte
		want datagramKind
	}{
		{"empty", nil, kindDrop},
		{"dtls-handshake", append([]byte{22, 254, 253}, make([]byte, 20)...), kindDTLS},
		{"dtls-too-short", []byte{22, 254}, kindDrop},
		{"rtp-dynamic-pt", rtpHeader(96), kindRTP},
		{"rtcp-sr", rtpHeader(200), kindRTCP},
		{"rtcp-rr", rtpHeader(201), kindRTCP},
		{"rtp-bad-version", func() []byte { b := rtpHeader(96); b[0] = 0x40; return b }(), kindDrop},
		{"rtp-too-short", []byte{0x80, 96, 0, 0}, kindDrop},
		{"out-of-range", []byte{100, 1, 2, 3}, kindDrop},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classify(c.buf); got != c.want {
				t.Errorf("classify(%v) = %v, want %v", c.buf, got, c.want)
			}
		})
	}
}

// TestClassifyRandomDatagramsBeforeHandshake guards the pre-handshake
// robustness scenario (spec.md §8f): arbitrary short datagrams arriving
// before CONNECTED must never panic the classifier.
func TestClassifyRandomDatagramsBeforeHandshake(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		buf := make([]byte, 12)
		rng.Read(buf)
		_ = classify(buf)
	}
}
