//////////////////////////////////////////////////////////////////////////////
//
// DTLS engine adapter (C6/C8): wires github.com/pion/dtls/v3 in as the
// DTLS-SRTP collaborator. The peer always takes the server role (§4.8:
// "initializes DTLS in server role"), matching the controlled ICE role.
//
//////////////////////////////////////////////////////////////////////////////

package peerlink

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pion/dtls/v3"
	pionlog "github.com/pion/logging"

	"github.com/tidalrtc/peerlink/internal/logging"
)

type dtlsState int

const (
	dtlsInit dtlsState = iota
	dtlsHandshaking
	dtlsConnected
	dtlsFailed
)

const (
	srtpKeyLen  = 16
	srtpSaltLen = 14
)

type dtlsEngine struct {
	cert        tls.Certificate
	fingerprint string

	log     *logging.Logger
	factory pionlog.LoggerFactory

	mu    sync.Mutex
	state dtlsState
	conn  *dtls.Conn
	err   error
	done  chan struct{}
}

func newDTLSEngine(opts PeerOptions, log *logging.Logger, factory pionlog.LoggerFactory) (*dtlsEngine, error) {
	var cert tls.Certificate
	var fp string
	var err error

	if opts.Certificate != nil {
		cert = tls.Certificate{Certificate: [][]byte{opts.Certificate.Raw}, PrivateKey: opts.PrivateKey}
		fp = fingerprintOf(opts.Certificate.Raw)
	} else {
		cert, fp, err = generateSelfSignedCert()
		if err != nil {
			return nil, newPeerError(KindConfigError, err)
		}
	}

	return &dtlsEngine{
		cert:        cert,
		fingerprint: fp,
		log:         log,
		factory:     factory,
		done:        make(chan struct{}),
	}, nil
}

// beginHandshake drives one DTLS server handshake over transport, bounded by
// timeout cumulative wait (§5). It runs on its own goroutine; the caller
// polls pollHandshake() from loop() rather than blocking (§4.6).
func (e *dtlsEngine) beginHandshake(ctx context.Context, transport net.Conn, timeout time.Duration) {
	e.mu.Lock()
	if e.state != dtlsInit {
		e.mu.Unlock()
		return
	}
	e.state = dtlsHandshaking
	e.mu.Unlock()

	cfg := &dtls.Config{
		Certificates:           []tls.Certificate{e.cert},
		SRTPProtectionProfiles: []dtls.SRTPProtectionProfile{dtls.SRTP_AES128_CM_HMAC_SHA1_80},
		ClientAuth:             dtls.RequireAnyClientCert,
		InsecureSkipVerify:     true,
		LoggerFactory:          e.factory,
	}

	hctx, cancel := context.WithTimeout(ctx, timeout)
	go func() {
		defer cancel()
		conn, err := dtls.ServerWithContext(hctx, transport, cfg)

		e.mu.Lock()
		e.conn, e.err = conn, err
		if err != nil {
			e.state = dtlsFailed
		} else {
			e.state = dtlsConnected
		}
		e.mu.Unlock()
		close(e.done)
	}()
}

// pollHandshake is non-blocking: ok is true once the handshake has resolved.
func (e *dtlsEngine) pollHandshake() (ok bool, err error) {
	select {
	case <-e.done:
		e.mu.Lock()
		defer e.mu.Unlock()
		return true, e.err
	default:
		return false, nil
	}
}

func (e *dtlsEngine) validateRemoteFingerprint(expected string) error {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil {
		return newPeerError(KindHandshakeFailed, fmt.Errorf("dtls not connected"))
	}

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return newPeerError(KindHandshakeFailed, fmt.Errorf("peer presented no certificate"))
	}
	got := fingerprintOf(certs[0])
	if !strings.EqualFold(got, expected) {
		return newPeerError(KindHandshakeFailed, fmt.Errorf("dtls fingerprint mismatch"))
	}
	return nil
}

// srtpKeyingMaterial exports the four SRTP key/salt components per RFC 5764
// §4.2, in server order (local = write-as-server material).
func (e *dtlsEngine) srtpKeyingMaterial() (writeKey, writeSalt, readKey, readSalt []byte, err error) {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn == nil {
		return nil, nil, nil, nil, newPeerError(KindHandshakeFailed, fmt.Errorf("dtls not connected"))
	}

	material, err := conn.ExportKeyingMaterial("EXTRACTOR-dtls_srtp", nil, 2*(srtpKeyLen+srtpSaltLen))
	if err != nil {
		return nil, nil, nil, nil, newPeerError(KindHandshakeFailed, err)
	}

	off := 0
	clientWriteKey := material[off : off+srtpKeyLen]
	off += srtpKeyLen
	serverWriteKey := material[off : off+srtpKeyLen]
	off += srtpKeyLen
	clientWriteSalt := material[off : off+srtpSaltLen]
	off += srtpSaltLen
	serverWriteSalt := material[off : off+srtpSaltLen]

	// We are always the DTLS server (§4.8): our write key is the server key,
	// our read key is the client's.
	return serverWriteKey, serverWriteSalt, clientWriteKey, clientWriteSalt, nil
}

func (e *dtlsEngine) hasStarted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != dtlsInit
}

func (e *dtlsEngine) isConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == dtlsConnected
}

func (e *dtlsEngine) isFailed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == dtlsFailed
}

func (e *dtlsEngine) netConn() net.Conn {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn
}

func (e *dtlsEngine) close() error {
	e.mu.Lock()
	conn := e.conn
	e.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}
