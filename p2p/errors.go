package p2p

import (
	"errors"
	"fmt"
)

// Handshake and session errors.
var (
	// ErrPeerCryptoNotInitialized indicates encrypted send or receive
	// was requested before the connection-message exchange completed.
	ErrPeerCryptoNotInitialized = errors.New("peer crypto not initialized")

	// ErrAckMismatch indicates the peer answered the handshake with
	// anything other than Ack.
	ErrAckMismatch = errors.New("peer did not acknowledge the handshake")
)

// PeerError carries the failing operation and peer address alongside the
// underlying cause.
type PeerError struct {
	Op   string // operation that caused the error
	Addr string // peer address
	Err  error  // underlying error
}

func (e *PeerError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("peer %s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("peer %s: %v", e.Op, e.Err)
}

func (e *PeerError) Unwrap() error {
	return e.Err
}

func newPeerError(op, addr string, err error) *PeerError {
	return &PeerError{Op: op, Addr: addr, Err: err}
}
