// Package p2p implements the Tezos peer handshake state machine over a
// TCP stream.
//
// A Peer owns one connection and one identity. Handshake drives the
// fixed three-step exchange (connection message, metadata, ack) and, on
// success, leaves the peer Connected with an established encrypted
// session.
//
// Example:
//
//	peer, err := p2p.Connect(ctx, "127.0.0.1:9732", identity, "TEZOS_MAINNET")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := peer.Handshake(); err != nil {
//	    log.Fatal(err)
//	}
//	defer peer.Disconnect()
package p2p

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fraidev/p2p-node-handshake-tezos/crypto"
	"github.com/fraidev/p2p-node-handshake-tezos/wire"
)

// Protocol revisions advertised in the connection message.
const (
	distributedDBVersion uint16 = 2
	p2pVersion           uint16 = 1
)

// State is the connection state of a peer.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Peer is one outbound connection to a remote node. The stream is a
// mutually exclusive resource: each send or receive holds the lock for
// the duration of that one operation only.
type Peer struct {
	addr      string
	port      uint16
	identity  *crypto.Identity
	chainName string

	mu      sync.Mutex // guards conn and session installation
	conn    net.Conn
	state   State
	session *crypto.PeerCrypto
}

// Connect dials the peer over TCP and returns a Peer in the Connecting
// state. The context bounds the dial only; use SetDeadline if a stalled
// peer must not stall the handshake.
func Connect(ctx context.Context, addr string, identity *crypto.Identity, chainName string) (*Peer, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, newPeerError("connect", addr, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, newPeerError("connect", addr, fmt.Errorf("invalid port: %w", err))
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, newPeerError("connect", addr, err)
	}

	logrus.WithFields(logrus.Fields{
		"addr":  addr,
		"chain": chainName,
	}).Debug("Connected to peer")

	peer := NewPeer(conn, uint16(port), identity, chainName)
	peer.addr = addr
	return peer, nil
}

// NewPeer wraps an already established stream in a Peer in the
// Connecting state. port is the port advertised in the connection
// message.
func NewPeer(conn net.Conn, port uint16, identity *crypto.Identity, chainName string) *Peer {
	addr := ""
	if remote := conn.RemoteAddr(); remote != nil {
		addr = remote.String()
	}
	return &Peer{
		addr:      addr,
		port:      port,
		identity:  identity,
		chainName: chainName,
		conn:      conn,
		state:     StateConnecting,
	}
}

// State reports the current connection state.
func (p *Peer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Addr reports the peer address.
func (p *Peer) Addr() string {
	return p.addr
}

// SetDeadline arms an absolute deadline on every future read and write
// of the underlying stream. The core never sets one itself; callers use
// this to bound the whole handshake.
func (p *Peer) SetDeadline(t time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return newPeerError("deadline", p.addr, net.ErrClosed)
	}
	return p.conn.SetDeadline(t)
}

// Handshake runs the full handshake sequence: unencrypted connection
// message exchange, session key and nonce derivation, encrypted metadata
// exchange, encrypted acknowledgement exchange. Any failure is fatal to
// the attempt and leaves the peer in a non-connected state; there are no
// retries.
func (p *Peer) Handshake() error {
	if state := p.State(); state != StateConnecting {
		return newPeerError("handshake", p.addr, fmt.Errorf("handshake from %s state", state))
	}

	sent, recv, err := p.exchangeConnectionMessages()
	if err != nil {
		return err
	}
	if err := p.establishSession(sent, recv); err != nil {
		return err
	}
	if err := p.exchangeMetadata(); err != nil {
		return err
	}
	if err := p.exchangeAck(); err != nil {
		return err
	}

	p.mu.Lock()
	p.state = StateConnected
	p.mu.Unlock()

	logrus.WithField("addr", p.addr).Info("Handshake completed")
	return nil
}

// exchangeConnectionMessages sends our connection message and receives
// the peer's, both unencrypted. It returns the two serialized payloads
// exactly as they crossed the wire, minus framing.
func (p *Peer) exchangeConnectionMessages() (sent, recv []byte, err error) {
	nonce, err := crypto.RandomNonce()
	if err != nil {
		return nil, nil, newPeerError("handshake", p.addr, err)
	}

	connMsg := wire.NewConnectionMessage(
		p.port,
		[wire.PublicKeyLength]byte(p.identity.PublicKey),
		[wire.ProofOfWorkLength]byte(p.identity.ProofOfWorkStamp),
		nonce.Bytes(),
		wire.NewNetworkVersion(p.chainName, distributedDBVersion, p2pVersion),
	)
	sent, err = connMsg.Serialize()
	if err != nil {
		return nil, nil, newPeerError("handshake", p.addr, err)
	}

	if err = p.SendMessage(sent, false); err != nil {
		return nil, nil, err
	}
	logrus.WithFields(logrus.Fields{
		"addr":  p.addr,
		"chain": p.chainName,
		"port":  p.port,
	}).Info("Sent connection message")

	recv, err = p.ReceiveMessage(false)
	if err != nil {
		return nil, nil, err
	}
	return sent, recv, nil
}

// establishSession parses the peer's connection message and installs the
// encrypted session derived from the exchanged bytes. Everything after
// this point travels encrypted.
func (p *Peer) establishSession(sent, recv []byte) error {
	peerMsg, err := wire.ParseConnectionMessage(recv)
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}
	logrus.WithFields(logrus.Fields{
		"addr":  p.addr,
		"chain": peerMsg.Version.ChainName,
	}).Info("Received connection message")

	peerPublic, err := crypto.PublicKeyFromBytes(peerMsg.PublicKey[:])
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}

	// The nonce derivation covers the framed bytes, length prefix
	// included.
	sentRaw, err := wire.Frame(sent)
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}
	recvRaw, err := wire.Frame(recv)
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}

	session, err := crypto.BuildPeerCrypto(p.identity.SecretKey, peerPublic, sentRaw, recvRaw, false)
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()
	return nil
}

func (p *Peer) exchangeMetadata() error {
	meta := wire.NewMetadataMessage(false, false)
	if err := p.SendMessage(meta.Serialize(), true); err != nil {
		return err
	}
	logrus.WithField("addr", p.addr).Info("Sent metadata message")

	recv, err := p.ReceiveMessage(true)
	if err != nil {
		return err
	}
	peerMeta, err := wire.ParseMetadataMessage(recv)
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}
	logrus.WithFields(logrus.Fields{
		"addr":            p.addr,
		"disable_mempool": peerMeta.DisableMempool,
		"private_node":    peerMeta.PrivateNode,
	}).Info("Received metadata message")
	return nil
}

func (p *Peer) exchangeAck() error {
	ack, err := wire.AckStatusAck.Serialize()
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}
	if err := p.SendMessage(ack, true); err != nil {
		return err
	}
	logrus.WithField("addr", p.addr).Info("Sent acknowledgement")

	recv, err := p.ReceiveMessage(true)
	if err != nil {
		return err
	}
	status, err := wire.ParseAckStatus(recv)
	if err != nil {
		return newPeerError("handshake", p.addr, err)
	}
	if status != wire.AckStatusAck {
		return newPeerError("handshake", p.addr, fmt.Errorf("%w: got %s", ErrAckMismatch, status))
	}
	logrus.WithField("addr", p.addr).Info("Received acknowledgement")
	return nil
}

// SendMessage frames and writes one payload, encrypting it first when
// encrypted is set. Encrypted sends before the session exists fail with
// ErrPeerCryptoNotInitialized.
func (p *Peer) SendMessage(payload []byte, encrypted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return newPeerError("send", p.addr, net.ErrClosed)
	}

	data := payload
	if encrypted {
		if p.session == nil {
			return newPeerError("send", p.addr, ErrPeerCryptoNotInitialized)
		}
		data = p.session.Encrypt(payload)
	}

	if err := wire.WriteFrame(p.conn, data); err != nil {
		return newPeerError("send", p.addr, err)
	}
	return nil
}

// ReceiveMessage reads one framed payload, decrypting it when encrypted
// is set.
func (p *Peer) ReceiveMessage(encrypted bool) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil, newPeerError("receive", p.addr, net.ErrClosed)
	}

	payload, err := wire.ReadFrame(p.conn)
	if err != nil {
		return nil, newPeerError("receive", p.addr, err)
	}

	if !encrypted || len(payload) == 0 {
		return payload, nil
	}
	if p.session == nil {
		return nil, newPeerError("receive", p.addr, ErrPeerCryptoNotInitialized)
	}
	decrypted, err := p.session.Decrypt(payload)
	if err != nil {
		return nil, newPeerError("receive", p.addr, err)
	}
	return decrypted, nil
}

// Disconnect shuts the stream down and moves the peer to Disconnected,
// whatever state it was in.
func (p *Peer) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateDisconnected
	if p.conn == nil {
		return nil
	}

	// Half-close first so pending writes drain before the teardown.
	if tc, ok := p.conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			p.conn.Close()
			p.conn = nil
			return newPeerError("disconnect", p.addr, err)
		}
	}
	err := p.conn.Close()
	p.conn = nil
	if err != nil {
		return newPeerError("disconnect", p.addr, err)
	}

	logrus.WithField("addr", p.addr).Debug("Disconnected from peer")
	return nil
}
