// Command handshake establishes an authenticated encrypted session with
// a Tezos node and tears it down again.
//
// With no flags it resolves the mainnet bootstrap names, picks a random
// node and performs the full handshake against it.
package main

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/ogier/pflag"
	"github.com/sirupsen/logrus"

	"github.com/fraidev/p2p-node-handshake-tezos/crypto"
	"github.com/fraidev/p2p-node-handshake-tezos/p2p"
)

// defaultIdentityJSON is a throwaway identity used when none is supplied.
const defaultIdentityJSON = `{ "peer_id": "idsfYM6UbG2nhNS1dqhsJEchaDhmd9",
  "public_key":
    "17f7d11892274a7230d969aa1335d25e637f43087b76d0e24a1a8b7d03168f5c",
  "secret_key":
    "0271fac86d020aebe6a1c9768381e7245e48e77524cca2a1652d0a621fac289f",
  "proof_of_work_stamp": "b6a4a80d765047918b037c85958c41096326a4b52ff0377e" }`

const handshakeTimeout = 30 * time.Second

func main() {
	peerFlag := pflag.String("peer", "", "peer address as host:port (default: a random bootstrap node)")
	identityFlag := pflag.String("identity", "", "path to an identity JSON file")
	chainFlag := pflag.String("chain", "TEZOS_MAINNET", "chain name to handshake for")
	verboseFlag := pflag.Bool("verbose", false, "enable debug logging")
	pflag.Parse()

	if *verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handshakeTimeout)
	defer cancel()

	addr := *peerFlag
	if addr == "" {
		logrus.Info("Looking for active bootstrap nodes")
		nodes := p2p.LookupActiveNodes(ctx, p2p.DefaultBootstrapPeers, p2p.DefaultPort)
		if len(nodes) == 0 {
			logrus.Fatal("No bootstrap node resolved")
		}
		node := nodes[rand.Intn(len(nodes))]
		addr = node.String()
	}

	identity, err := loadIdentity(*identityFlag)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load identity")
	}
	logrus.WithField("peer_id", identity.PeerID).Info("Loaded identity")

	chainName := strings.ToUpper(*chainFlag)
	logrus.WithFields(logrus.Fields{
		"addr":  addr,
		"chain": chainName,
	}).Info("Connecting to peer")

	peer, err := p2p.Connect(ctx, addr, identity, chainName)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to peer")
	}

	// The protocol has no timeouts of its own; bound the whole exchange
	// so a stalled peer cannot stall us.
	if err := peer.SetDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		logrus.WithError(err).Fatal("Failed to arm handshake deadline")
	}

	if err := peer.Handshake(); err != nil {
		peer.Disconnect()
		logrus.WithError(err).Fatal("Handshake failed")
	}

	if err := peer.Disconnect(); err != nil {
		logrus.WithError(err).Fatal("Failed to disconnect")
	}
	logrus.WithField("addr", addr).Info("Session established and closed")
}

func loadIdentity(path string) (*crypto.Identity, error) {
	if path != "" {
		return crypto.LoadIdentityFile(path)
	}
	return crypto.LoadIdentity([]byte(defaultIdentityJSON))
}
