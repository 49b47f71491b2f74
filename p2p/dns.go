package p2p

import (
	"context"
	"net"

	"github.com/sirupsen/logrus"
)

// DefaultPort is the standard Tezos peer-to-peer port.
const DefaultPort uint16 = 9732

// DefaultBootstrapPeers are the mainnet bootstrap DNS names.
var DefaultBootstrapPeers = []string{
	"boot.tzboot.net",
	"boot.tzbeta.net",
	"boot.mainnet.oxheadhosted.com",
}

// LookupActiveNodes resolves each bootstrap hostname and collects every
// returned address with the given port. Hosts that fail to resolve are
// skipped, not fatal.
func LookupActiveNodes(ctx context.Context, hosts []string, port uint16) []net.TCPAddr {
	var nodes []net.TCPAddr
	for _, host := range hosts {
		addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"host":  host,
				"error": err,
			}).Warn("Bootstrap lookup failed")
			continue
		}
		for _, addr := range addrs {
			nodes = append(nodes, net.TCPAddr{IP: addr.IP, Zone: addr.Zone, Port: int(port)})
		}
	}
	return nodes
}
