// Package dnshex builds minimal DNS query packets for use as hex knock
// payloads, e.g. against a public resolver on udp/53.
package dnshex

import (
	"encoding/hex"
	"fmt"

	"github.com/miekg/dns"
)

// TypeA is the query type for IPv4 address records.
const TypeA = dns.TypeA

// Query returns a single-question DNS query for name with a random
// transaction id and the recursion-desired bit set, encoded as a
// lowercase hex string suitable for the knocker's --payload flag.
func Query(name string, qtype uint16) (string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	wire, err := m.Pack()
	if err != nil {
		return "", fmt.Errorf("pack dns query for %q: %w", name, err)
	}
	return hex.EncodeToString(wire), nil
}
