package dnshex

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/miekg/dns"
)

func TestQuery_ProducesValidPacket(t *testing.T) {
	h, err := Query("example.com", TypeA)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if h != strings.ToLower(h) {
		t.Fatalf("expected lowercase hex, got %q", h)
	}

	wire, err := hex.DecodeString(h)
	if err != nil {
		t.Fatalf("output is not valid hex: %v", err)
	}
	if len(wire) < 12 {
		t.Fatalf("packet shorter than header: %d bytes", len(wire))
	}

	var m dns.Msg
	if err := m.Unpack(wire); err != nil {
		t.Fatalf("packet does not unpack: %v", err)
	}
	if !m.RecursionDesired {
		t.Fatalf("recursion-desired bit not set")
	}
	if m.Response {
		t.Fatalf("query marked as response")
	}
	if len(m.Question) != 1 {
		t.Fatalf("expected one question, got %d", len(m.Question))
	}
	q := m.Question[0]
	if q.Name != "example.com." || q.Qtype != dns.TypeA || q.Qclass != dns.ClassINET {
		t.Fatalf("bad question: %+v", q)
	}
	if len(m.Answer)+len(m.Ns)+len(m.Extra) != 0 {
		t.Fatalf("expected empty answer/authority/additional sections")
	}
}

func TestQuery_HeaderLayout(t *testing.T) {
	h, err := Query("a.b", TypeA)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	wire, _ := hex.DecodeString(h)

	// Flags: RD is the low bit of the first flag byte.
	if wire[2]&0x01 != 0x01 {
		t.Fatalf("RD bit clear in flags %02x%02x", wire[2], wire[3])
	}
	// QDCOUNT=1, AN/NS/AR = 0.
	if wire[4] != 0 || wire[5] != 1 {
		t.Fatalf("QDCOUNT != 1: %02x%02x", wire[4], wire[5])
	}
	for i := 6; i < 12; i++ {
		if wire[i] != 0 {
			t.Fatalf("nonzero count bytes in header: %x", wire[6:12])
		}
	}
	// Question: 1 'a' 1 'b' 0, then type and class.
	want := []byte{1, 'a', 1, 'b', 0, 0, 1, 0, 1}
	got := wire[12:]
	if len(got) != len(want) {
		t.Fatalf("question length %d, want %d (%x)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("question mismatch at %d: %x want %x", i, got, want)
		}
	}
}

func TestQuery_RandomizesTransactionID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		h, err := Query("example.com", TypeA)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		seen[h[:4]] = true
	}
	if len(seen) < 2 {
		t.Fatalf("transaction id never varied across 16 queries")
	}
}
