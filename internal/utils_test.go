package internal

import (
	"net"
	"testing"
)

func TestIpv4Net(t *testing.T) {
	tests := []struct {
		name     string
		addr     net.Addr
		expected string
		ok       bool
	}{
		{"ipnet", &net.IPNet{IP: net.ParseIP("10.1.2.3"), Mask: net.CIDRMask(24, 32)}, "10.1.2.3/24", true},
		{"ipaddr", &net.IPAddr{IP: net.ParseIP("192.0.2.7")}, "192.0.2.7/32", true},
		{"loopback", &net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)}, "", false},
		{"ipv6", &net.IPNet{IP: net.ParseIP("2001:db8::1"), Mask: net.CIDRMask(64, 128)}, "", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := ipv4Net(test.addr)
			if ok != test.ok {
				t.Fatalf("expected ok: %t\tgot: %t", test.ok, ok)
			}
			if ok && got.String() != test.expected {
				t.Fatalf("expected ipnet: %s\tgot: %s", test.expected, got.String())
			}
		})
	}
}
