package internal

import (
	"errors"
	"net"
)

// ServerIpNet returns the first non-loopback IPv4 network of an interface
// that is up. Analytics rows are keyed by it.
func ServerIpNet() (net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return net.IPNet{}, err
		}

		for _, addr := range addrs {
			if ipnet, ok := ipv4Net(addr); ok {
				return ipnet, nil
			}
		}
	}

	return net.IPNet{}, errors.New("ipnet could not be found")
}

func MustGetServerIpNet() net.IPNet {
	ipnet, err := ServerIpNet()
	if err != nil {
		panic(err)
	}
	return ipnet
}

func ipv4Net(addr net.Addr) (net.IPNet, bool) {
	var ip net.IP
	mask := net.CIDRMask(32, 32)

	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
		mask = v.Mask
	case *net.IPAddr:
		ip = v.IP
	}

	if ip == nil || ip.To4() == nil || ip.IsLoopback() {
		return net.IPNet{}, false
	}
	return net.IPNet{IP: ip.To4(), Mask: mask}, true
}
