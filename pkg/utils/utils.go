package utils

import (
	"net"
)

func ParseIPv4(s string) net.IP {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}

	return ip.To4()
}

func DottedQuad(mask net.IPMask) string {
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}

	return net.IP(mask).String()
}

func ContainsIP(ips []net.IP, ip net.IP) bool {
	for _, candidate := range ips {
		if candidate.Equal(ip) {
			return true
		}
	}

	return false
}
