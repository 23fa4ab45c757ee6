package location

import (
	"net/netip"
)

// IsPrivateIP reports whether addr cannot be geolocated: loopback,
// link-local, RFC1918 / unique-local ranges, or the unspecified address.
// Malformed or empty input classifies as private so bad data never
// reaches the external lookup service.
func IsPrivateIP(addr string) bool {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return true
	}
	return ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsPrivate() ||
		ip.IsUnspecified()
}
