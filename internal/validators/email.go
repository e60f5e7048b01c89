// Package validators holds input checks that need more than a struct
// tag, like DNS-backed email domain verification at registration.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid accepts an address whose domain resolves to a
// mail exchanger, or at least to any host. Network failures count as
// invalid; registration is the one place a false negative is cheap.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
