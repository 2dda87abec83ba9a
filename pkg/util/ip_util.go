package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	cidrRe = regexp.MustCompile(`^([0-9]{1,3}\.){3}[0-9]{1,3}/([0-9]|[12][0-9]|3[0-2])$`)
	macRe  = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)
)

// DefaultIpBase is the network auto-assigned host addresses are taken from.
const DefaultIpBase = "10.0.0.0/8"

// CheckIpv4CIDR reports whether ip is an IPv4 address with prefix length,
// e.g. 192.168.1.1/24.
func CheckIpv4CIDR(ip string) bool {
	if !cidrRe.MatchString(ip) {
		return false
	}

	ipAddress := strings.Split(ip, "/")[0]

	// check each part of the IP address
	for _, part := range strings.Split(ipAddress, ".") {
		if val, err := strconv.Atoi(part); err != nil || val < 0 || val > 255 {
			return false
		}
	}
	return true
}

// CheckMac reports whether mac is six colon separated hex octets.
func CheckMac(mac string) bool {
	return macRe.MatchString(mac)
}

// AutoIpv4 returns the address of the seq-th host (1-based) inside DefaultIpBase.
func AutoIpv4(seq int) string {
	if seq < 1 || seq > 1<<24-2 {
		return ""
	}
	return fmt.Sprintf("10.%d.%d.%d/8", (seq>>16)&0xff, (seq>>8)&0xff, seq&0xff)
}

// SplitCIDR returns the address part of a CIDR string.
func SplitCIDR(cidr string) string {
	if i := strings.IndexByte(cidr, '/'); i >= 0 {
		return cidr[:i]
	}
	return cidr
}
