package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Headers consulted by GetIP, most trusted first. Cloudflare and Fly set
// a single address; X-Forwarded-For may carry a chain.
var headers = []string{
	"CF-Connecting-IP",
	"Fly-Client-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the caller address of r, or "" when nothing parses.
// For X-Forwarded-For the first valid entry wins.
func GetIP(r *http.Request) string {
	for _, h := range headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for candidate := range strings.SplitSeq(v, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
