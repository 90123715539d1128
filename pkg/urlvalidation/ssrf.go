// Package urlvalidation checks operator-configured outbound URLs before the
// relay starts using them.
package urlvalidation

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// Option configures URL validation behavior.
type Option func(*validationConfig)

type validationConfig struct {
	allowPrivate bool
	lookup       func(host string) ([]string, error)
}

// AllowPrivateIPs disables the private address check and with it the
// hostname lookup. Self-hosted webhook receivers on a private network need
// this.
func AllowPrivateIPs() Option {
	return func(c *validationConfig) {
		c.allowPrivate = true
	}
}

// WithResolver replaces net.LookupHost.
func WithResolver(lookup func(host string) ([]string, error)) Option {
	return func(c *validationConfig) {
		c.lookup = lookup
	}
}

// ValidateWebhookURL checks that rawURL is usable as an outbound webhook
// target: http or https with a hostname. Unless AllowPrivateIPs is given the
// host is resolved and every address must be public.
func ValidateWebhookURL(rawURL string, opts ...Option) error {
	cfg := validationConfig{lookup: net.LookupHost}
	for _, opt := range opts {
		opt(&cfg)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("URL scheme %q not allowed; use http or https", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	if cfg.allowPrivate {
		return nil
	}

	addrs, err := cfg.lookup(host)
	if err != nil {
		return fmt.Errorf("cannot resolve hostname %q: %w", host, err)
	}
	for _, a := range addrs {
		addr, err := netip.ParseAddr(a)
		if err != nil {
			continue
		}
		if isPrivate(addr) {
			return fmt.Errorf("URL resolves to private/reserved address %s", addr)
		}
	}
	return nil
}

// reserved lists ranges not covered by the netip predicates.
var reserved = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),   // shared address space (CGN)
	netip.MustParsePrefix("0.0.0.0/8"),       // "this" network
	netip.MustParsePrefix("192.0.0.0/24"),    // IETF protocol assignments
	netip.MustParsePrefix("192.0.2.0/24"),    // TEST-NET-1
	netip.MustParsePrefix("198.51.100.0/24"), // TEST-NET-2
	netip.MustParsePrefix("203.0.113.0/24"),  // TEST-NET-3
	netip.MustParsePrefix("198.18.0.0/15"),   // benchmarking
	netip.MustParsePrefix("240.0.0.0/4"),     // reserved, includes broadcast
}

func isPrivate(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsMulticast() || addr.IsUnspecified() {
		return true
	}
	for _, p := range reserved {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
