package crawl

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Scope decides whether links belong to the same site as a base page.
// The zero value contains nothing.
type Scope struct {
	domain string
}

// NewScope returns the scope of baseURL's registrable domain.
// A base URL without a parsable host yields an empty scope that accepts
// only relative links.
func NewScope(baseURL string) Scope {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Scope{}
	}
	return Scope{domain: RegistrableDomain(u.Hostname())}
}

// Domain returns the registrable domain the scope compares hosts against.
func (s Scope) Domain() string {
	return s.domain
}

// Contains reports whether candidate is internal: it parses, uses http,
// https or no scheme at all, has a non-empty path, and is either relative
// or hosted on the scope's registrable domain or one of its subdomains.
func (s Scope) Contains(candidate string) bool {
	u, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return false
	}
	if u.Path == "" {
		return false
	}
	return s.containsHost(u)
}

// containsHost applies the scheme and host rules without the path rule.
func (s Scope) containsHost(u *url.URL) bool {
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
	default:
		return false
	}
	if u.Host == "" {
		return u.Scheme == ""
	}
	if s.domain == "" {
		return false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	return host == s.domain || strings.HasSuffix(host, "."+s.domain)
}

// IsInternal reports whether candidate belongs to the same site as baseURL.
func IsInternal(candidate, baseURL string) bool {
	return NewScope(baseURL).Contains(candidate)
}

// RegistrableDomain returns the eTLD+1 of host, lowercased. IP literals,
// single-label hosts and hosts without a registrable domain return the
// host itself.
func RegistrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
