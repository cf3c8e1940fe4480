package httpendpoint

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidateBaseURL checks that raw is an absolute http(s) URL suitable as a
// prefix for /v1/stars. Userinfo, query and fragment are rejected because the
// API key travels in a header and paths are appended verbatim. Loopback and
// private hosts are rejected unless allowPrivate is set.
func ValidateBaseURL(raw string, allowPrivate bool) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}

	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("invalid base url scheme %q (must be http or https)", u.Scheme)
	case u.Hostname() == "":
		return fmt.Errorf("invalid base url host %q", u.Host)
	case u.User != nil:
		return fmt.Errorf("base url must not contain userinfo")
	case u.RawQuery != "" || u.ForceQuery:
		return fmt.Errorf("base url must not contain a query")
	case u.Fragment != "":
		return fmt.Errorf("base url must not contain a fragment")
	}

	if !allowPrivate && isLocalHost(u.Hostname()) {
		return fmt.Errorf("base url host %q is private or loopback (use WithAllowPrivate for local servers)", u.Hostname())
	}
	return nil
}

func isLocalHost(host string) bool {
	h := strings.ToLower(host)
	if h == "localhost" || strings.HasSuffix(h, ".localhost") {
		return true
	}

	ip := net.ParseIP(h)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsUnspecified() || !ip.IsGlobalUnicast()
}
