package middleware

import (
	"net"
	"net/http"
	"strings"
)

// HSTS adds a Strict-Transport-Security header: one year, all subdomains.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// IsHostAllowed validates a host against the allowed hosts list, ignoring
// ports. Used to prevent redirect poisoning when redirecting HTTP to HTTPS.
// An empty list allows everything.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSpace(host))
	hostOnly, _, err := net.SplitHostPort(host)
	if err != nil {
		hostOnly = host
	}

	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		allowedOnly := allowed
		if idx := strings.Index(allowed, ":"); idx != -1 {
			allowedOnly = allowed[:idx]
		}
		if host == allowed || hostOnly == allowedOnly {
			return true
		}
	}
	return false
}
