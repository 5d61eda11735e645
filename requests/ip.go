package requests

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP prefers proxy headers; only trust them behind a proxy that sets them
func GetClientIP(r *http.Request) string {
	// Prefer X-Forwarded-For (first entry)
	if xForwaredFor := r.Header.Get("X-Forwarded-For"); xForwaredFor != "" {
		first, _, _ := strings.Cut(xForwaredFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	// Fallback to X-Real-IP
	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return strings.TrimSpace(xRealIP)
	}
	// Final fallback: RemoteAddr (nginx IP)
	hostIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return hostIP
}
