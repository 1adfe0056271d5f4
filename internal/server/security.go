package server

import (
	"net/http"
	"strings"
)

// Request-size bounds enforced before the core runs.
const (
	maxBodySize = 1 << 20 // 1MB request body cap
)

// sanitizeInput removes NUL bytes and control characters (except
// newlines and tabs) from user input and trims surrounding whitespace.
func sanitizeInput(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))

	for _, r := range input {
		if r == 0 {
			continue
		}
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		if r == 0x7F {
			continue
		}
		sb.WriteRune(r)
	}

	return strings.TrimSpace(sb.String())
}

// setSecurityHeaders sets the standard security headers on a response.
func setSecurityHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
}
