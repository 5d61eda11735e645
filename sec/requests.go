package sec

import "strings"

// ExtractBearerToken returns the token of an `Authorization: Bearer <token>`
// header, or "" when the header has another shape
func ExtractBearerToken(header string) string {
	const prefix = "Bearer "
	prefixLen := len(prefix)
	if len(header) > prefixLen && strings.EqualFold(header[:prefixLen], prefix) {
		return strings.TrimSpace(header[prefixLen:])
	}
	return ""
}
