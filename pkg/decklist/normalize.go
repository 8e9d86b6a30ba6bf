package decklist

import (
	"fmt"
	"strings"
)

// suspiciousTokens are rejected anywhere inside a normalized identifier,
// regardless of what Sanitize already removed.
var suspiciousTokens = []string{
	"script",
	"eval",
	"function",
	"alert",
	"document",
	"window",
	"cookie",
	"iframe",
}

// Normalize reduces a raw card token to a candidate identifier.
//
// Characters outside [A-Za-z0-9_-] are dropped and the result is cut to
// MaxIDLen. The token is rejected with ErrInvalidCardID when the result is
// shorter than MinIDLen or contains a suspicious token.
func Normalize(token string) (string, error) {
	var b strings.Builder
	for _, r := range token {
		if isIDRune(r) {
			b.WriteRune(r)
			if b.Len() == MaxIDLen {
				break
			}
		}
	}
	id := b.String()

	if len(id) < MinIDLen || len(id) > MaxIDLen {
		return "", fmt.Errorf("%w: length %d outside [%d, %d]", ErrInvalidCardID, len(id), MinIDLen, MaxIDLen)
	}

	lower := strings.ToLower(id)
	for _, bad := range suspiciousTokens {
		if strings.Contains(lower, bad) {
			return "", fmt.Errorf("%w: contains %q", ErrInvalidCardID, bad)
		}
	}

	return id, nil
}

func isIDRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' || r == '-'
}
