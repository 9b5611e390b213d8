package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSessionToken returns an opaque bearer token. The token itself is
// the session credential: it is stored verbatim in the sessions table and
// matched byte-for-byte on every request. Nothing is encoded inside it.
func GenerateSessionToken(length int) (string, error) {
	if length <= 0 {
		length = 64
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
