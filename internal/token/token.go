// Package token generates opaque session identifiers.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// sessionTokenBytes gives 256 bits of entropy per session identifier.
const sessionTokenBytes = 32

// NewSession returns a URL-safe random session identifier. Session
// identifiers must be fully random; anything time-prefixed would make
// them guessable.
func NewSession() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
