package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32

// GenerateToken returns a new opaque auth token. The token carries no
// structure; it is only a lookup key into the server-side token store.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security.GenerateToken: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
