package token

import (
	"crypto/rand"
	"encoding/hex"
)

// New returns a 32-character opaque hex token from 16 random bytes.
func New() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
