package auth

import (
	"crypto/rand"
	"encoding/hex"
)

const sessionTokenBytes = 32

// GenerateSessionToken returns a random opaque session identifier.
func GenerateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
