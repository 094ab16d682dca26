package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// AccessTokenBytes is the amount of random data behind every access token.
const AccessTokenBytes = 128

// NewAccessToken returns a hex encoded random bearer credential.
func NewAccessToken() (string, error) {
	b := make([]byte, AccessTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
