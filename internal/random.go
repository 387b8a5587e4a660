package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const refreshSecretSize = 32

// NewRefreshToken returns an opaque refresh token: 32 bytes of
// crypto/rand encoded base64url without padding. Uniqueness is a property of
// the generator; the session scan treats tokens as exact opaque strings.
func NewRefreshToken() (string, error) {
	var secret [refreshSecretSize]byte
	if _, err := rand.Read(secret[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(secret[:]), nil
}
