package security

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	hashKeyInfo  = "resource-hub session cookie hash key"
	blockKeyInfo = "resource-hub session cookie block key"
)

// NewKeys derives the securecookie hash key (HMAC) and block key (AES-256)
// from the configured session secret.
func NewKeys(secret string) ([]byte, []byte) {
	return deriveKey(secret, hashKeyInfo, 32), deriveKey(secret, blockKeyInfo, 32)
}

func deriveKey(secret, info string, length int) []byte {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	key := make([]byte, length)
	if _, err := io.ReadFull(r, key); err != nil {
		panic(err)
	}
	return key
}
