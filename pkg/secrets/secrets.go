// Package secrets generates the opaque tokens used by confirmation and
// password-reset links. Tokens are looked up as unique keys from
// unauthenticated request paths, so they must be unpredictable; callers are
// expected to collision-check at insertion time and regenerate on conflict.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TokenLength is the length in characters of every generated token.
const TokenLength = sha256.Size * 2

// NewToken produces a fixed-length hexadecimal token from a cryptographically
// strong random salt mixed with record-identifying seed material.
func NewToken(seed string) (string, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("could not generate token salt: %w", err)
	}

	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(seed))
	return hex.EncodeToString(h.Sum(nil)), nil
}
