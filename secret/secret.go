// Package secret generates the opaque secrets behind recovery tokens and
// computes the digest form in which they are stored. The raw secret leaves
// the process exactly once, at generation time; only its digest is ever
// persisted or used for lookup.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// secretSize is the number of random bytes behind a raw secret. 32 bytes
// encode to 64 hex characters on the wire.
const secretSize = 32

// RawLen is the length of a generated raw secret string.
const RawLen = secretSize * 2

// Generate returns a new raw secret: secretSize bytes from crypto/rand,
// hex encoded.
func Generate() (string, error) {
	var buf [secretSize]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		return "", fmt.Errorf("secret: read random: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// Digest returns the hex-encoded SHA-256 digest of a raw secret. It is
// deterministic, so the digest can serve as the storage and lookup key for
// the secret without the secret itself ever being persisted.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
