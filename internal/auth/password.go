package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize   = 16
	digestSize = 32
	argonTime  = 3
	argonMem   = 64 * 1024
	argonPar   = 4
)

// GenerateSalt returns 16 cryptographically random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Digest derives the fixed-length secret digest from a password and salt
// using Argon2id. The digest is deterministic for a given (secret, salt)
// pair, so authentication never needs the plaintext secret.
func Digest(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMem, argonPar, digestSize)
}

// VerifySecret recomputes the digest and compares in constant time.
func VerifySecret(secret string, salt, digest []byte) bool {
	return subtle.ConstantTimeCompare(Digest(secret, salt), digest) == 1
}
