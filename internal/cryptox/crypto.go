// Package cryptox holds the key-derivation helpers used by the login flow.
//
// Passwords never leave the client: the client derives a key from the
// password and a per-user salt with Argon2id and sends only a SHA-256
// verifier of that key to the server.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
)

// SaltSize is the size of a freshly generated registration salt.
const SaltSize = 32

// DeriveKey stretches password with salt using Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, keyLen)
}

// MakeVerifier returns the value the server stores and compares against.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// VerifierFromPassword is DeriveKey followed by MakeVerifier.
func VerifierFromPassword(password []byte, salt []byte) []byte {
	return MakeVerifier(DeriveKey(password, salt))
}
