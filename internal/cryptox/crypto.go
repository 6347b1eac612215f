// Package cryptox holds the key-derivation helpers used to store one-time
// verification codes at rest. Codes are never persisted in clear text, only
// their derived verifiers.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// DeriveVerifier derives a 32-byte verifier from a secret and a per-code salt
// using Argon2id. The same parameters must be used on both the issuing and
// the verifying side.
func DeriveVerifier(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// VerifyMatch re-derives the verifier for the candidate secret and compares
// it to the stored one in constant time.
func VerifyMatch(verifier []byte, candidate []byte, salt []byte) bool {
	derived := DeriveVerifier(candidate, salt)
	return subtle.ConstantTimeCompare(verifier, derived) == 1
}
