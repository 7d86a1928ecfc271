package utils

import (
	"crypto/subtle"
)

// SecureCompare performs constant-time string comparison to prevent timing attacks.
// This MUST be used when comparing the access passphrase.
//
// Returns true if both strings are equal, false otherwise.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
