// Package hash implements the password digest stored by the user routes.
//
// The digest is unsalted and deterministic on purpose: rows written by
// earlier versions of this service hold exactly this format, and partial
// updates must leave an untouched digest comparable to a freshly computed
// one. Do not reuse this for new credential handling.
package hash

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Digest returns the hex-encoded SHA3-512 of password. Same input, same
// output; the result is always 128 hex characters.
func Digest(password string) string {
	sum := sha3.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}
