// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is credential hashing: store only the hash, then verify user
// input by comparing the plaintext against the stored value. Implementations
// (bcrypt, argon2id, HMAC-SHA256) live behind a small interface.
package hash

// Hash hashes plaintext secrets and verifies plaintext against stored hashes.
type Hash interface {
	// Hash returns the hashed representation of the plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether the plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
