// Package keymat derives and seals per-voter cryptographic key material.
//
// At approval time every voter receives a fresh ECDSA keypair and a random
// session token. The private key, public key, and token are each sealed with
// AES-256-GCM under a key derived from the voter's password hash and a random
// salt, so the material at rest is opaque without the voter's credentials.
package keymat

import "errors"

// ErrProvisioning indicates key generation or sealing failed. The enclosing
// approval transaction must abort when it sees this error.
var ErrProvisioning = errors.New("keymat: provisioning failed")

// SealedField is one encrypted payload with its GCM parameters, hex-encoded.
type SealedField struct {
	Ciphertext string
	IV         string
	Tag        string
}

// Material is the full set of payloads persisted verbatim on a voter record.
type Material struct {
	PublicKey    SealedField
	PrivateKey   SealedField
	SessionToken SealedField
	Salt         string
}

// Provisioner derives a voter's key material from their stored password hash.
// Implementations must be pure functions of the input and the randomness
// source, with no store access.
type Provisioner interface {
	Provision(passwordHash string) (Material, error)
}
