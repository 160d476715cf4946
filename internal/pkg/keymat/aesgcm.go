package keymat

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen      = 16
	tokenLen     = 32
	aesKeyLen    = 32
	gcmNonceSize = 12
	gcmTagSize   = 16

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Field labels bound into the GCM AAD so payloads cannot be swapped between
// fields of the same voter.
const (
	labelPublicKey    = "public-key"
	labelPrivateKey   = "private-key"
	labelSessionToken = "session-token"
)

// AESGCMProvisioner implements Provisioner using scrypt key derivation,
// ECDSA P-256 keypairs, and AES-256-GCM sealing.
type AESGCMProvisioner struct {
	rand io.Reader
}

// NewAESGCMProvisioner constructs a provisioner backed by crypto/rand.
func NewAESGCMProvisioner() *AESGCMProvisioner {
	return &AESGCMProvisioner{rand: rand.Reader}
}

// Provision derives a salt, generates a fresh P-256 keypair and session
// token, and seals each secret under a key derived from passwordHash.
func (p *AESGCMProvisioner) Provision(passwordHash string) (Material, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(p.rand, salt); err != nil {
		return Material{}, fmt.Errorf("%w: salt generation: %w", ErrProvisioning, err)
	}

	key, err := deriveKey(passwordHash, salt)
	if err != nil {
		return Material{}, err
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), p.rand)
	if err != nil {
		return Material{}, fmt.Errorf("%w: ecdsa keygen: %w", ErrProvisioning, err)
	}

	privPEM, pubPEM, err := encodeKeypair(priv)
	if err != nil {
		return Material{}, err
	}

	token := make([]byte, tokenLen)
	if _, err := io.ReadFull(p.rand, token); err != nil {
		return Material{}, fmt.Errorf("%w: token generation: %w", ErrProvisioning, err)
	}

	var m Material
	m.Salt = hex.EncodeToString(salt)

	if m.PublicKey, err = p.seal(key, pubPEM, labelPublicKey); err != nil {
		return Material{}, err
	}
	if m.PrivateKey, err = p.seal(key, privPEM, labelPrivateKey); err != nil {
		return Material{}, err
	}
	if m.SessionToken, err = p.seal(key, []byte(hex.EncodeToString(token)), labelSessionToken); err != nil {
		return Material{}, err
	}

	return m, nil
}

// Unseal reverses a single sealed field given the voter's password hash and
// the salt stored alongside the material.
func Unseal(passwordHash, saltHex string, field SealedField, label string) ([]byte, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("%w: salt decode: %w", ErrProvisioning, err)
	}

	key, err := deriveKey(passwordHash, salt)
	if err != nil {
		return nil, err
	}

	ct, err := hex.DecodeString(field.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext decode: %w", ErrProvisioning, err)
	}
	iv, err := hex.DecodeString(field.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: iv decode: %w", ErrProvisioning, err)
	}
	tag, err := hex.DecodeString(field.Tag)
	if err != nil {
		return nil, fmt.Errorf("%w: tag decode: %w", ErrProvisioning, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ct)+len(tag))
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plain, err := gcm.Open(nil, iv, sealed, []byte(label))
	if err != nil {
		// Do not distinguish wrong key from tampered payload.
		return nil, ErrProvisioning
	}

	return plain, nil
}

func (p *AESGCMProvisioner) seal(key, plaintext []byte, label string) (SealedField, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return SealedField{}, err
	}

	iv := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(p.rand, iv); err != nil {
		return SealedField{}, fmt.Errorf("%w: iv generation: %w", ErrProvisioning, err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, []byte(label))
	if len(sealed) < gcmTagSize {
		return SealedField{}, fmt.Errorf("%w: sealed output too short", ErrProvisioning)
	}

	split := len(sealed) - gcmTagSize

	return SealedField{
		Ciphertext: hex.EncodeToString(sealed[:split]),
		IV:         hex.EncodeToString(iv),
		Tag:        hex.EncodeToString(sealed[split:]),
	}, nil
}

func deriveKey(passwordHash string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passwordHash), salt, scryptN, scryptR, scryptP, aesKeyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: key derivation: %w", ErrProvisioning, err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: aes init: %w", ErrProvisioning, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: gcm init: %w", ErrProvisioning, err)
	}
	return gcm, nil
}

func encodeKeypair(priv *ecdsa.PrivateKey) (privPEM, pubPEM []byte, err error) {
	privDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: private key encode: %w", ErrProvisioning, err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: public key encode: %w", ErrProvisioning, err)
	}

	privPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER})
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return privPEM, pubPEM, nil
}
