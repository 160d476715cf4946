package keymat

import (
	"encoding/pem"
	"strings"
	"testing"
)

func TestProvision(t *testing.T) {
	p := NewAESGCMProvisioner()

	m, err := p.Provision("$2a$10$somebcrypthashvalue")
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	fields := map[string]SealedField{
		"public key":    m.PublicKey,
		"private key":   m.PrivateKey,
		"session token": m.SessionToken,
	}
	for name, f := range fields {
		if f.Ciphertext == "" || f.IV == "" || f.Tag == "" {
			t.Errorf("%s payload has empty parts: %+v", name, f)
		}
	}

	if len(m.Salt) != saltLen*2 {
		t.Errorf("salt length = %d, want %d hex chars", len(m.Salt), saltLen*2)
	}

	if m.PublicKey.IV == m.PrivateKey.IV || m.PrivateKey.IV == m.SessionToken.IV {
		t.Error("sealed fields share an IV")
	}
}

func TestUnsealRoundTrip(t *testing.T) {
	p := NewAESGCMProvisioner()
	const passwordHash = "$2a$10$anotherbcrypthash"

	m, err := p.Provision(passwordHash)
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	priv, err := Unseal(passwordHash, m.Salt, m.PrivateKey, labelPrivateKey)
	if err != nil {
		t.Fatalf("Unseal(private key) error = %v", err)
	}
	block, _ := pem.Decode(priv)
	if block == nil || block.Type != "EC PRIVATE KEY" {
		t.Fatalf("unsealed private key is not a PEM EC PRIVATE KEY block")
	}

	pub, err := Unseal(passwordHash, m.Salt, m.PublicKey, labelPublicKey)
	if err != nil {
		t.Fatalf("Unseal(public key) error = %v", err)
	}
	if !strings.Contains(string(pub), "BEGIN PUBLIC KEY") {
		t.Fatalf("unsealed public key is not PEM encoded")
	}

	token, err := Unseal(passwordHash, m.Salt, m.SessionToken, labelSessionToken)
	if err != nil {
		t.Fatalf("Unseal(session token) error = %v", err)
	}
	if len(token) != tokenLen*2 {
		t.Fatalf("session token length = %d, want %d hex chars", len(token), tokenLen*2)
	}
}

func TestUnsealWrongPassword(t *testing.T) {
	p := NewAESGCMProvisioner()

	m, err := p.Provision("correct-hash")
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if _, err := Unseal("wrong-hash", m.Salt, m.PrivateKey, labelPrivateKey); err == nil {
		t.Fatal("Unseal() with wrong password hash succeeded, want error")
	}
}

func TestUnsealWrongLabel(t *testing.T) {
	p := NewAESGCMProvisioner()
	const passwordHash = "hash"

	m, err := p.Provision(passwordHash)
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}

	if _, err := Unseal(passwordHash, m.Salt, m.PublicKey, labelPrivateKey); err == nil {
		t.Fatal("Unseal() with swapped label succeeded, want error")
	}
}
