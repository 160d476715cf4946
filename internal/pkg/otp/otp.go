// Package otp generates short-lived numeric one-time passwords.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Digits is the length of every generated code.
const Digits = 6

// Generate returns a uniformly random 6-digit code. The first digit is
// never zero, so the code survives round trips through integer parsing.
func Generate() (string, error) {
	// [100000, 999999]
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
