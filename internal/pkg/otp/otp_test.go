package otp

import (
	"strconv"
	"testing"
)

func TestGenerate(t *testing.T) {
	for range 500 {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		if len(code) != Digits {
			t.Fatalf("Generate() = %q, want %d digits", code, Digits)
		}

		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("Generate() = %q, not numeric: %v", code, err)
		}

		if n < 100000 || n > 999999 {
			t.Fatalf("Generate() = %q, out of range", code)
		}
	}
}
