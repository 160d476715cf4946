package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

type stubUUID struct{}

func (stubUUID) Generate() string { return "test-token-id" }

func newTestJWT(t *testing.T, clk *stubClock) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "votegate",
		Audiences: []string{"votegate-api"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      stubUUID{},
	})
	if err != nil {
		t.Fatalf("failed to build jwt: %v", err)
	}
	return j
}

func TestNewHS512RejectsShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("too-short")})
	if !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	clk := &stubClock{now: time.Now()}
	j := newTestJWT(t, clk)

	token, err := j.Generate(42, "admin@votegate.io", RoleAdmin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.UserEmail != "admin@votegate.io" {
		t.Fatalf("unexpected email %q", claims.UserEmail)
	}
	if !claims.IsAdmin() {
		t.Fatal("expected admin role claims")
	}
}

func TestVerifyNonAdminRole(t *testing.T) {
	clk := &stubClock{now: time.Now()}
	j := newTestJWT(t, clk)

	token, err := j.Generate(7, "voter@votegate.io", "voter")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.IsAdmin() {
		t.Fatal("voter role must not pass the admin check")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	clk := &stubClock{now: time.Now().Add(-2 * time.Hour)}
	j := newTestJWT(t, clk)

	token, err := j.Generate(42, "admin@votegate.io", RoleAdmin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := j.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	clk := &stubClock{now: time.Now()}
	j := newTestJWT(t, clk)

	token, err := j.Generate(42, "admin@votegate.io", RoleAdmin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("x", 64)),
		Issuer:    "votegate",
		Audiences: []string{"votegate-api"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      stubUUID{},
	})
	if err != nil {
		t.Fatalf("failed to build jwt: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected verification with a different secret to fail")
	}
}

func TestAuthContextRoundTrip(t *testing.T) {
	clk := &stubClock{now: time.Now()}
	j := newTestJWT(t, clk)

	token, err := j.Generate(42, "admin@votegate.io", RoleAdmin)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	ctx := SetAuth(t.Context(), claims)
	got := GetAuth(ctx)
	if got == nil || got.UserID != 42 {
		t.Fatalf("expected stored claims back, got %+v", got)
	}

	if GetAuth(t.Context()) != nil {
		t.Fatal("expected nil claims from an empty context")
	}
}
