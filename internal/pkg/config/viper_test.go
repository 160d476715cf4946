package config

import (
	"testing"
	"time"
)

const testYAML = `
app:
  name: "votegate"
  enabled: true
  workers: 8
  node: 3
  ratio: 0.25
  timeout_seconds: 30
  ttl_minutes: 5
  hosts: "a.local,b.local"
`

func TestViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetString("app.name"); got != "votegate" {
		t.Fatalf("GetString: got %q", got)
	}
	if !cfg.GetBool("app.enabled") {
		t.Fatal("GetBool: expected true")
	}
	if got := cfg.GetInt("app.workers"); got != 8 {
		t.Fatalf("GetInt: got %d", got)
	}
	if got := cfg.GetInt32("app.workers"); got != 8 {
		t.Fatalf("GetInt32: got %d", got)
	}
	if got := cfg.GetInt64("app.node"); got != 3 {
		t.Fatalf("GetInt64: got %d", got)
	}
	if got := cfg.GetFloat64("app.ratio"); got != 0.25 {
		t.Fatalf("GetFloat64: got %f", got)
	}
	if got := cfg.GetSecond("app.timeout_seconds"); got != 30*time.Second {
		t.Fatalf("GetSecond: got %v", got)
	}
	if got := cfg.GetMinute("app.ttl_minutes"); got != 5*time.Minute {
		t.Fatalf("GetMinute: got %v", got)
	}
	if got := cfg.GetArray("app.hosts"); len(got) != 2 || got[0] != "a.local" || got[1] != "b.local" {
		t.Fatalf("GetArray: got %v", got)
	}
}

func TestViperFromBytesMissingKeys(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	defer cfg.Close()

	if got := cfg.GetString("missing.key"); got != "" {
		t.Fatalf("expected zero value for missing key, got %q", got)
	}
	if cfg.GetBool("missing.key") {
		t.Fatal("expected false for missing key")
	}
	if got := cfg.GetSecond("missing.key"); got != 0 {
		t.Fatalf("expected zero duration, got %v", got)
	}
}

func TestViperFromBytesRequiresType(t *testing.T) {
	if _, err := NewViperFromBytes(" ", []byte(testYAML)); err == nil {
		t.Fatal("expected error for blank config type")
	}
}
