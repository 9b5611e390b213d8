package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http port = %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Policy.Variant != "legacy" {
		t.Errorf("policy variant = %q, want legacy by default", cfg.Policy.Variant)
	}
	if cfg.Security.SessionTokenBytes != 64 {
		t.Errorf("session token bytes = %d", cfg.Security.SessionTokenBytes)
	}
	if cfg.Jobs.PruneSeenAfter != 90*24*time.Hour {
		t.Errorf("prune window = %s", cfg.Jobs.PruneSeenAfter)
	}
}
