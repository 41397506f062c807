package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults: %v", err)
	}

	if cfg.AppPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.AppPort)
	}
	if cfg.DatabaseName != "assetscan" {
		t.Fatalf("expected default database assetscan, got %q", cfg.DatabaseName)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Fatalf("expected idle ttl 30m, got %v", cfg.SessionIdleTTL)
	}
	if cfg.SubmitTimeout != 15*time.Second {
		t.Fatalf("expected submit timeout 15s, got %v", cfg.SubmitTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors origin, got %v", cfg.CORSOrigins)
	}
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("SUBMIT_TIMEOUT", "3s")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.SubmitTimeout != 3*time.Second {
		t.Fatalf("expected env override 3s, got %v", cfg.SubmitTimeout)
	}
}
