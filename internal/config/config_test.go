//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.HTTP.Port != DefaultPort {
			t.Errorf("expected default port %d, got %d", DefaultPort, cfg.HTTP.Port)
		}
		if cfg.Pinata.FetchTimeout != 10*time.Second {
			t.Errorf("expected 10s fetch timeout, got %v", cfg.Pinata.FetchTimeout)
		}
		if cfg.Pinata.UploadTimeout != 0 {
			t.Errorf("expected unbounded upload, got %v", cfg.Pinata.UploadTimeout)
		}
		if cfg.HTTP.BodyLimitBytes != DefaultBodyLimit {
			t.Errorf("unexpected body limit %d", cfg.HTTP.BodyLimitBytes)
		}
		if !cfg.Metrics.IsEnabled() {
			t.Error("metrics should be enabled by default")
		}
	})

	t.Run("yaml values are read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := []byte(`
http:
  port: 8080
log:
  level: debug
  format: console
pinata:
  jwt: from-file
  fetch_timeout: 3s
redis:
  url: localhost:6379
  ttl: 5m
metrics:
  enabled: false
`)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadConfig(path, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.HTTP.Port != 8080 || cfg.Log.Level != "debug" || cfg.Pinata.JWT != "from-file" {
			t.Errorf("unexpected config %+v", cfg)
		}
		if cfg.Pinata.FetchTimeout != 3*time.Second || cfg.Redis.TTL != 5*time.Minute {
			t.Errorf("durations not parsed: %v %v", cfg.Pinata.FetchTimeout, cfg.Redis.TTL)
		}
		if cfg.Metrics.IsEnabled() {
			t.Error("metrics should be disabled")
		}
		if !cfg.Runtime.Dev {
			t.Error("expected dev runtime flag")
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		_ = os.WriteFile(path, []byte("http: [unclosed"), 0o600)
		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "9090",
		"PINATA_JWT":         " env-jwt ",
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"REDIS_URL":          "redis://cache:6379/1",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Config{Pinata: PinataConfig{JWT: "from-file"}}
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Pinata.JWT != "env-jwt" || cfg.Bot.Token != "123:abc" || cfg.Redis.URL != "redis://cache:6379/1" {
		t.Errorf("env not applied: %+v", cfg)
	}

	env["PORT"] = "ten"
	if err := applyEnv(&cfg, lookup); err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}
