package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.ServiceURL != "http://localhost:8000" {
		t.Errorf("ServiceURL = %s", cfg.ServiceURL)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
	if cfg.Layout.Iterations != 100 {
		t.Errorf("Iterations = %d", cfg.Layout.Iterations)
	}
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServiceURL != Default().ServiceURL {
		t.Errorf("ServiceURL = %s", cfg.ServiceURL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service_url: http://graphrag.internal:9000
poll_interval: 5s
log_level: debug
layout:
  width: 2000
  height: 1000
  iterations: 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServiceURL != "http://graphrag.internal:9000" {
		t.Errorf("ServiceURL = %s", cfg.ServiceURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
	if cfg.Layout.Width != 2000 || cfg.Layout.Iterations != 250 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	// Unset fields keep their defaults.
	if cfg.CacheDir == "" {
		t.Error("CacheDir should fall back to the default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRAPHLENS_SERVICE_URL", "http://override:8001")
	t.Setenv("GRAPHLENS_LOG_LEVEL", "warn")
	t.Setenv("GRAPHLENS_POLL_INTERVAL", "10s")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServiceURL != "http://override:8001" {
		t.Errorf("ServiceURL = %s", cfg.ServiceURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %s", cfg.LogLevel)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("PollInterval = %s", cfg.PollInterval)
	}
}

func TestValidationRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cases := map[string]string{
		"bad url":       "service_url: not-a-url\n",
		"bad log level": "log_level: loud\n",
		"zero width":    "layout:\n  width: 0\n",
	}
	for name, content := range cases {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
