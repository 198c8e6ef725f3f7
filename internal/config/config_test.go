package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestMergeEnv(t *testing.T) {
	cfg := Default()
	err := cfg.mergeEnv(envFrom(map[string]string{
		"PORT":            "9090",
		"DATABASE_URL":    "postgres://dash:pw@localhost:5432/sentiment",
		"REDIS_CACHE_TTL": "60",
		"RATE_LIMIT":      "0",
		"DEBUG":           "TRUE",
	}))
	if err != nil {
		t.Fatalf("mergeEnv: %v", err)
	}

	if cfg.Port != ":9090" {
		t.Errorf("Port = %q, want :9090", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.CacheTTL)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("RateLimit = %d, want 0", cfg.RateLimit)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestMergeEnvRejectsBadNumbers(t *testing.T) {
	cfg := Default()
	if err := cfg.mergeEnv(envFrom(map[string]string{"REDIS_CACHE_TTL": "soon"})); err == nil {
		t.Error("expected error for non-numeric REDIS_CACHE_TTL")
	}
}

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "port: \":7000\"\ndata_source: mock\ncache_ttl: 5m\nml_timeout: 2s\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		t.Fatalf("mergeFile: %v", err)
	}
	if cfg.Port != ":7000" || cfg.DataSource != "mock" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.MLTimeout != 2*time.Second {
		t.Errorf("durations = %v, %v", cfg.CacheTTL, cfg.MLTimeout)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("unset keys should keep defaults, DBDriver = %q", cfg.DBDriver)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"source", func(c *Config) { c.DataSource = "csv" }},
		{"secret", func(c *Config) { c.JWTSecret = "" }},
		{"ttl", func(c *Config) { c.CacheTTL = -time.Second }},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Debug = true
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}

	cfg := Default()
	cfg.Debug = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("debug default config invalid: %v", err)
	}
}

func TestValidateDefaultSecret(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("release config accepted the development jwt secret")
	}

	cfg.JWTSecret = "s3cr3t-from-env"
	if err := cfg.Validate(); err != nil {
		t.Errorf("custom secret rejected: %v", err)
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "palette.yaml")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := WatchFile(ctx, path, logger, func() { changed <- struct{}{} }); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification for the watched file")
	}
}
