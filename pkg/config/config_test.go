package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertDefaultConfig(t, cfg)
}

func TestLoadWithPartialConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
database:
  driver: ""
  sqlite: {}
storage:
  backend: s3
  s3:
    endpoint: https://accountid.r2.cloudflarestorage.com
    access_key: key
    secret_key: secret
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected server address :9090, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected database driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Storage.Backend != "s3" {
		t.Fatalf("expected storage backend s3, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.S3.Region != "auto" {
		t.Fatalf("expected default region auto, got %s", cfg.Storage.S3.Region)
	}
	if cfg.Credits.ImageCost != 1 || cfg.Credits.VideoCost != 5 {
		t.Fatalf("expected default credit costs 1/5, got %d/%d", cfg.Credits.ImageCost, cfg.Credits.VideoCost)
	}
}

func TestDurationParsing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  presign_expiry: 2h
  url_cache_ttl: 90
worker:
  timeout: 45s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Storage.PresignExpiry.Std() != 2*time.Hour {
		t.Fatalf("expected presign expiry 2h, got %v", cfg.Storage.PresignExpiry.Std())
	}
	if cfg.Storage.URLCacheTTL.Std() != 90*time.Second {
		t.Fatalf("expected bare integers to parse as seconds, got %v", cfg.Storage.URLCacheTTL.Std())
	}
	if cfg.Worker.Timeout.Std() != 45*time.Second {
		t.Fatalf("expected worker timeout 45s, got %v", cfg.Worker.Timeout.Std())
	}
}

func TestURLCacheTTLStaysBelowPresignExpiry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  presign_expiry: 10m
  url_cache_ttl: 1h
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.URLCacheTTL >= cfg.Storage.PresignExpiry {
		t.Fatalf("expected cache TTL below presign expiry, got ttl=%v expiry=%v",
			cfg.Storage.URLCacheTTL.Std(), cfg.Storage.PresignExpiry.Std())
	}
}

func assertDefaultConfig(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/media_vault.db" {
		t.Fatalf("expected default sqlite path data/media_vault.db, got %s", cfg.Database.SQLite.Path)
	}
	if cfg.Storage.URLCacheTTL >= cfg.Storage.PresignExpiry {
		t.Fatalf("expected default cache TTL below presign expiry")
	}
}
