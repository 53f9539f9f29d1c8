package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "BOARD_PORT", "BOARD_MODE", "BOARD_STORE_DRIVER", "BOARD_CORS_ALLOWED_ORIGINS", envConfigDefaultPath} {
		if val, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, val) })
			os.Unsetenv(key)
		}
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	logger := zerolog.New(nil)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, resolved, err := Load(&logger, LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Port != 5000 || cfg.Host != "0.0.0.0" || cfg.Store.Driver != "memory" || cfg.Mode != "auto" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("config file should not be written, stat err: %v", err)
	}
}

func TestLoadWritesDefaultConfig(t *testing.T) {
	clearEnv(t)
	logger := zerolog.New(nil)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if _, _, err := Load(&logger, LoadOptions{Path: path, WriteDefault: true}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config written: %v", err)
	}

	cfg, _, err := Load(&logger, LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Port != 5000 || cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("unexpected reloaded config: %+v", cfg)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	logger := zerolog.New(nil)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 7000\nmode: listen\nstore:\n  driver: sqlite\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(&logger, LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 7000 || cfg.Mode != "listen" || cfg.Store.Driver != "sqlite" {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	t.Setenv("PORT", "8081")
	t.Setenv("BOARD_STORE_DRIVER", "memory")
	cfg, _, err = Load(&logger, LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8081 || cfg.Store.Driver != "memory" {
		t.Fatalf("env values not applied: %+v", cfg)
	}

	t.Setenv("BOARD_PORT", "9090")
	cfg, _, err = Load(&logger, LoadOptions{Path: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("BOARD_PORT should win over PORT, got %d", cfg.Port)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := Load(nil, LoadOptions{Path: path}); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestUpdateFromAndValidate(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Port: 6000, Mode: "listen", Store: StoreConfig{Driver: "sqlite"}})

	if cfg.Port != 6000 || cfg.Mode != "listen" || cfg.Store.Driver != "sqlite" || cfg.Host != "0.0.0.0" {
		t.Fatalf("unexpected merge result: %+v", cfg)
	}
	if cfg.Addr() != "0.0.0.0:6000" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	for _, mode := range []string{"LISTEN", " Lambda ", "Auto", ""} {
		c := Default()
		c.Mode = mode
		if err := c.Validate(); err != nil {
			t.Errorf("mode %q: %v", mode, err)
		}
	}

	bad := []Config{
		func() Config { c := Default(); c.Port = 70000; return c }(),
		func() Config { c := Default(); c.Store.Driver = "postgres"; return c }(),
		func() Config { c := Default(); c.Mode = "k8s"; return c }(),
		func() Config { c := Default(); c.MaxBodyBytes = 0; return c }(),
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}
