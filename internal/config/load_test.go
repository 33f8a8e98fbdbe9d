package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig_IsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Matching.DefaultPageSize != 3 {
		t.Errorf("Expected default page size 3, got %d", cfg.Matching.DefaultPageSize)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Expected memory store, got %s", cfg.Store.Driver)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Expected 10s read timeout, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: ":9090"
  read_timeout: 3s
store:
  driver: badger
  badger_path: /tmp/rides
matching:
  default_page_size: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RIDESHARE_MATCHING__DEFAULT_PAGE_SIZE", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != ":9090" {
		t.Errorf("Expected port from file, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Expected 3s from file, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("Expected default write timeout to survive, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Store.Driver != "badger" || cfg.Store.BadgerPath != "/tmp/rides" {
		t.Errorf("Unexpected store config: %+v", cfg.Store)
	}
	if cfg.Matching.DefaultPageSize != 7 {
		t.Errorf("Expected env to win with 7, got %d", cfg.Matching.DefaultPageSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := map[string]func(*Config){
		"unknown store":        func(c *Config) { c.Store.Driver = "mongo" },
		"postgres without dsn": func(c *Config) { c.Store.Driver = "postgres" },
		"amqp without url":     func(c *Config) { c.Events.Driver = "amqp" },
		"short secret":         func(c *Config) { c.Auth.JWTSecret = "short" },
		"zero page size":       func(c *Config) { c.Matching.DefaultPageSize = 0 },
		"max below default":    func(c *Config) { c.Matching.MaxPageSize = 1 },
		"routing without url":  func(c *Config) { c.Routing.Enabled = true },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), "invalid configuration") {
				t.Errorf("Unexpected error text: %v", err)
			}
		})
	}
}
