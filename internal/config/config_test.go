package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestLoadDefaults tests that default configuration values are loaded correctly.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	// Server
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default server host '0.0.0.0', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Expected default read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.RequestTimeout != 25*time.Second {
		t.Errorf("Expected default request timeout 25s, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.MaxBodySize != 1<<20 {
		t.Errorf("Expected default max body size 1048576, got %d", cfg.Server.MaxBodySize)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.Debug {
		t.Errorf("Expected default debug false, got %v", cfg.Server.Debug)
	}

	// Parser
	if cfg.Parser.URL != "http://localhost:8000" {
		t.Errorf("Expected default parser url 'http://localhost:8000', got '%s'", cfg.Parser.URL)
	}
	if cfg.Parser.Timeout != 15*time.Second {
		t.Errorf("Expected default parser timeout 15s, got %v", cfg.Parser.Timeout)
	}
	if cfg.Parser.ServiceID != "erdgen" {
		t.Errorf("Expected default service id 'erdgen', got '%s'", cfg.Parser.ServiceID)
	}

	// Layout
	if cfg.Layout.Provider != LayoutProviderELK {
		t.Errorf("Expected default layout provider 'elk', got '%s'", cfg.Layout.Provider)
	}
	if cfg.Layout.Preset != "layered-right" {
		t.Errorf("Expected default preset 'layered-right', got '%s'", cfg.Layout.Preset)
	}
	if !cfg.Layout.FallbackToGrid {
		t.Errorf("Expected default fallback_to_grid true")
	}

	// Editor
	if cfg.Editor.Debounce != 400*time.Millisecond {
		t.Errorf("Expected default debounce 400ms, got %v", cfg.Editor.Debounce)
	}
	if cfg.Editor.MaxMessageSize != 1<<20 {
		t.Errorf("Expected default max message size 1MiB, got %d", cfg.Editor.MaxMessageSize)
	}

	// Security
	if cfg.Security.RateLimit != 100 {
		t.Errorf("Expected default rate limit 100, got %d", cfg.Security.RateLimit)
	}
	if len(cfg.Security.AllowedOrigins) != 1 || cfg.Security.AllowedOrigins[0] != "*" {
		t.Errorf("Expected default allowed origins ['*'], got %v", cfg.Security.AllowedOrigins)
	}
	if cfg.Security.JWTExpiration != 24*time.Hour {
		t.Errorf("Expected default jwt expiration 24h, got %v", cfg.Security.JWTExpiration)
	}
}

// TestValidation tests the configuration validation logic.
func TestValidation(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Parser: ParserConfig{URL: "http://localhost:8000"},
			Layout: LayoutConfig{Provider: LayoutProviderGrid},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
		errMsg    string
	}{
		{
			name:   "valid configuration",
			mutate: func(*Config) {},
		},
		{
			name:      "invalid port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			expectErr: true,
			errMsg:    "invalid server port",
		},
		{
			name:      "invalid port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			expectErr: true,
			errMsg:    "invalid server port",
		},
		{
			name:      "missing parser url",
			mutate:    func(c *Config) { c.Parser.URL = "" },
			expectErr: true,
			errMsg:    "parser url is required",
		},
		{
			name:      "elk without url",
			mutate:    func(c *Config) { c.Layout.Provider = LayoutProviderELK },
			expectErr: true,
			errMsg:    "layout url is required",
		},
		{
			name: "elk with url",
			mutate: func(c *Config) {
				c.Layout.Provider = LayoutProviderELK
				c.Layout.URL = "http://elk:8090/layout"
			},
		},
		{
			name:      "unknown provider",
			mutate:    func(c *Config) { c.Layout.Provider = "graphviz" },
			expectErr: true,
			errMsg:    "unknown layout provider",
		},
		{
			name: "auth without secret",
			mutate: func(c *Config) {
				c.Security.AuthEnabled = true
				c.Security.JWTSecret = ""
			},
			expectErr: true,
			errMsg:    "jwt secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Expected error containing '%s', got nil", tt.errMsg)
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

// TestLoadFile tests that values from a YAML file override defaults.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9191
parser:
  url: http://parser.internal:8000
layout:
  provider: grid
  preset: tree
editor:
  debounce: 1s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("Expected port 9191, got %d", cfg.Server.Port)
	}
	if cfg.Parser.URL != "http://parser.internal:8000" {
		t.Errorf("Expected parser url from file, got '%s'", cfg.Parser.URL)
	}
	if cfg.Layout.Provider != LayoutProviderGrid || cfg.Layout.Preset != "tree" {
		t.Errorf("Expected grid/tree layout, got %s/%s", cfg.Layout.Provider, cfg.Layout.Preset)
	}
	if cfg.Editor.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Editor.Debounce)
	}
	// untouched keys keep their defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected default host, got '%s'", cfg.Server.Host)
	}
}

// TestEnvironmentVariableOverride tests that environment variables override config values.
func TestEnvironmentVariableOverride(t *testing.T) {
	t.Setenv("ERD_SERVER_PORT", "9999")
	t.Setenv("ERD_SERVER_HOST", "127.0.0.1")
	t.Setenv("ERD_SERVER_DEBUG", "true")
	t.Setenv("ERD_LAYOUT_PROVIDER", "grid")

	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999 from environment, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host '127.0.0.1' from environment, got '%s'", cfg.Server.Host)
	}
	if !cfg.Server.Debug {
		t.Errorf("Expected debug true from environment, got %v", cfg.Server.Debug)
	}
	if cfg.Layout.Provider != LayoutProviderGrid {
		t.Errorf("Expected layout provider 'grid' from environment, got '%s'", cfg.Layout.Provider)
	}
}

// TestGet tests the global config getter.
func TestGet(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	retrieved := Get()
	if retrieved == nil {
		t.Fatal("Get() returned nil")
	}
	if retrieved.Server.Port != 8080 {
		t.Errorf("Expected port 8080 from Get(), got %d", retrieved.Server.Port)
	}
	if got := retrieved.Server.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Expected address '0.0.0.0:8080', got '%s'", got)
	}
}
