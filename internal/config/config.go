// Package config provides configuration management for erdgen.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with ERD_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./configs/config.yaml, ~/.erdgen/config.yaml, /etc/erdgen/config.yaml)
//  3. .env files
//  4. Environment variables (ERD_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use ERD_ prefix and underscores for nested keys:
//   - ERD_SERVER_PORT=8095
//   - ERD_PARSER_URL=http://localhost:8000
//   - ERD_LAYOUT_PROVIDER=grid
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Layout providers understood by the layout package.
const (
	LayoutProviderELK  = "elk"
	LayoutProviderGrid = "grid"
)

// Config is the root configuration structure for erdgen.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Parser contains the DBML parse service settings
	Parser ParserConfig `mapstructure:"parser" yaml:"parser"`

	// Layout selects and configures the layout engine
	Layout LayoutConfig `mapstructure:"layout" yaml:"layout"`

	// Editor contains live editor session settings
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Security contains security and rate limiting settings
	Security SecurityConfig `mapstructure:"security" yaml:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the server listen port (default: 8080)
	Port int `mapstructure:"port" yaml:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// RequestTimeout bounds parsing, layout and generation for one HTTP
	// request; exceeding it answers 504. Websocket sessions are exempt.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// MaxBodySize is the largest HTTP request body in bytes. The editor
	// websocket uses editor.max_message_size instead.
	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// Debug enables debug logging
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// TLSEnabled enables HTTPS
	TLSEnabled bool `mapstructure:"tls_enabled" yaml:"tls_enabled"`

	// TLSCert is the path to the TLS certificate file
	TLSCert string `mapstructure:"tls_cert" yaml:"tls_cert"`

	// TLSKey is the path to the TLS private key file
	TLSKey string `mapstructure:"tls_key" yaml:"tls_key"`
}

// ParserConfig points at the external DBML parse service.
type ParserConfig struct {
	// URL is the base URL; requests go to {URL}/dbml_to_table_def
	URL string `mapstructure:"url" yaml:"url"`

	// Timeout bounds a single parse request
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Identity headers forwarded as X-user-id, X-activity-id and X-service-id
	UserID     string `mapstructure:"user_id" yaml:"user_id"`
	ActivityID string `mapstructure:"activity_id" yaml:"activity_id"`
	ServiceID  string `mapstructure:"service_id" yaml:"service_id"`
}

// LayoutConfig selects the layout engine.
type LayoutConfig struct {
	// Provider is "elk" (remote ELK-JSON endpoint) or "grid" (built in)
	Provider string `mapstructure:"provider" yaml:"provider"`

	// URL of the ELK layout endpoint
	URL string `mapstructure:"url" yaml:"url"`

	// Timeout bounds a single layout request
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// Preset is the default layout when a request names none
	Preset string `mapstructure:"preset" yaml:"preset"`

	// FallbackToGrid arranges nodes on a grid when the ELK call fails
	FallbackToGrid bool `mapstructure:"fallback_to_grid" yaml:"fallback_to_grid"`
}

// EditorConfig contains live editor session settings.
type EditorConfig struct {
	// Debounce is the quiet period after the last edit before regenerating
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`

	// MaxMessageSize is the largest DBML document accepted over the websocket
	MaxMessageSize int64 `mapstructure:"max_message_size" yaml:"max_message_size"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the access log format (json, text)
	Format string `mapstructure:"format" yaml:"format"`
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit" yaml:"rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// AuthEnabled enables JWT authentication on the API (default: false)
	AuthEnabled bool `mapstructure:"auth_enabled" yaml:"auth_enabled"`

	// JWTSecret is the secret key for signing JWT tokens
	JWTSecret string `mapstructure:"jwt_secret" yaml:"jwt_secret"`

	// JWTExpiration is the JWT token expiration duration (default: 24h)
	JWTExpiration time.Duration `mapstructure:"jwt_expiration" yaml:"jwt_expiration"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (ERD_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.erdgen")
		v.AddConfigPath("/etc/erdgen")
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicit path that does not exist falls back to defaults.
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("ERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loaded := &Config{}
	if err := v.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(loaded); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.request_timeout", "25s")
	v.SetDefault("server.max_body_size", 1<<20)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.tls_enabled", false)

	v.SetDefault("parser.url", "http://localhost:8000")
	v.SetDefault("parser.timeout", "15s")
	v.SetDefault("parser.user_id", "erdgen")
	v.SetDefault("parser.activity_id", "dbml-editor")
	v.SetDefault("parser.service_id", "erdgen")

	v.SetDefault("layout.provider", LayoutProviderELK)
	v.SetDefault("layout.url", "http://localhost:8090/layout")
	v.SetDefault("layout.timeout", "10s")
	v.SetDefault("layout.preset", "layered-right")
	v.SetDefault("layout.fallback_to_grid", true)

	v.SetDefault("editor.debounce", "400ms")
	v.SetDefault("editor.max_message_size", 1<<20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})
	v.SetDefault("security.auth_enabled", false)
	v.SetDefault("security.jwt_secret", "change-me-in-production")
	v.SetDefault("security.jwt_expiration", "24h")
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Parser.URL == "" {
		return fmt.Errorf("parser url is required")
	}

	switch cfg.Layout.Provider {
	case LayoutProviderELK:
		if cfg.Layout.URL == "" {
			return fmt.Errorf("layout url is required for provider %q", LayoutProviderELK)
		}
	case LayoutProviderGrid:
	default:
		return fmt.Errorf("unknown layout provider: %q", cfg.Layout.Provider)
	}

	if cfg.Security.AuthEnabled && cfg.Security.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required when auth is enabled")
	}

	return nil
}

// Get returns the configuration from the last successful Load.
func Get() *Config {
	return cfg
}

// Address returns host:port for the HTTP listener.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
