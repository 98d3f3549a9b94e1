package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultHost is the default listen host for the HTTP server.
	DefaultHost = "localhost"
	// DefaultPort is the default listen port for the HTTP server.
	DefaultPort = 8586
	// DefaultBackendTimeout is the default timeout for outbound backend calls.
	DefaultBackendTimeout = 30 * time.Second
	// DefaultTokenTTL is the validity window applied to bearer credentials
	// synthesized by the request gate.
	DefaultTokenTTL = time.Hour
)

// Duration wraps time.Duration so that YAML values like "30s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration for siren.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Server  ServerConfig  `yaml:"server"`
	OAuth   OAuthConfig   `yaml:"oauth"`
}

// BackendConfig configures the upstream alerting backend.
type BackendConfig struct {
	// BaseURL is the base URL of the alerting backend API. Required.
	BaseURL string `yaml:"baseURL"`

	// Timeout applies to each outbound backend call.
	Timeout Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// OAuthConfig configures the authorization gateway.
type OAuthConfig struct {
	// PublicBaseURL is the externally reachable base URL of this server.
	// It is used as the OAuth issuer and in authorization URL hints.
	PublicBaseURL string `yaml:"publicBaseURL"`

	// FrontendBaseURL is the external login surface users are redirected
	// to from the authorization endpoint.
	FrontendBaseURL string `yaml:"frontendBaseURL"`

	// TokenEndpoint overrides the token endpoint advertised in the
	// discovery metadata. Empty means PublicBaseURL + "/token".
	TokenEndpoint string `yaml:"tokenEndpoint"`

	// TokenTTL is the validity window for credentials accepted by the
	// request gate.
	TokenTTL Duration `yaml:"tokenTTL"`
}

// Default returns the configuration defaults applied before any file or
// environment values.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			Timeout: Duration(DefaultBackendTimeout),
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		OAuth: OAuthConfig{
			TokenTTL: Duration(DefaultTokenTTL),
		},
	}
}

// Load builds the configuration by layering, in order of increasing
// precedence: defaults, the optional YAML file at path, and environment
// variables. A missing file is not an error; an unreadable or malformed
// file is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	// Derive URLs that default from the listen address.
	if cfg.OAuth.PublicBaseURL == "" {
		cfg.OAuth.PublicBaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.OAuth.FrontendBaseURL == "" {
		cfg.OAuth.FrontendBaseURL = cfg.OAuth.PublicBaseURL
	}

	return cfg, nil
}

// applyEnv overrides configuration values from environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SIREN_BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("SIREN_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SIREN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SIREN_PUBLIC_URL"); v != "" {
		cfg.OAuth.PublicBaseURL = v
	}
	if v := os.Getenv("SIREN_FRONTEND_URL"); v != "" {
		cfg.OAuth.FrontendBaseURL = v
	}
	if v := os.Getenv("SIREN_TOKEN_ENDPOINT"); v != "" {
		cfg.OAuth.TokenEndpoint = v
	}
}

// Validate checks that required configuration is present.
func (c Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (set SIREN_BACKEND_URL or backend.baseURL)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid listen port %d", c.Server.Port)
	}
	return nil
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TokenEndpointURL returns the advertised token endpoint, honoring the
// override when set.
func (c OAuthConfig) TokenEndpointURL() string {
	if c.TokenEndpoint != "" {
		return c.TokenEndpoint
	}
	return c.PublicBaseURL + "/token"
}
