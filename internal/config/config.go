package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend kinds understood by the gateway factory.
const (
	BackendManifest = "manifest"
	BackendSurreal  = "surreal"
)

// Provider is the read-only view of the configuration consumed by the rest of
// the application. Tests substitute their own implementation.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetBackendKind() string
	GetBackendURL() string
	GetBackendTimeout() time.Duration
	GetAdminURL() string
	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetMediaDir() string
	GetDemoEmail() string
	GetDemoPassword() string
	GetUploadMaxBytes() int64
	GetTokenFile() string
	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr       string `env:"APP_ADDR" envDefault:":8080"`
	AppBaseURL    string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	SessionSecret string `env:"SESSION_SECRET"`

	BackendKind    string        `env:"BACKEND_KIND" envDefault:"manifest"`
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:1111"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	DBUrl string `env:"SURREAL_URL"`
	DBNs  string `env:"SURREAL_NS"`
	DBDb  string `env:"SURREAL_DB"`

	MediaDir       string `env:"MEDIA_DIR" envDefault:"./media"`
	DemoEmail      string `env:"DEMO_EMAIL" envDefault:"user@manifest.build"`
	DemoPassword   string `env:"DEMO_PASSWORD" envDefault:"password"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	TokenFile      string `env:"TOKEN_FILE"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// New loads configuration from a .env file (when present) and environment
// variables.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// slog is not configured yet at this point.
		log.Println("No .env file found, relying on environment variables")
	}
	return Parse()
}

// Parse reads the configuration from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.sanitize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) sanitize() {
	c.BackendKind = strings.ToLower(strings.TrimSpace(c.BackendKind))
	if c.BackendKind == "" {
		c.BackendKind = BackendManifest
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	if c.BackendTimeout <= 0 {
		c.BackendTimeout = 10 * time.Second
	}
	if c.UploadMaxBytes <= 0 {
		c.UploadMaxBytes = 5 << 20
	}
	if c.TokenFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.TokenFile = filepath.Join(home, ".flavorfusion", "token")
		} else {
			c.TokenFile = ".flavorfusion-token"
		}
	}
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	switch c.BackendKind {
	case BackendManifest:
		if c.BackendURL == "" {
			return errors.New("BACKEND_URL is required for the manifest backend")
		}
	case BackendSurreal:
		if c.DBUrl == "" || c.DBNs == "" || c.DBDb == "" {
			return errors.New("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
		}
	default:
		return fmt.Errorf("unknown BACKEND_KIND %q", c.BackendKind)
	}
	return nil
}

// RequireSessionSecret is checked by the web server only; the CLI runs without it.
func (c *Config) RequireSessionSecret() error {
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be set to at least 16 characters")
	}
	return nil
}

func (c *Config) GetAppAddr() string               { return c.AppAddr }
func (c *Config) GetAppBaseURL() string            { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string         { return c.SessionSecret }
func (c *Config) GetBackendKind() string           { return c.BackendKind }
func (c *Config) GetBackendURL() string            { return c.BackendURL }
func (c *Config) GetBackendTimeout() time.Duration { return c.BackendTimeout }
func (c *Config) GetDBURL() string                 { return c.DBUrl }
func (c *Config) GetDBNs() string                  { return c.DBNs }
func (c *Config) GetDBDb() string                  { return c.DBDb }
func (c *Config) GetMediaDir() string              { return c.MediaDir }
func (c *Config) GetDemoEmail() string             { return c.DemoEmail }
func (c *Config) GetDemoPassword() string          { return c.DemoPassword }
func (c *Config) GetUploadMaxBytes() int64         { return c.UploadMaxBytes }
func (c *Config) GetTokenFile() string             { return c.TokenFile }
func (c *Config) GetLogFormat() string             { return c.LogFormat }
func (c *Config) GetLogLevel() string              { return c.LogLevel }

// GetAdminURL is the outbound link to the backend's admin console.
func (c *Config) GetAdminURL() string {
	if c.BackendKind == BackendSurreal {
		return ""
	}
	return c.BackendURL + "/admin"
}
