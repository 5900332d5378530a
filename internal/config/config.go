package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config contains client configuration parameters.
type Config struct {
	Env      string   `env:"ENV" envDefault:"development"`
	LogLevel string   `env:"LOG_LEVEL" envDefault:"warn"`
	API      API      `envPrefix:"API_"`
	Session  Session  `envPrefix:"SESSION_"`
	Database Database `envPrefix:"DB_"`
}

// API contains parameters of the HTTP client.
type API struct {
	URL                  string        `env:"URL" envDefault:"https://localhost:8443/api"`
	LoginRoute           string        `env:"LOGIN_ROUTE" envDefault:"/login"`
	UnauthenticatedPaths []string      `env:"UNAUTHENTICATED_PATHS" envDefault:"/auth/login,/auth/register,/auth/refresh,/auth/steam"`
	Timeout              time.Duration `env:"TIMEOUT" envDefault:"30s"`
	RefreshTimeout       time.Duration `env:"REFRESH_TIMEOUT" envDefault:"15s"`
	// InsecureTLS отключает проверку сертификата, только для локального API
	InsecureTLS bool `env:"INSECURE_TLS" envDefault:"false"`
}

// Session contains token store parameters.
type Session struct {
	Passphrase string        `env:"PASSPHRASE"`
	TTL        time.Duration `env:"TTL" envDefault:"720h"`
}

// Database contains local storage parameters.
type Database struct {
	Path string `env:"PATH" envDefault:"ludonova.db"`
}

// NewConfig loads configuration from LUDONOVA_* environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "LUDONOVA_"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values env tags cannot express
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("invalid environment %q: want %s or %s", c.Env, EnvDevelopment, EnvProduction)
	}
	if c.API.URL == "" {
		return fmt.Errorf("api url cannot be empty")
	}
	if c.API.InsecureTLS && c.IsProduction() {
		return fmt.Errorf("insecure tls is not allowed in %s", EnvProduction)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	return nil
}

// IsProduction reports the production deployment
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SecureCookies mirrors the secure flag of stored entries: on in production only.
func (c *Config) SecureCookies() bool {
	return c.IsProduction()
}

// InsecureTLS allows self-signed server certificates. It is off unless
// explicitly enabled and is rejected by Validate in production.
func (c *Config) InsecureTLS() bool {
	return c.API.InsecureTLS
}
