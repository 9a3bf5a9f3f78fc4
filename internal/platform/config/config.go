// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. For local runs an
optional .env file is merged into the process environment first; variables that
are already set always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, session gate) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/storekeep/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the Storekeep API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`

	// TrustProxyHeaders takes the client address from X-Real-IP / X-Forwarded-For.
	// Enable only behind a reverse proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath reads migrations from disk instead of the embedded set.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Signing secrets. The two must differ so that one credential type can never
	// be replayed as the other.
	AccessTokenSecret  string `env:"ACCESS_TOKEN_SECRET,required,unset"`
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET,required,unset"`

	// Credential lifetimes
	AccessTTL  time.Duration `env:"ACCESS_TTL"  envDefault:"8h"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"480h"`

	// RefreshLookupTimeout bounds the user lookup performed during a transparent refresh.
	RefreshLookupTimeout time.Duration `env:"REFRESH_LOOKUP_TIMEOUT" envDefault:"3s"`

	// Cookie attributes
	CookieDomain   string `env:"COOKIE_DOMAIN"`
	CookiePath     string `env:"COOKIE_PATH"     envDefault:"/api"`
	CookieSecure   bool   `env:"COOKIE_SECURE"   envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAMESITE" envDefault:"strict"`

	// PublicRoutes lists exact request paths that bypass authentication.
	PublicRoutes []string `env:"PUBLIC_ROUTES" envSeparator:"," envDefault:"/api/user/login,/api/user/register,/api/user/check,/api/user/refresh"`

	// Login brute-force protection
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS"   envDefault:"5"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW" envDefault:"15m"`
}

// # Configuration Loading

// Load merges an optional .env file into the environment, parses it into a
// [Config] struct and validates the result.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is [Load] with explicit dotenv file names. Missing files are ignored.
func LoadFiles(dotenvFiles ...string) (*Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", file, err)
		}
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// # Validation

// Validate enforces the invariants the session layer relies on.
func (c *Config) Validate() error {
	var problems []error

	if len(c.AccessTokenSecret) < constants.MinSecretLength {
		problems = append(problems, fmt.Errorf("ACCESS_TOKEN_SECRET must be at least %d bytes", constants.MinSecretLength))
	}
	if len(c.RefreshTokenSecret) < constants.MinSecretLength {
		problems = append(problems, fmt.Errorf("REFRESH_TOKEN_SECRET must be at least %d bytes", constants.MinSecretLength))
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		problems = append(problems, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		problems = append(problems, errors.New("ACCESS_TTL and REFRESH_TTL must be positive"))
	}
	if c.RefreshLookupTimeout <= 0 {
		problems = append(problems, errors.New("REFRESH_LOOKUP_TIMEOUT must be positive"))
	}

	sameSite, err := c.SameSite()
	if err != nil {
		problems = append(problems, err)
	} else if sameSite == http.SameSiteNoneMode && !c.CookieSecure {
		problems = append(problems, errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true"))
	}

	if !strings.HasPrefix(c.CookiePath, "/") {
		problems = append(problems, errors.New("COOKIE_PATH must start with '/'"))
	}

	if c.LoginMaxAttempts < 1 || c.LoginLockoutWindow <= 0 {
		problems = append(problems, errors.New("LOGIN_MAX_ATTEMPTS and LOGIN_LOCKOUT_WINDOW must be positive"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(problems...))
	}

	return nil
}

// SameSite maps COOKIE_SAMESITE onto the net/http constant.
func (c *Config) SameSite() (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(c.CookieSameSite)) {
	case "strict":
		return http.SameSiteStrictMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return http.SameSiteDefaultMode, fmt.Errorf("COOKIE_SAMESITE must be one of strict, lax, none (got %q)", c.CookieSameSite)
	}
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
