// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Storage drivers accepted in StorageDriver.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds runtime settings for the usersvc server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the two transports.
//   - StorageDriver: one of memory, postgres, sqlite.
//   - DatabaseDSN: pgx DSN or SQLite file path; unused for memory.
//   - SecretKey: HMAC secret for signing tokens (HS256). Do not use the default in prod.
//   - TokenValidityDuration: lifetime of an issued token.
//   - BcryptCost: work factor of password hashes.
//   - AdminEmail: account promoted to admin at startup, if it exists.
//   - RateLimitPerMinute / RateLimitBurst: per-client limit on /auth/login and /auth/register.
type Config struct {
	EndpointAddrHTTP      string        `env:"USERSVC_HTTP_ADDR"`
	EndpointAddrGRPC      string        `env:"USERSVC_GRPC_ADDR"`
	StorageDriver         string        `env:"USERSVC_STORAGE"`
	DatabaseDSN           string        `env:"DATABASE_URL"`
	SecretKey             string        `env:"SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"USERSVC_TOKEN_TTL"`
	BcryptCost            int           `env:"USERSVC_BCRYPT_COST"`
	AdminEmail            string        `env:"USERSVC_ADMIN_EMAIL"`
	RateLimitPerMinute    int           `env:"USERSVC_RATE_LIMIT"`
	RateLimitBurst        int           `env:"USERSVC_RATE_BURST"`
	LogLevel              slog.Level    `env:"USERSVC_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key is insecure and must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.StorageDriver = StorageMemory
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 12 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.AdminEmail = ""
	c.RateLimitPerMinute = 30
	c.RateLimitBurst = 10
	c.LogLevel = slog.LevelInfo
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key must not be empty"))
	}
	if c.TokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("token validity must be positive, got %s", c.TokenValidityDuration))
	}

	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres, StorageSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("storage %q needs a database DSN", c.StorageDriver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}

	if c.RateLimitPerMinute < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit settings must not be negative"))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
