package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/usersvc/internal/flagx"
	"github.com/dmitrijs2005/usersvc/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "12h" and integer nanoseconds.
//
// Pointer fields tell an absent key apart from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string          `json:"endpoint_addr_grpc"`
	StorageDriver         string          `json:"storage_driver"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	AdminEmail            string          `json:"admin_email"`
	RateLimitPerMinute    *int            `json:"rate_limit_per_minute"`
	RateLimitBurst        *int            `json:"rate_limit_burst"`
	LogLevel              *slog.Level     `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config in args. Without either flag nothing is loaded. Keys missing from
// the file keep their current values.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFilePath(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AdminEmail, c.AdminEmail)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RateLimitPerMinute != nil {
		config.RateLimitPerMinute = *c.RateLimitPerMinute
	}
	if c.RateLimitBurst != nil {
		config.RateLimitBurst = *c.RateLimitBurst
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
