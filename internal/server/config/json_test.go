package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":      "www.example:8000",
		"endpoint_addr_grpc":      "www.example:9000",
		"storage_driver":          "postgres",
		"database_dsn":            "postgres://u:p@db/users",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "30m",
		"bcrypt_cost":             10,
		"admin_email":             "admin@example.com",
		"rate_limit_per_minute":   5,
		"rate_limit_burst":        2,
		"log_level":               "DEBUG",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "www.example:8000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, StoragePostgres, cfg.StorageDriver)
		assert.Equal(t, "postgres://u:p@db/users", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 30*time.Minute, cfg.TokenValidityDuration)
		assert.Equal(t, 10, cfg.BcryptCost)
		assert.Equal(t, "admin@example.com", cfg.AdminEmail)
		assert.Equal(t, 5, cfg.RateLimitPerMinute)
		assert.Equal(t, 2, cfg.RateLimitBurst)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	})

	t.Run("short flag", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-c", pathFlag}))
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("missing keys keep current values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"secret_key": "only"})

		cfg := defaults()
		require.NoError(t, parseJson(cfg, []string{"-config", partial}))

		want := defaults()
		want.SecretKey = "only"
		assert.Equal(t, want, cfg)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		assert.Error(t, parseJson(cfg, []string{"-config", bad}))
	})

	t.Run("invalid duration → error", func(t *testing.T) {
		bad := writeTempJSON(t, dir, "dur.json", map[string]any{"token_validity_duration": "soon"})

		cfg := &Config{}
		assert.Error(t, parseJson(cfg, []string{"-config", bad}))
	})
}
