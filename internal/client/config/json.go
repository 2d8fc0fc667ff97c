package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/usersvc/internal/flagx"
	"github.com/dmitrijs2005/usersvc/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the file named by -c or -config.
// Keys missing from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFilePath(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
