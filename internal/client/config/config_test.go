package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_endpoint_addr":"json:1","request_timeout":"3s"}`), 0o600))

	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{name: "defaults", args: nil, want: &Config{ServerEndpointAddr: "127.0.0.1:50051", RequestTimeout: 10 * time.Second}},
		{name: "json", args: []string{"-c", path}, want: &Config{ServerEndpointAddr: "json:1", RequestTimeout: 3 * time.Second}},
		{name: "flags override json", args: []string{"-config", path, "-a", "flag:2", "-t", "5"},
			want: &Config{ServerEndpointAddr: "flag:2", RequestTimeout: 5 * time.Second}},
		{name: "missing file", args: []string{"-c", filepath.Join(dir, "none.json")}, wantErr: true},
		{name: "bad flag value", args: []string{"-t", "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := load(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}
