package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "sqlite", cfg.DataSource.Kind)
	require.Equal(t, "http", cfg.Transport.Mode)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
db:
  path: /tmp/data.db
  fixtures_path: fixtures.yaml
log:
  level: debug
datasource:
  kind: graphql
  cache_ttl: 30s
  graphql:
    endpoint: https://api.example.com/graphql
    timeout: 5s
labels:
  locale: fr
`)
	t.Setenv("HOSTBOARD_CONFIG_PATH", path)
	t.Setenv("HOSTBOARD_SERVER_PORT", "7000")
	t.Setenv("HOSTBOARD_LOG_LEVEL", "warn")
	t.Setenv("HOSTBOARD_DATASOURCE_CACHE_SIZE", "32")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "/tmp/data.db", cfg.DB.Path)
	require.Equal(t, "fixtures.yaml", cfg.DB.FixturesPath)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "graphql", cfg.DataSource.Kind)
	require.Equal(t, 30*time.Second, cfg.DataSource.CacheTTL)
	require.Equal(t, 32, cfg.DataSource.CacheSize)
	require.Equal(t, "https://api.example.com/graphql", cfg.DataSource.GraphQL.Endpoint)
	require.Equal(t, 5*time.Second, cfg.DataSource.GraphQL.Timeout)
	require.Equal(t, "fr", cfg.Labels.Locale)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"HOSTBOARD_SERVER_PORT": "nope"}},
		{name: "port out of range", env: map[string]string{"HOSTBOARD_SERVER_PORT": "70000"}},
		{name: "bad level", env: map[string]string{"HOSTBOARD_LOG_LEVEL": "loud"}},
		{name: "bad mode", env: map[string]string{"HOSTBOARD_TRANSPORT_MODE": "grpc"}},
		{name: "bad kind", env: map[string]string{"HOSTBOARD_DATASOURCE_KIND": "redis"}},
		{name: "graphql without endpoint", env: map[string]string{"HOSTBOARD_DATASOURCE_KIND": "graphql"}},
		{name: "bad endpoint", env: map[string]string{"HOSTBOARD_DATASOURCE_GRAPHQL_ENDPOINT": "not a url"}},
		{name: "missing file", env: map[string]string{"HOSTBOARD_CONFIG_PATH": "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Setenv("HOSTBOARD_CONFIG_PATH", writeConfig(t, "server: [unclosed"))
	_, err := Load()
	require.Error(t, err)
}
