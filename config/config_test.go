package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 10*1024, cfg.Server.BodyLimit)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, "password123", cfg.Auth.Password)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Store.ReconnectDelay)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.Paging.TaskPageSize)
	assert.Equal(t, 10, cfg.Paging.LogPageSize)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: production
server:
  port: 8080
store:
  driver: mongodb
  mongo_uri: mongodb://db:27017
  reconnect_delay: 2s
paging:
  task_page_size: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverMongoDB, cfg.Store.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Store.MongoURI)
	assert.Equal(t, 2*time.Second, cfg.Store.ReconnectDelay)
	assert.Equal(t, 20, cfg.Paging.TaskPageSize)
	assert.Equal(t, 10, cfg.Paging.LogPageSize)
	assert.Equal(t, []string{"https://yourdomain.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_USERNAME", "ops")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("DB_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "ops", cfg.Auth.Username)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Store.Debug)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad port", env: map[string]string{"PORT": "abc"}},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "bad duration", env: map[string]string{"DB_RECONNECT_DELAY": "soon"}},
		{name: "unknown driver", env: map[string]string{"STORE_DRIVER": "postgres"}},
		{name: "bad yaml", file: "server: [unclosed"},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "privileged nats port", env: map[string]string{"NATS_PORT": "80"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_LogLevels(t *testing.T) {
	for _, level := range []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError} {
		t.Run(level, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", level)
			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, level, cfg.LogLevel)
		})
	}
}
