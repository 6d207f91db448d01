package ratelimit

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRedisAddr = "localhost:6379"

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

// checkRedisAvailable skips the test when no Redis is listening.
func checkRedisAvailable(t *testing.T) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", testRedisAddr, 2*time.Second)
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	conn.Close()
}

func TestParseRedisAddr(t *testing.T) {
	tests := []struct {
		addr     string
		wantHost string
		wantPort int
	}{
		{"localhost:6380", "localhost", 6380},
		{":6379", "127.0.0.1", 6379},
		{"redis", "127.0.0.1", 6379},
		{"cache:abc", "cache", 6379},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			host, port := parseRedisAddr(tt.addr)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestPluginModule_NotStarted(t *testing.T) {
	m := NewPluginModule(testRedisAddr, "", &mockLogger{})

	assert.Equal(t, "ratelimit", m.Name())
	assert.Nil(t, m.Storage())
	assert.False(t, m.Health(context.Background()).Healthy)
	assert.NoError(t, m.Stop(context.Background()))
}

func TestPluginModule_StartUnreachable(t *testing.T) {
	// Nothing listens on port 1.
	m := NewPluginModule("127.0.0.1:1", "", &mockLogger{})

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis at 127.0.0.1:1")
	assert.Nil(t, m.Storage())
	assert.NoError(t, m.Stop(context.Background()))
}

func TestPluginModule_Lifecycle(t *testing.T) {
	checkRedisAvailable(t)

	m := NewPluginModule(testRedisAddr, "", &mockLogger{})
	require.NoError(t, m.Start(context.Background()))
	defer m.Stop(context.Background())

	storage := m.Storage()
	require.NotNil(t, storage)
	require.NoError(t, storage.Set("ratelimit_test_key", []byte("1"), time.Minute))
	val, err := storage.Get("ratelimit_test_key")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
	require.NoError(t, storage.Delete("ratelimit_test_key"))

	assert.True(t, m.Health(context.Background()).Healthy)
}
