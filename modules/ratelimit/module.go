package ratelimit

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis/v3"
	goredis "github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// PluginModule shares rate-limit counters through Redis so that several
// API instances enforce one limit per client.
type PluginModule struct {
	container types.ServiceContainer
	client    *goredis.Client
	storage   *redis.Storage
	redisAddr string
	password  string
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a rate-limit storage plugin for the Redis at redisAddr.
func NewPluginModule(redisAddr, password string, logger types.Logger) *PluginModule {
	return &PluginModule{
		redisAddr: redisAddr,
		password:  password,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "ratelimit"
}

// Start connects to Redis. A go-redis client is pinged first so that an
// unreachable server fails Start with an error.
func (m *PluginModule) Start(ctx context.Context) (err error) {
	host, port := parseRedisAddr(m.redisAddr)
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    m.password,
		PoolSize:    2,
		DialTimeout: dialTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	// redis.New panics when the server cannot be reached.
	defer func() {
		if r := recover(); r != nil {
			_ = client.Close()
			err = fmt.Errorf("failed to connect to redis at %s: %v", addr, r)
		}
	}()

	m.storage = redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: m.password,
		PoolSize: 10,
	})
	m.client = client
	m.logger.Info("Rate limit storage connected", "redis_addr", m.redisAddr)
	return nil
}

// Stop closes the Redis connections.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.storage == nil {
		return nil
	}
	if err := m.storage.Close(); err != nil {
		return fmt.Errorf("failed to close redis storage: %w", err)
	}
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	m.logger.Info("Rate limit storage closed")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Storage returns the counter storage for the limiter middleware.
// It is nil until Start succeeds.
func (m *PluginModule) Storage() fiber.Storage {
	if m.storage == nil {
		return nil
	}
	return m.storage
}

// Health pings Redis.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.redisAddr,
		},
	}
}

// parseRedisAddr splits "host:port", falling back to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
