package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Log levels accepted in LogLevel.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Config holds all service settings. It is built once at start-up and
// passed to the components that need it.
type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Store     StoreConfig     `yaml:"store"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Paging    PagingConfig    `yaml:"paging"`
	LogLevel  string          `yaml:"log_level"`
	NATSPort  int             `yaml:"nats_port"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	BodyLimit      int      `yaml:"body_limit"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AuthConfig holds the single static credential pair.
// When PasswordHash is set it is a bcrypt hash and takes precedence over Password.
type AuthConfig struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver         string        `yaml:"driver"`
	Path           string        `yaml:"path"`
	Debug          bool          `yaml:"debug"`
	MongoURI       string        `yaml:"mongo_uri"`
	MongoDatabase  string        `yaml:"mongo_database"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

// RateLimitConfig bounds requests per client IP on the API routes.
// When RedisAddr is empty counters are kept in memory.
type RateLimitConfig struct {
	Max           int           `yaml:"max"`
	Window        time.Duration `yaml:"window"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
}

// PagingConfig holds the default page sizes.
type PagingConfig struct {
	TaskPageSize int `yaml:"task_page_size"`
	LogPageSize  int `yaml:"log_page_size"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:      5000,
			BodyLimit: 10 * 1024,
		},
		Auth: AuthConfig{
			Username: "admin",
			Password: "password123",
		},
		Store: StoreConfig{
			Driver:         DriverSQLite,
			Path:           "tasktracker.db",
			MongoURI:       "mongodb://localhost:27017",
			MongoDatabase:  "tasktracker",
			ReconnectDelay: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Max:    100,
			Window: 15 * time.Minute,
		},
		Paging: PagingConfig{
			TaskPageSize: 5,
			LogPageSize:  10,
		},
		LogLevel: LogLevelInfo,
		NATSPort: 4222,
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and environment variables, in that order of precedence.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = defaultOrigins(cfg.Env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultOrigins(env string) []string {
	if env == "production" {
		return []string{"https://yourdomain.com"}
	}
	return []string{"http://localhost:3000"}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Auth.Username == "" {
		return errors.New("auth username is required")
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return errors.New("auth password or password hash is required")
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store path is required for sqlite")
		}
	case DriverMongoDB:
		if c.Store.MongoURI == "" {
			return errors.New("mongo uri is required for mongodb")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}
	if c.Store.ReconnectDelay <= 0 {
		return errors.New("reconnect delay must be positive")
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit max and window must be positive")
	}
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	if c.NATSPort < 1024 || c.NATSPort > 65535 {
		return fmt.Errorf("invalid nats port: %d", c.NATSPort)
	}
	if c.Paging.TaskPageSize <= 0 || c.Paging.LogPageSize <= 0 {
		return errors.New("page sizes must be positive")
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Env, "APP_ENV")
	setString(&c.Auth.Username, "AUTH_USERNAME")
	setString(&c.Auth.Password, "AUTH_PASSWORD")
	setString(&c.Auth.PasswordHash, "AUTH_PASSWORD_HASH")
	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.Path, "DB_PATH")
	setString(&c.Store.MongoURI, "MONGO_URI")
	setString(&c.Store.MongoDatabase, "MONGO_DATABASE")
	setString(&c.RateLimit.RedisAddr, "REDIS_ADDR")
	setString(&c.RateLimit.RedisPassword, "REDIS_PASSWORD")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("DB_DEBUG"); v != "" {
		c.Store.Debug = v == "true" || v == "1"
	}

	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&c.RateLimit.Max, "RATE_LIMIT_MAX"); err != nil {
		return err
	}
	if err := setInt(&c.NATSPort, "NATS_PORT"); err != nil {
		return err
	}
	if err := setDuration(&c.RateLimit.Window, "RATE_LIMIT_WINDOW"); err != nil {
		return err
	}
	return setDuration(&c.Store.ReconnectDelay, "DB_RECONNECT_DELAY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
