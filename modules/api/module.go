package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/ratelimit"
	"github.com/example/task-tracker/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// APIModule serves the REST API over Fiber. It reaches the task module
// through the TaskPort interface.
type APIModule struct {
	app            *fiber.App
	cfg            *config.Config
	taskPort       task.TaskPort
	rateLimit      *ratelimit.PluginModule
	limiterStorage fiber.Storage
	logger         types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.DependentModule       = (*APIModule)(nil)
	_ mono.UsePluginModule       = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule.
func NewModule(cfg *config.Config, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// SetPlugin receives the optional Redis rate-limit storage.
// Without it the limiter keeps its counters in memory.
func (m *APIModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "ratelimit" {
		return
	}
	rl, ok := plugin.(*ratelimit.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for ratelimit",
			"alias", alias,
			"expected", "*ratelimit.PluginModule")
		return
	}
	m.rateLimit = rl
}

// Start builds the Fiber app and starts listening.
func (m *APIModule) Start(_ context.Context) error {
	if m.taskPort == nil {
		return fmt.Errorf("taskPort dependency not set")
	}
	if m.rateLimit != nil {
		m.limiterStorage = m.rateLimit.Storage()
	}

	m.app = m.newApp()
	addr := fmt.Sprintf(":%d", m.cfg.Server.Port)

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", addr, "env", m.cfg.Env)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":             m.cfg.Server.Port,
			"shared_ratelimit": m.limiterStorage != nil,
		},
	}
}

// newApp builds the Fiber application with middleware and routes.
func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Task Tracker",
		DisableStartupMessage: true,
		BodyLimit:             m.cfg.Server.BodyLimit,
		ErrorHandler:          m.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(m.cfg.Server.AllowedOrigins, ","),
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	m.setupRoutes(app)
	return app
}

// rateLimiter bounds requests per client IP over the configured window.
func (m *APIModule) rateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        m.cfg.RateLimit.Max,
		Expiration: m.cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error: "Too many requests from this IP, please try again later",
			})
		},
		Storage: m.limiterStorage,
	})
}

// errorHandler handles errors that escaped a handler.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}

	m.logger.Error("Unhandled request error",
		"request_id", c.Locals("requestid"),
		"method", c.Method(),
		"path", c.Path(),
		"error", err)

	message := "Server error occurred"
	if !m.cfg.IsProduction() {
		message = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: message})
}
