package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/notification"
	"github.com/example/task-tracker/modules/ratelimit"
	"github.com/example/task-tracker/modules/store"
	"github.com/example/task-tracker/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// logLevels maps the values config.Validate accepts to mono levels.
var logLevels = map[string]mono.LogLevel{
	config.LogLevelDebug: mono.LogLevelDebug,
	config.LogLevelInfo:  mono.LogLevelInfo,
	config.LogLevelWarn:  mono.LogLevelWarn,
	config.LogLevelError: mono.LogLevelError,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(logLevels[cfg.LogLevel]),
		mono.WithLogFormat(mono.LogFormatText),
		mono.WithNATSPort(cfg.NATSPort),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	logger := app.Logger()

	// Plugins start before modules and stop after them.
	storePlugin, err := store.NewPluginModule(cfg.Store, logger.WithModule("store"))
	if err != nil {
		return err
	}
	if err := app.RegisterPlugin(storePlugin, "store"); err != nil {
		return fmt.Errorf("failed to register store plugin: %w", err)
	}
	if cfg.RateLimit.RedisAddr != "" {
		rl := ratelimit.NewPluginModule(cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, logger.WithModule("ratelimit"))
		if err := app.RegisterPlugin(rl, "ratelimit"); err != nil {
			return fmt.Errorf("failed to register ratelimit plugin: %w", err)
		}
	}

	// Order: event consumer, core domain, then the HTTP adapter that depends on it.
	if err := app.Register(notification.NewModule(logger.WithModule("notification"))); err != nil {
		return fmt.Errorf("failed to register notification module: %w", err)
	}
	if err := app.Register(task.NewModule(cfg.Paging, logger.WithModule("task"))); err != nil {
		return fmt.Errorf("failed to register task module: %w", err)
	}
	if err := app.Register(api.NewModule(cfg, logger.WithModule("api"))); err != nil {
		return fmt.Errorf("failed to register api module: %w", err)
	}

	// Start-up may wait on store reconnects; an interrupt abandons it.
	startCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Start(startCtx)
	stop()
	if err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	printStartupInfo(logger, cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Application exited", "code", exitCode)
	if exitCode != 0 {
		return exitCodeError(exitCode)
	}
	return nil
}

func printStartupInfo(logger types.Logger, cfg *config.Config) {
	logger.Info("Task tracker started",
		"env", cfg.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"shared_ratelimit", cfg.RateLimit.RedisAddr != "")
	logger.Info("REST API endpoints",
		"routes", []string{
			"GET    /api/tasks?page=&limit=&search=",
			"POST   /api/tasks",
			"PUT    /api/tasks/:id",
			"DELETE /api/tasks/:id",
			"GET    /api/logs?page=&limit=",
			"GET    /health",
		})
	logger.Info("Press Ctrl+C to shutdown gracefully")
}
