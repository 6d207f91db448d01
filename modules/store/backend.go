package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/auditlog"
	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/storage/mongostore"
	"github.com/example/task-tracker/storage/sqlstore"
	"github.com/go-monolith/mono/pkg/types"
)

// Backend is an open persistence backend for tasks and audit entries.
type Backend interface {
	Tasks() task.Repository
	Logs() auditlog.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Opener opens a backend once.
type Opener func(ctx context.Context) (Backend, error)

// NewOpener returns an Opener for the driver named in cfg.
func NewOpener(cfg config.StoreConfig) (Opener, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return func(_ context.Context) (Backend, error) {
			return sqlstore.Open(cfg.Path, cfg.Debug)
		}, nil
	case config.DriverMongoDB:
		return func(ctx context.Context) (Backend, error) {
			return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
}

// ConnectWithRetry calls open until it succeeds, waiting delay between
// attempts. It gives up only when ctx is done.
func ConnectWithRetry(ctx context.Context, open Opener, delay time.Duration, logger types.Logger) (Backend, error) {
	for attempt := 1; ; attempt++ {
		backend, err := open(ctx)
		if err == nil {
			return backend, nil
		}

		logger.Error("Failed to connect to store", "attempt", attempt, "error", err)
		if strings.Contains(err.Error(), "IP address") {
			logger.Warn("This appears to be an IP allow-list issue, check the database network access settings")
		}
		logger.Info("Retrying store connection", "delay", delay.String())

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("store connection abandoned after %d attempts: %w", attempt, ctx.Err())
		case <-timer.C:
		}
	}
}
