package store

import (
	"context"
	"fmt"
	"time"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/auditlog"
	"github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// PluginModule owns the persistence backend as a mono plugin.
// Plugins start before and stop after regular modules, so the backend is
// available for the whole lifetime of the task module.
type PluginModule struct {
	container types.ServiceContainer
	cfg       config.StoreConfig
	open      Opener
	backend   Backend
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a store plugin for the configured driver.
func NewPluginModule(cfg config.StoreConfig, logger types.Logger) (*PluginModule, error) {
	open, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}
	return NewPluginModuleWithOpener(cfg, open, logger), nil
}

// NewPluginModuleWithOpener creates a store plugin that opens its backend with open.
func NewPluginModuleWithOpener(cfg config.StoreConfig, open Opener, logger types.Logger) *PluginModule {
	return &PluginModule{
		cfg:    cfg,
		open:   open,
		logger: logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "store"
}

// Start connects to the backend, retrying with the configured delay.
func (m *PluginModule) Start(ctx context.Context) error {
	backend, err := ConnectWithRetry(ctx, m.open, m.cfg.ReconnectDelay, m.logger)
	if err != nil {
		return err
	}
	m.backend = backend
	m.logger.Info("Store connected", "driver", m.cfg.Driver)
	return nil
}

// Stop closes the backend.
func (m *PluginModule) Stop(ctx context.Context) error {
	if m.backend == nil {
		return nil
	}
	if err := m.backend.Close(ctx); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	m.logger.Info("Store closed")
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

// Tasks returns the task repository. Valid only after Start.
func (m *PluginModule) Tasks() task.Repository {
	if m.backend == nil {
		return nil
	}
	return m.backend.Tasks()
}

// Logs returns the audit log repository. Valid only after Start.
func (m *PluginModule) Logs() auditlog.Repository {
	if m.backend == nil {
		return nil
	}
	return m.backend.Logs()
}

// Health pings the backend.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.backend == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not connected",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.backend.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.cfg.Driver,
		},
	}
}
