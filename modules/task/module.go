package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// errNotStarted is returned by services invoked before Start.
var errNotStarted = errors.New("task module not started")

// TaskModule exposes the task service over mono request-reply services.
type TaskModule struct {
	service  *Service
	store    *store.PluginModule
	paging   config.PagingConfig
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TaskModule)(nil)
	_ mono.ServiceProviderModule = (*TaskModule)(nil)
	_ mono.UsePluginModule       = (*TaskModule)(nil)
	_ mono.EventEmitterModule    = (*TaskModule)(nil)
	_ mono.HealthCheckableModule = (*TaskModule)(nil)
)

// NewModule creates a new TaskModule.
func NewModule(paging config.PagingConfig, logger types.Logger) *TaskModule {
	return &TaskModule{
		paging: paging,
		logger: logger,
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

// SetPlugin receives the store plugin from the framework.
func (m *TaskModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "store" {
		return
	}
	sp, ok := plugin.(*store.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for store",
			"alias", alias,
			"expected", "*store.PluginModule")
		return
	}
	m.store = sp
}

func (m *TaskModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskUpdatedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateTask, json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceUpdateTask, json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceUpdateTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDeleteTask, json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDeleteTask, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListTasks, json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListTasks, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListLogs, json.Unmarshal, json.Marshal, m.listLogs,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListLogs, err)
	}

	m.logger.Info("Registered task services",
		"services", []string{ServiceCreateTask, ServiceUpdateTask, ServiceDeleteTask, ServiceListTasks, ServiceListLogs})
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	if m.store == nil {
		return fmt.Errorf("required plugin 'store' not registered")
	}
	tasks, logs := m.store.Tasks(), m.store.Logs()
	if tasks == nil || logs == nil {
		return fmt.Errorf("store plugin not connected")
	}

	m.service = NewService(tasks, logs, m.paging, m.logger)
	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, task events will not be published")
	} else {
		m.service.SetEventBus(m.eventBus)
	}

	m.logger.Info("Task module started")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	m.logger.Info("Task module stopped")
	return nil
}

// Health reports whether the service is ready.
func (m *TaskModule) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "not started",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"task_page_size": m.paging.TaskPageSize,
			"log_page_size":  m.paging.LogPageSize,
		},
	}
}

// Service returns the in-process task service. Valid only after Start.
func (m *TaskModule) Service() *Service {
	return m.service
}
