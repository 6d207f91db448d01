package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// maxActivities bounds the in-memory activity feed.
const maxActivities = 100

// Activity is one task event as seen by the notification module.
type Activity struct {
	TaskID    string    `json:"task_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule consumes task events and records them as an activity feed.
type NotificationModule struct {
	activities []Activity
	mu         sync.RWMutex
	logger     types.Logger
	now        func() time.Time
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*NotificationModule)(nil)
	_ mono.EventConsumerModule   = (*NotificationModule)(nil)
	_ mono.HealthCheckableModule = (*NotificationModule)(nil)
)

// NewModule creates a new NotificationModule.
func NewModule(logger types.Logger) *NotificationModule {
	return &NotificationModule{
		activities: make([]Activity, 0),
		logger:     logger,
		now:        time.Now,
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"TaskCreated", "TaskUpdated", "TaskDeleted"})
	return nil
}

func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.logger.Info("Task created", "task_id", event.TaskID, "title", event.Title)
	m.record(event.TaskID, "task_created", fmt.Sprintf("New task '%s' created", event.Title))
	return nil
}

func (m *NotificationModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	fields := make([]string, 0, len(event.Changes))
	for _, name := range []string{"title", "description"} {
		if _, ok := event.Changes[name]; ok {
			fields = append(fields, name)
		}
	}
	m.logger.Info("Task updated", "task_id", event.TaskID, "fields", fields)
	m.record(event.TaskID, "task_updated", fmt.Sprintf("Task %s updated: %v", event.TaskID, fields))
	return nil
}

func (m *NotificationModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.logger.Info("Task deleted", "task_id", event.TaskID, "title", event.Title)
	m.record(event.TaskID, "task_deleted", fmt.Sprintf("Task '%s' deleted", event.Title))
	return nil
}

// record appends an activity, dropping the oldest once the feed is full.
func (m *NotificationModule) record(taskID, activityType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activities = append(m.activities, Activity{
		TaskID:    taskID,
		Type:      activityType,
		Message:   message,
		Timestamp: m.now(),
	})
	if len(m.activities) > maxActivities {
		m.activities = m.activities[len(m.activities)-maxActivities:]
	}
}

// Activities returns a copy of the feed, oldest first.
func (m *NotificationModule) Activities() []Activity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Activity, len(m.activities))
	copy(result, m.activities)
	return result
}

func (m *NotificationModule) Start(_ context.Context) error {
	m.logger.Info("Notification module started, listening for task events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	m.logger.Info("Notification module stopped")
	return nil
}

// Health reports the size of the activity feed.
func (m *NotificationModule) Health(_ context.Context) mono.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"activities": len(m.activities),
		},
	}
}
