package task

import (
	"context"
	"fmt"
	"time"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/auditlog"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Service implements the task operations and writes the audit entry for
// every mutation. The task write and the entry write are sequential and are
// not rolled back together: if the entry write fails the task change stays.
type Service struct {
	tasks    domain.Repository
	logs     auditlog.Repository
	paging   config.PagingConfig
	eventBus mono.EventBus
	logger   types.Logger
	now      func() time.Time
}

var _ TaskPort = (*Service)(nil)

// NewService creates a task service over the given repositories.
func NewService(tasks domain.Repository, logs auditlog.Repository, paging config.PagingConfig, logger types.Logger) *Service {
	return &Service{
		tasks:  tasks,
		logs:   logs,
		paging: paging,
		logger: logger,
		now:    time.Now,
	}
}

// SetEventBus enables publishing of task events. A nil bus disables it.
func (s *Service) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// CreateTask sanitizes and validates payload, stores the task and records a
// Create Task entry with its content.
func (s *Service) CreateTask(ctx context.Context, payload Payload) (*domain.Task, error) {
	clean := Sanitize(payload)
	if errs := Validate(clean); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	title, _ := clean.String("title")
	description, _ := clean.String("description")
	now := s.now()
	t := &domain.Task{
		ID:          domain.NewID(),
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	if err := s.appendLog(ctx, auditlog.ActionCreate, t.ID, t.Content()); err != nil {
		return nil, err
	}

	s.publish(func(bus mono.EventBus) error {
		return events.TaskCreatedV1.Publish(bus, events.TaskCreatedEvent{
			TaskID:      t.ID,
			Title:       t.Title,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		}, nil)
	}, "TaskCreated", t.ID)

	return t, nil
}

// UpdateTask replaces the title and description of an existing task.
// The update time always advances; an Update Task entry holding only the
// changed fields is recorded when at least one field differs.
func (s *Service) UpdateTask(ctx context.Context, taskID string, payload Payload) (*domain.Task, error) {
	if !domain.ValidID(taskID) {
		return nil, domain.ErrMalformedID
	}

	existing, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	clean := Sanitize(payload)
	if errs := Validate(clean); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	title, _ := clean.String("title")
	description, _ := clean.String("description")
	updated := &domain.Task{
		ID:          existing.ID,
		Title:       title,
		Description: description,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   s.now(),
	}
	changes := Diff(existing.Content(), updated.Content())

	if err := s.tasks.Update(ctx, updated); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := s.appendLog(ctx, auditlog.ActionUpdate, updated.ID, changes); err != nil {
			return nil, err
		}
		s.publish(func(bus mono.EventBus) error {
			return events.TaskUpdatedV1.Publish(bus, events.TaskUpdatedEvent{
				TaskID:    updated.ID,
				Changes:   changes,
				UpdatedAt: updated.UpdatedAt,
			}, nil)
		}, "TaskUpdated", updated.ID)
	}

	return updated, nil
}

// DeleteTask removes a task and records a Delete Task entry holding the
// content the task had before removal.
func (s *Service) DeleteTask(ctx context.Context, taskID string) error {
	if !domain.ValidID(taskID) {
		return domain.ErrMalformedID
	}

	existing, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	snapshot := existing.Content()

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	if err := s.appendLog(ctx, auditlog.ActionDelete, taskID, snapshot); err != nil {
		return err
	}

	s.publish(func(bus mono.EventBus) error {
		return events.TaskDeletedV1.Publish(bus, events.TaskDeletedEvent{
			TaskID:    taskID,
			Title:     existing.Title,
			DeletedAt: s.now(),
		}, nil)
	}, "TaskDeleted", taskID)

	return nil
}

// ListTasks returns a page of tasks, newest first, optionally filtered by a
// case-insensitive substring of the title or description.
func (s *Service) ListTasks(ctx context.Context, req ListTasksRequest) (*ListTasksReply, error) {
	page := ParsePositive(req.Page, 1)
	limit := ParsePositive(req.Limit, s.paging.TaskPageSize)

	tasks, total, err := s.tasks.List(ctx, domain.ListFilter{
		Search: req.Search,
		Offset: Offset(page, limit),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListTasksReply{
		Tasks:      tasks,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

// ListLogs returns a page of audit entries, newest first.
func (s *Service) ListLogs(ctx context.Context, req ListLogsRequest) (*ListLogsReply, error) {
	page := ParsePositive(req.Page, 1)
	limit := ParsePositive(req.Limit, s.paging.LogPageSize)

	entries, total, err := s.logs.List(ctx, Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}

	return &ListLogsReply{
		Logs:       entries,
		Pagination: NewPagination(total, page, limit),
	}, nil
}

func (s *Service) appendLog(ctx context.Context, action auditlog.Action, taskID string, content map[string]string) error {
	entry := &auditlog.Entry{
		ID:             domain.NewID(),
		Timestamp:      s.now(),
		Action:         action,
		TaskID:         taskID,
		UpdatedContent: content,
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		s.logger.Error("Audit entry not written", "action", string(action), "task_id", taskID, "error", err)
		return fmt.Errorf("failed to record %q: %w", action, err)
	}
	return nil
}

// publish emits an event if a bus is configured. Failures are logged only.
func (s *Service) publish(emit func(mono.EventBus) error, name, taskID string) {
	if s.eventBus == nil {
		return
	}
	if err := emit(s.eventBus); err != nil {
		s.logger.Warn("Failed to publish event", "event", name, "task_id", taskID, "error", err)
	}
}
