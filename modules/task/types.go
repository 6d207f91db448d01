package task

import (
	"context"
	"errors"

	"github.com/example/task-tracker/domain/auditlog"
	domain "github.com/example/task-tracker/domain/task"
)

// Service names registered by the task module.
const (
	ServiceCreateTask = "create-task"
	ServiceUpdateTask = "update-task"
	ServiceDeleteTask = "delete-task"
	ServiceListTasks  = "list-tasks"
	ServiceListLogs   = "list-logs"
)

// Payload is a client-supplied task body. Values keep their decoded JSON types
// so that non-string fields can be told apart from strings.
type Payload map[string]any

// String returns the value under key if it is a string.
func (p Payload) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Payload Payload `json:"payload"`
}

// UpdateTaskRequest is the request for replacing a task's fields.
type UpdateTaskRequest struct {
	TaskID  string  `json:"task_id"`
	Payload Payload `json:"payload"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// ListTasksRequest is the request for a page of tasks.
// Page and Limit are passed through as received from the client.
type ListTasksRequest struct {
	Page   string `json:"page,omitempty"`
	Limit  string `json:"limit,omitempty"`
	Search string `json:"search,omitempty"`
}

// ListLogsRequest is the request for a page of audit entries.
type ListLogsRequest struct {
	Page  string `json:"page,omitempty"`
	Limit string `json:"limit,omitempty"`
}

// TaskReply carries a task or an expected failure.
type TaskReply struct {
	Task  *domain.Task  `json:"task,omitempty"`
	Error *ServiceError `json:"error,omitempty"`
}

// DeleteTaskReply carries the outcome of a delete.
type DeleteTaskReply struct {
	Deleted bool          `json:"deleted"`
	Error   *ServiceError `json:"error,omitempty"`
}

// ListTasksReply is a page of tasks.
type ListTasksReply struct {
	Tasks      []*domain.Task `json:"tasks"`
	Pagination Pagination     `json:"pagination"`
}

// ListLogsReply is a page of audit entries.
type ListLogsReply struct {
	Logs       []*auditlog.Entry `json:"logs"`
	Pagination Pagination        `json:"pagination"`
}

// Error codes carried in ServiceError.
const (
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeMalformedID      = "malformed_id"
)

// ServiceError is an expected failure sent back in a reply payload.
// Unexpected failures are returned as request-reply errors instead.
type ServiceError struct {
	Code   string   `json:"code"`
	Errors []string `json:"errors,omitempty"`
}

// newServiceError converts an expected domain error into a ServiceError.
// It returns nil for any other error.
func newServiceError(err error) *ServiceError {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return &ServiceError{Code: CodeValidationFailed, Errors: verr.Errors}
	case errors.Is(err, domain.ErrNotFound):
		return &ServiceError{Code: CodeNotFound}
	case errors.Is(err, domain.ErrMalformedID):
		return &ServiceError{Code: CodeMalformedID}
	}
	return nil
}

// Err rebuilds the domain error carried by e.
func (e *ServiceError) Err() error {
	switch e.Code {
	case CodeValidationFailed:
		return &domain.ValidationError{Errors: e.Errors}
	case CodeNotFound:
		return domain.ErrNotFound
	case CodeMalformedID:
		return domain.ErrMalformedID
	}
	return errors.New("unknown service error: " + e.Code)
}

// TaskPort defines the task operations available to driving adapters.
// Expected failures are reported as *domain.ValidationError,
// domain.ErrNotFound or domain.ErrMalformedID.
type TaskPort interface {
	CreateTask(ctx context.Context, payload Payload) (*domain.Task, error)
	UpdateTask(ctx context.Context, taskID string, payload Payload) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	ListTasks(ctx context.Context, req ListTasksRequest) (*ListTasksReply, error)
	ListLogs(ctx context.Context, req ListLogsRequest) (*ListLogsReply, error)
}
