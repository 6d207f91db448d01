package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter implements TaskPort over the task module's request-reply services.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer of the task module.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a task via the create-task service.
func (a *taskAdapter) CreateTask(ctx context.Context, payload Payload) (*domain.Task, error) {
	req := CreateTaskRequest{Payload: payload}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceCreateTask,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceCreateTask, err)
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Task, nil
}

// UpdateTask updates a task via the update-task service.
func (a *taskAdapter) UpdateTask(ctx context.Context, taskID string, payload Payload) (*domain.Task, error) {
	req := UpdateTaskRequest{TaskID: taskID, Payload: payload}
	var resp TaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceUpdateTask,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceUpdateTask, err)
	}
	if resp.Error != nil {
		return nil, resp.Error.Err()
	}
	return resp.Task, nil
}

// DeleteTask deletes a task via the delete-task service.
func (a *taskAdapter) DeleteTask(ctx context.Context, taskID string) error {
	req := DeleteTaskRequest{TaskID: taskID}
	var resp DeleteTaskReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceDeleteTask,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", ServiceDeleteTask, err)
	}
	if resp.Error != nil {
		return resp.Error.Err()
	}
	if !resp.Deleted {
		return fmt.Errorf("task not deleted: %s", taskID)
	}
	return nil
}

// ListTasks lists a page of tasks via the list-tasks service.
func (a *taskAdapter) ListTasks(ctx context.Context, req ListTasksRequest) (*ListTasksReply, error) {
	var resp ListTasksReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListTasks,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceListTasks, err)
	}
	return &resp, nil
}

// ListLogs lists a page of audit entries via the list-logs service.
func (a *taskAdapter) ListLogs(ctx context.Context, req ListLogsRequest) (*ListLogsReply, error) {
	var resp ListLogsReply
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListLogs,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", ServiceListLogs, err)
	}
	return &resp, nil
}
