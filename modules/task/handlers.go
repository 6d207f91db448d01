package task

import (
	"context"

	"github.com/go-monolith/mono"
)

// Request-reply handlers. Expected failures go back in the reply so the
// caller can tell them apart from transport or storage errors.

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	if m.service == nil {
		return TaskReply{}, errNotStarted
	}
	t, err := m.service.CreateTask(ctx, req.Payload)
	if err != nil {
		if se := newServiceError(err); se != nil {
			return TaskReply{Error: se}, nil
		}
		return TaskReply{}, err
	}
	return TaskReply{Task: t}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskReply, error) {
	if m.service == nil {
		return TaskReply{}, errNotStarted
	}
	t, err := m.service.UpdateTask(ctx, req.TaskID, req.Payload)
	if err != nil {
		if se := newServiceError(err); se != nil {
			return TaskReply{Error: se}, nil
		}
		return TaskReply{}, err
	}
	return TaskReply{Task: t}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskReply, error) {
	if m.service == nil {
		return DeleteTaskReply{}, errNotStarted
	}
	if err := m.service.DeleteTask(ctx, req.TaskID); err != nil {
		if se := newServiceError(err); se != nil {
			return DeleteTaskReply{Error: se}, nil
		}
		return DeleteTaskReply{}, err
	}
	return DeleteTaskReply{Deleted: true}, nil
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksReply, error) {
	if m.service == nil {
		return ListTasksReply{}, errNotStarted
	}
	reply, err := m.service.ListTasks(ctx, req)
	if err != nil {
		return ListTasksReply{}, err
	}
	return *reply, nil
}

func (m *TaskModule) listLogs(ctx context.Context, req ListLogsRequest, _ *mono.Msg) (ListLogsReply, error) {
	if m.service == nil {
		return ListLogsReply{}, errNotStarted
	}
	reply, err := m.service.ListLogs(ctx, req)
	if err != nil {
		return ListLogsReply{}, err
	}
	return *reply, nil
}
