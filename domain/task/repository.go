package task

import "context"

// ListFilter selects a page of tasks.
// A zero Limit returns every matching task.
type ListFilter struct {
	Search string
	Offset int
	Limit  int
}

// Repository persists tasks.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
	// List returns tasks newest first along with the total number of matches.
	List(ctx context.Context, filter ListFilter) ([]*Task, int64, error)
}
