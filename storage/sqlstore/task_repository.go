package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/task-tracker/domain/task"
	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards so search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TaskRepository stores tasks in SQLite.
type TaskRepository struct {
	db *gorm.DB
}

var _ task.Repository = (*TaskRepository)(nil)

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Update overwrites the editable fields and the update time of a task.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	result := r.db.WithContext(ctx).Model(&task.Task{}).Where("id = ?", t.ID).Updates(map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"updated_at":  t.UpdatedAt,
	})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return task.ErrNotFound
	}
	return nil
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return task.ErrNotFound
	}
	return nil
}

// List returns a page of tasks ordered by creation time, newest first.
func (r *TaskRepository) List(ctx context.Context, filter task.ListFilter) ([]*task.Task, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter.Search).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := r.filtered(ctx, filter.Search).Order("created_at DESC, id DESC")
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	tasks := make([]*task.Task, 0)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// filtered builds a fresh query restricted to tasks matching search.
func (r *TaskRepository) filtered(ctx context.Context, search string) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&task.Task{})
	if search == "" {
		return query
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	return query.Where(
		foldFunc+`(title) LIKE ? ESCAPE '\' OR `+foldFunc+`(description) LIKE ? ESCAPE '\'`,
		pattern, pattern,
	)
}
