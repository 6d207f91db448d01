package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/auditlog"
	"github.com/example/task-tracker/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates an in-memory SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func newTask(title, description string, createdAt time.Time) *task.Task {
	return &task.Task{
		ID:          task.NewID(),
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestTaskRepository_CreateAndFind(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := newTask("Write report", "Quarterly numbers", time.Now())
	require.NoError(t, store.Tasks().Create(ctx, created))

	found, err := store.Tasks().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)
	assert.Equal(t, created.Description, found.Description)
	assert.WithinDuration(t, created.CreatedAt, found.CreatedAt, time.Millisecond)
}

func TestTaskRepository_FindByID_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Tasks().FindByID(context.Background(), task.NewID())
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestTaskRepository_Update(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := newTask("Old", "Old description", time.Now().Add(-time.Hour))
	require.NoError(t, store.Tasks().Create(ctx, created))

	created.Title = "New"
	created.UpdatedAt = time.Now()
	require.NoError(t, store.Tasks().Update(ctx, created))

	found, err := store.Tasks().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", found.Title)
	assert.True(t, found.UpdatedAt.After(found.CreatedAt))

	missing := newTask("x", "y", time.Now())
	assert.ErrorIs(t, store.Tasks().Update(ctx, missing), task.ErrNotFound)
}

func TestTaskRepository_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := newTask("Delete me", "Soon gone", time.Now())
	require.NoError(t, store.Tasks().Create(ctx, created))

	require.NoError(t, store.Tasks().Delete(ctx, created.ID))
	_, err := store.Tasks().FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)

	assert.ErrorIs(t, store.Tasks().Delete(ctx, created.ID), task.ErrNotFound)
}

func TestTaskRepository_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	require.NoError(t, store.Tasks().Create(ctx, newTask("Équipe meeting", "Straße planning", base.Add(-time.Minute))))
	titles := []string{"Plan Sprint", "Buy milk", "Review 100% coverage", "Fix under_score bug"}
	for i, title := range titles {
		require.NoError(t, store.Tasks().Create(ctx, newTask(title, "details", base.Add(time.Duration(i)*time.Minute))))
	}

	tests := []struct {
		name      string
		filter    task.ListFilter
		wantTotal int64
		want      []string
	}{
		{
			name:      "all newest first",
			filter:    task.ListFilter{},
			wantTotal: 5,
			want:      []string{"Fix under_score bug", "Review 100% coverage", "Buy milk", "Plan Sprint", "Équipe meeting"},
		},
		{
			name:      "second page",
			filter:    task.ListFilter{Offset: 2, Limit: 2},
			wantTotal: 5,
			want:      []string{"Buy milk", "Plan Sprint"},
		},
		{
			name:      "case insensitive search",
			filter:    task.ListFilter{Search: "sprint"},
			wantTotal: 1,
			want:      []string{"Plan Sprint"},
		},
		{
			name:      "lowercase term matches accented capital",
			filter:    task.ListFilter{Search: "équipe"},
			wantTotal: 1,
			want:      []string{"Équipe meeting"},
		},
		{
			name:      "uppercase term matches accented capital",
			filter:    task.ListFilter{Search: "ÉQUIPE"},
			wantTotal: 1,
			want:      []string{"Équipe meeting"},
		},
		{
			name:      "non-ascii description match",
			filter:    task.ListFilter{Search: "straße"},
			wantTotal: 1,
			want:      []string{"Équipe meeting"},
		},
		{
			name:      "percent matches literally",
			filter:    task.ListFilter{Search: "0%"},
			wantTotal: 1,
			want:      []string{"Review 100% coverage"},
		},
		{
			name:      "underscore matches literally",
			filter:    task.ListFilter{Search: "r_s"},
			wantTotal: 1,
			want:      []string{"Fix under_score bug"},
		},
		{
			name:      "description match",
			filter:    task.ListFilter{Search: "DETAILS", Limit: 1},
			wantTotal: 4,
			want:      []string{"Fix under_score bug"},
		},
		{
			name:      "no match",
			filter:    task.ListFilter{Search: "nothing"},
			wantTotal: 0,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, total, err := store.Tasks().List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			got := make([]string, 0, len(tasks))
			for _, tk := range tasks {
				got = append(got, tk.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogRepository_AppendAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	taskID := task.NewID()

	entries := []*auditlog.Entry{
		{ID: task.NewID(), Timestamp: base, Action: auditlog.ActionCreate, TaskID: taskID,
			UpdatedContent: map[string]string{"title": "a", "description": "b"}},
		{ID: task.NewID(), Timestamp: base.Add(time.Minute), Action: auditlog.ActionUpdate, TaskID: taskID,
			UpdatedContent: map[string]string{"description": "c"}},
		{ID: task.NewID(), Timestamp: base.Add(2 * time.Minute), Action: auditlog.ActionDelete, TaskID: taskID},
	}
	for _, e := range entries {
		require.NoError(t, store.Logs().Append(ctx, e))
	}

	got, total, err := store.Logs().List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 2)
	assert.Equal(t, auditlog.ActionDelete, got[0].Action)
	assert.Nil(t, got[0].UpdatedContent)
	assert.Equal(t, auditlog.ActionUpdate, got[1].Action)
	assert.Equal(t, map[string]string{"description": "c"}, got[1].UpdatedContent)

	rest, _, err := store.Logs().List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, auditlog.ActionCreate, rest[0].Action)
}

func TestStore_Ping(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
