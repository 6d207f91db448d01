package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/auditlog"
	"github.com/example/task-tracker/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore connects to the MongoDB named by MONGO_URI using a
// throwaway database. Tests are skipped when MONGO_URI is unset.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("tasktracker_test_%d", time.Now().UnixNano())
	store, err := Connect(ctx, uri, dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = store.db.Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func TestSearchFilter(t *testing.T) {
	assert.Empty(t, searchFilter(""))

	filter := searchFilter("a.b")
	or, ok := filter["$or"]
	require.True(t, ok)
	assert.Len(t, or, 2)
}

func TestTaskRepository_Lifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	created := &task.Task{ID: task.NewID(), Title: "Plan Sprint", Description: "a.b", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Tasks().Create(ctx, created))

	found, err := store.Tasks().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)

	tasks, total, err := store.Tasks().List(ctx, task.ListFilter{Search: "sprint", Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, tasks, 1)

	// The dot must not act as a regex wildcard.
	_, total, err = store.Tasks().List(ctx, task.ListFilter{Search: "axb"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	created.Title = "Plan Retro"
	require.NoError(t, store.Tasks().Update(ctx, created))

	require.NoError(t, store.Tasks().Delete(ctx, created.ID))
	_, err = store.Tasks().FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
	assert.ErrorIs(t, store.Tasks().Delete(ctx, created.ID), task.ErrNotFound)
}

func TestTaskRepository_MalformedID(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Tasks().FindByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, task.ErrMalformedID)
}

func TestLogRepository_AppendAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)
	taskID := task.NewID()

	require.NoError(t, store.Logs().Append(ctx, &auditlog.Entry{
		ID: task.NewID(), Timestamp: base, Action: auditlog.ActionCreate, TaskID: taskID,
		UpdatedContent: map[string]string{"title": "t", "description": "d"},
	}))
	require.NoError(t, store.Logs().Append(ctx, &auditlog.Entry{
		ID: task.NewID(), Timestamp: base.Add(time.Second), Action: auditlog.ActionDelete, TaskID: taskID,
	}))

	entries, total, err := store.Logs().List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, auditlog.ActionDelete, entries[0].Action)
	assert.Nil(t, entries[0].UpdatedContent)
	assert.Equal(t, taskID, entries[1].TaskID)
}
