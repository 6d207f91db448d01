package auditlog

import (
	"context"
	"time"
)

// Action identifies the mutation an entry records.
type Action string

const (
	ActionCreate Action = "Create Task"
	ActionUpdate Action = "Update Task"
	ActionDelete Action = "Delete Task"
)

// Entry is an append-only audit record of a task mutation.
// TaskID may reference a task that no longer exists.
type Entry struct {
	ID             string            `json:"_id" gorm:"primaryKey;size:24"`
	Timestamp      time.Time         `json:"timestamp" gorm:"index;not null"`
	Action         Action            `json:"action" gorm:"size:16;not null"`
	TaskID         string            `json:"taskId" gorm:"size:24;index;not null"`
	UpdatedContent map[string]string `json:"updatedContent" gorm:"serializer:json"`
}

// TableName returns the table name for GORM.
func (Entry) TableName() string {
	return "logs"
}

// Repository stores audit entries. Entries are never updated or removed.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	// List returns entries newest first along with the total count.
	// A zero limit returns every entry.
	List(ctx context.Context, offset, limit int) ([]*Entry, int64, error)
}
