package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field limits applied after sanitization.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Task represents a tracked unit of work.
type Task struct {
	ID          string    `json:"_id" gorm:"primaryKey;size:24"`
	Title       string    `json:"title" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:500;not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index;not null"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"not null"`
}

// TableName returns the table name for GORM.
func (Task) TableName() string {
	return "tasks"
}

// Content returns the user-editable fields of the task.
func (t *Task) Content() map[string]string {
	return map[string]string{
		"title":       t.Title,
		"description": t.Description,
	}
}

// NewID generates a new task identifier.
// Identifiers are 24 hex characters so both storage backends share one format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed task identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
