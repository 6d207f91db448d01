package sqlstore

import (
	"context"
	"fmt"

	"github.com/example/task-tracker/domain/auditlog"
	"gorm.io/gorm"
)

// LogRepository stores audit entries in SQLite.
type LogRepository struct {
	db *gorm.DB
}

var _ auditlog.Repository = (*LogRepository)(nil)

// NewLogRepository creates a new audit log repository.
func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Append inserts an entry.
func (r *LogRepository) Append(ctx context.Context, entry *auditlog.Entry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

// List returns a page of entries, newest first.
func (r *LogRepository) List(ctx context.Context, offset, limit int) ([]*auditlog.Entry, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&auditlog.Entry{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	query := r.db.WithContext(ctx).Order("timestamp DESC, id DESC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	entries := make([]*auditlog.Entry, 0)
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list log entries: %w", err)
	}
	return entries, total, nil
}
