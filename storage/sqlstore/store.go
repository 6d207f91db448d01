package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/task-tracker/domain/auditlog"
	"github.com/example/task-tracker/domain/task"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// driverName is the sqlite3 driver extended with foldFunc.
const driverName = "sqlite3_tasktracker"

// foldFunc lower-cases its argument with full Unicode case mapping.
// The built-in lower() folds ASCII only.
const foldFunc = "unicode_lower"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(foldFunc, strings.ToLower, true)
		},
	})
}

// Store is the GORM/SQLite backend for tasks and audit entries.
type Store struct {
	db    *gorm.DB
	tasks *TaskRepository
	logs  *LogRepository
}

// Open opens the SQLite database at path and creates the tables if needed.
// When debug is set every SQL statement is logged.
func Open(path string, debug bool) (*Store, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: driverName,
		DSN:        path,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return New(db)
}

// New wraps a GORM connection opened by Open and migrates the schema.
// Search relies on the driver registered by this package.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&task.Task{}, &auditlog.Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{
		db:    db,
		tasks: NewTaskRepository(db),
		logs:  NewLogRepository(db),
	}, nil
}

// Tasks returns the task repository.
func (s *Store) Tasks() task.Repository {
	return s.tasks
}

// Logs returns the audit log repository.
func (s *Store) Logs() auditlog.Repository {
	return s.logs
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
