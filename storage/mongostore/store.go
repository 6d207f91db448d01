package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/auditlog"
	"github.com/example/task-tracker/domain/task"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Collection names.
const (
	TasksCollection = "tasks"
	LogsCollection  = "logs"
)

// Store is the MongoDB backend for tasks and audit entries.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	tasks  *TaskRepository
	logs   *LogRepository
}

// Connect dials MongoDB, verifies the primary is reachable and ensures indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second).
		SetSocketTimeout(45 * time.Second).
		SetConnectTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		db:     db,
		tasks:  NewTaskRepository(db.Collection(TasksCollection)),
		logs:   NewLogRepository(db.Collection(LogsCollection)),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.db.Collection(TasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}
	if _, err := s.db.Collection(LogsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create logs index: %w", err)
	}
	return nil
}

// Tasks returns the task repository.
func (s *Store) Tasks() task.Repository {
	return s.tasks
}

// Logs returns the audit log repository.
func (s *Store) Logs() auditlog.Repository {
	return s.logs
}

// Ping verifies the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
