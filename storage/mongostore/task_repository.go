package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/example/task-tracker/domain/task"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *taskDocument) toTask() *task.Task {
	return &task.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// TaskRepository stores tasks in a MongoDB collection.
type TaskRepository struct {
	coll *mongo.Collection
}

var _ task.Repository = (*TaskRepository)(nil)

// NewTaskRepository creates a new task repository over coll.
func NewTaskRepository(coll *mongo.Collection) *TaskRepository {
	return &TaskRepository{coll: coll}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return task.ErrMalformedID
	}
	doc := taskDocument{
		ID:          oid,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, task.ErrMalformedID
	}
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, task.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return doc.toTask(), nil
}

// Update overwrites the editable fields and the update time of a task.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return task.ErrMalformedID
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"updatedAt":   t.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return task.ErrNotFound
	}
	return nil
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return task.ErrMalformedID
	}
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return task.ErrNotFound
	}
	return nil
}

// List returns a page of tasks ordered by creation time, newest first.
// The page and the total are fetched concurrently.
func (r *TaskRepository) List(ctx context.Context, filter task.ListFilter) ([]*task.Task, int64, error) {
	query := searchFilter(filter.Search)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	var (
		docs  []taskDocument
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, query)
		if err != nil {
			return fmt.Errorf("failed to count tasks: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		cur, err := r.coll.Find(gctx, query, opts)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if err := cur.All(gctx, &docs); err != nil {
			return fmt.Errorf("failed to decode tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	tasks := make([]*task.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].toTask())
	}
	return tasks, total, nil
}

// searchFilter matches search as a literal, case-insensitive substring of
// the title or the description.
func searchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}}
}
