package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/auditlog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

type logDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	Timestamp      time.Time          `bson:"timestamp"`
	Action         string             `bson:"action"`
	TaskID         primitive.ObjectID `bson:"taskId"`
	UpdatedContent map[string]string  `bson:"updatedContent"`
}

// LogRepository stores audit entries in a MongoDB collection.
type LogRepository struct {
	coll *mongo.Collection
}

var _ auditlog.Repository = (*LogRepository)(nil)

// NewLogRepository creates a new audit log repository over coll.
func NewLogRepository(coll *mongo.Collection) *LogRepository {
	return &LogRepository{coll: coll}
}

// Append inserts an entry.
func (r *LogRepository) Append(ctx context.Context, entry *auditlog.Entry) error {
	oid, err := primitive.ObjectIDFromHex(entry.ID)
	if err != nil {
		return fmt.Errorf("invalid log entry id %q: %w", entry.ID, err)
	}
	taskID, err := primitive.ObjectIDFromHex(entry.TaskID)
	if err != nil {
		return fmt.Errorf("invalid task id %q: %w", entry.TaskID, err)
	}
	doc := logDocument{
		ID:             oid,
		Timestamp:      entry.Timestamp,
		Action:         string(entry.Action),
		TaskID:         taskID,
		UpdatedContent: entry.UpdatedContent,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	return nil
}

// List returns a page of entries, newest first.
func (r *LogRepository) List(ctx context.Context, offset, limit int) ([]*auditlog.Entry, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	var (
		docs  []logDocument
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, bson.M{})
		if err != nil {
			return fmt.Errorf("failed to count log entries: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		cur, err := r.coll.Find(gctx, bson.M{}, opts)
		if err != nil {
			return fmt.Errorf("failed to list log entries: %w", err)
		}
		if err := cur.All(gctx, &docs); err != nil {
			return fmt.Errorf("failed to decode log entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	entries := make([]*auditlog.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, &auditlog.Entry{
			ID:             d.ID.Hex(),
			Timestamp:      d.Timestamp,
			Action:         auditlog.Action(d.Action),
			TaskID:         d.TaskID.Hex(),
			UpdatedContent: d.UpdatedContent,
		})
	}
	return entries, total, nil
}
