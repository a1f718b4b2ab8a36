package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inventory-ledger/internal/snapshot"
)

const (
	// SnapshotCollectionName is the default name of the snapshot archive collection
	SnapshotCollectionName = "ledger_snapshots"

	defaultListLimit = 20
)

// snapshotDocument is the stored form of an archived snapshot. The payload
// is kept as the exact JSON text the tool wrote to disk.
type snapshotDocument struct {
	ID        string          `bson:"_id"`
	CreatedAt time.Time       `bson:"created_at"`
	Counts    snapshot.Counts `bson:"counts"`
	Payload   string          `bson:"payload,omitempty"`
}

// SnapshotArchive implements snapshot.Archive on a MongoDB collection
type SnapshotArchive struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewSnapshotArchive creates a snapshot archive backed by collection
func NewSnapshotArchive(logger *slog.Logger, collection *mongo.Collection) *SnapshotArchive {
	return &SnapshotArchive{
		collection: collection,
		logger:     logger,
	}
}

// Save stores a snapshot under its id
func (a *SnapshotArchive) Save(ctx context.Context, s *snapshot.ArchivedSnapshot) error {
	doc := snapshotDocument{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		Counts:    s.Counts,
		Payload:   string(s.Payload),
	}

	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		a.logger.Error("Failed to archive snapshot",
			"id", s.ID,
			"error", err)
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}

	a.logger.Info("Snapshot archived", "id", s.ID, "collection", a.collection.Name())
	return nil
}

// Get retrieves an archived snapshot with its payload.
// Returns ErrSnapshotNotFound if no snapshot has the id.
func (a *SnapshotArchive) Get(ctx context.Context, id string) (*snapshot.ArchivedSnapshot, error) {
	var doc snapshotDocument
	err := a.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, snapshot.ErrSnapshotNotFound{ID: id}
		}
		a.logger.Error("Failed to get archived snapshot",
			"id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get archived snapshot: %w", err)
	}

	return doc.toSnapshot(), nil
}

// List returns archived snapshots without payloads, newest first
func (a *SnapshotArchive) List(ctx context.Context, limit int) ([]*snapshot.ArchivedSnapshot, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"payload": 0})

	cursor, err := a.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		a.logger.Error("Failed to list archived snapshots", "error", err)
		return nil, fmt.Errorf("failed to list archived snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []snapshotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		a.logger.Error("Failed to decode archived snapshots", "error", err)
		return nil, fmt.Errorf("failed to decode archived snapshots: %w", err)
	}

	out := make([]*snapshot.ArchivedSnapshot, len(docs))
	for i := range docs {
		out[i] = docs[i].toSnapshot()
	}
	return out, nil
}

func (d snapshotDocument) toSnapshot() *snapshot.ArchivedSnapshot {
	s := &snapshot.ArchivedSnapshot{
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
		Counts:    d.Counts,
	}
	if d.Payload != "" {
		s.Payload = []byte(d.Payload)
	}
	return s
}
