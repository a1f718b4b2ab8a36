package snapshot

import (
	"context"
	"time"
)

// ArchivedSnapshot is a document stored in the snapshot archive
type ArchivedSnapshot struct {
	ID        string
	CreatedAt time.Time
	Counts    Counts
	Payload   []byte
}

// Archive stores snapshot documents outside the ledger database
type Archive interface {
	Save(ctx context.Context, s *ArchivedSnapshot) error
	// Get returns ErrSnapshotNotFound for an unknown id
	Get(ctx context.Context, id string) (*ArchivedSnapshot, error)
	// List returns archived snapshots without payloads, newest first
	List(ctx context.Context, limit int) ([]*ArchivedSnapshot, error)
}

// Notice announces a finished backup
type Notice struct {
	ID        string    `json:"id"`
	Location  string    `json:"location"`
	Archived  bool      `json:"archived"`
	Counts    Counts    `json:"counts"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier publishes backup notices
type Notifier interface {
	SnapshotCreated(ctx context.Context, n Notice) error
}

// ErrSnapshotNotFound indicates an unknown archive id
type ErrSnapshotNotFound struct {
	ID string
}

func (e ErrSnapshotNotFound) Error() string {
	return "snapshot not found: " + e.ID
}
