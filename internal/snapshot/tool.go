package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/localtime"
)

const fileTimeLayout = "20060102_150405"

// ErrArchiveDisabled is returned when an archive operation runs without an archive
var ErrArchiveDisabled = errors.New("snapshot archive is not configured")

type exporter interface {
	Export(ctx context.Context) (*Document, error)
}

type restorer interface {
	Restore(ctx context.Context, doc *Document, replace bool) (Counts, error)
}

// Tool runs the operator commands: backup, restore and archive listing.
// Archive and notifier are optional.
type Tool struct {
	exporter exporter
	restorer restorer
	archive  Archive
	notifier Notifier
	dir      string
	clock    localtime.Clock
	logger   *slog.Logger
}

func NewTool(logger *slog.Logger, exp exporter, res restorer, archive Archive, notifier Notifier, dir string, clock localtime.Clock) *Tool {
	return &Tool{
		exporter: exp,
		restorer: res,
		archive:  archive,
		notifier: notifier,
		dir:      dir,
		clock:    clock,
		logger:   logger,
	}
}

type BackupOptions struct {
	// Out overrides the generated file name; relative names land in the snapshot dir
	Out     string
	Archive bool
}

type BackupResult struct {
	ID     string
	Path   string
	Counts Counts
}

// Backup exports the ledger to a file and optionally archives it
func (t *Tool) Backup(ctx context.Context, opts BackupOptions) (*BackupResult, error) {
	if opts.Archive && t.archive == nil {
		return nil, ErrArchiveDisabled
	}

	doc, err := t.exporter.Export(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	now := t.clock.Now()
	path := opts.Out
	if path == "" {
		path = "database_backup_" + now.In(localtime.Zone).Format(fileTimeLayout) + ".json"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(t.dir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write snapshot file: %w", err)
	}

	result := &BackupResult{ID: uuid.New().String(), Path: path, Counts: doc.Counts()}
	t.logger.Info("Snapshot written", "id", result.ID, "path", path, "counts", result.Counts)

	if opts.Archive {
		err := t.archive.Save(ctx, &ArchivedSnapshot{
			ID:        result.ID,
			CreatedAt: now.UTC(),
			Counts:    result.Counts,
			Payload:   payload,
		})
		if err != nil {
			return nil, fmt.Errorf("snapshot written to %s but not archived: %w", path, err)
		}
	}

	if t.notifier != nil {
		notice := Notice{
			ID:        result.ID,
			Location:  path,
			Archived:  opts.Archive,
			Counts:    result.Counts,
			CreatedAt: now.UTC(),
		}
		// notice failures never fail the backup
		if err := t.notifier.SnapshotCreated(ctx, notice); err != nil {
			t.logger.Warn("Failed to publish snapshot notice", "id", result.ID, "error", err)
		}
	}

	return result, nil
}

// RestoreFile replays a snapshot file. A relative name that does not exist
// is looked up in the snapshot dir.
func (t *Tool) RestoreFile(ctx context.Context, path string, replace bool) (Counts, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !filepath.IsAbs(path) {
		data, err = os.ReadFile(filepath.Join(t.dir, path))
	}
	if err != nil {
		return Counts{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return t.restore(ctx, data, replace)
}

// RestoreArchived replays an archived snapshot
func (t *Tool) RestoreArchived(ctx context.Context, id string, replace bool) (Counts, error) {
	if t.archive == nil {
		return Counts{}, ErrArchiveDisabled
	}
	archived, err := t.archive.Get(ctx, id)
	if err != nil {
		return Counts{}, err
	}
	return t.restore(ctx, archived.Payload, replace)
}

// ListArchive returns the newest archived snapshots
func (t *Tool) ListArchive(ctx context.Context, limit int) ([]*ArchivedSnapshot, error) {
	if t.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return t.archive.List(ctx, limit)
}

func (t *Tool) restore(ctx context.Context, data []byte, replace bool) (Counts, error) {
	doc, err := Decode(data)
	if err != nil {
		return Counts{}, err
	}
	return t.restorer.Restore(ctx, doc, replace)
}
