package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inventory-ledger/internal/snapshot"
	"github.com/jackc/pgx/v5"
)

// TxStarter opens transactions with explicit options; *pgxpool.Pool satisfies it
type TxStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var snapshotTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// SnapshotReader exports one REPEATABLE READ snapshot and lets every export
// worker import it into its own read-only transaction
type SnapshotReader struct {
	db     TxStarter
	repos  snapshot.Sources
	logger *slog.Logger
}

func NewSnapshotReader(logger *slog.Logger, db TxStarter, repos snapshot.Sources) *SnapshotReader {
	return &SnapshotReader{
		db:     db,
		repos:  repos,
		logger: logger,
	}
}

// Pin opens the leader transaction whose snapshot the workers share. The
// snapshot stays importable until the returned view is closed.
func (r *SnapshotReader) Pin(ctx context.Context) (snapshot.View, error) {
	leader, err := r.db.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		r.logger.Error("Failed to begin snapshot transaction", "error", err)
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	var id string
	if err := leader.QueryRow(ctx, "SELECT pg_export_snapshot()").Scan(&id); err != nil {
		r.rollback(ctx, leader)
		r.logger.Error("Failed to export snapshot", "error", err)
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}

	r.logger.Debug("Pinned export snapshot", "snapshot_id", id)
	return &pinnedView{reader: r, leader: leader, id: id}, nil
}

func (r *SnapshotReader) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.logger.Warn("Failed to end snapshot transaction", "error", err)
	}
}

type pinnedView struct {
	reader *SnapshotReader
	leader pgx.Tx
	id     string
}

// Sources opens a worker transaction on the pinned snapshot and binds the
// repositories to it
func (v *pinnedView) Sources(ctx context.Context) (snapshot.Sources, func(), error) {
	r := v.reader
	tx, err := r.db.BeginTx(ctx, snapshotTxOptions)
	if err != nil {
		return snapshot.Sources{}, nil, fmt.Errorf("failed to begin export transaction: %w", err)
	}

	// SET TRANSACTION takes no bind parameters
	stmt := "SET TRANSACTION SNAPSHOT '" + strings.ReplaceAll(v.id, "'", "''") + "'"
	if _, err := tx.Exec(ctx, stmt); err != nil {
		r.rollback(ctx, tx)
		return snapshot.Sources{}, nil, fmt.Errorf("failed to import snapshot %s: %w", v.id, err)
	}

	src := snapshot.Sources{
		Users:        r.repos.Users.WithTx(tx),
		Categories:   r.repos.Categories.WithTx(tx),
		Weights:      r.repos.Weights.WithTx(tx),
		Inventory:    r.repos.Inventory.WithTx(tx),
		Transactions: r.repos.Transactions.WithTx(tx),
	}
	return src, func() { r.rollback(ctx, tx) }, nil
}

func (v *pinnedView) Close(ctx context.Context) {
	v.reader.rollback(ctx, v.leader)
}
