package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
	"github.com/inventory-ledger/internal/platform/persistence"
)

// restoredTables is the replay order; parents come before the rows that
// reference them.
var restoredTables = []string{"users", "categories", "weights", "inventory", "transactions"}

// RestoreWriter writes snapshot rows with their original ids. It is meant to
// run inside a single database transaction.
type RestoreWriter struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewRestoreWriter(logger *slog.Logger, q persistence.Querier) *RestoreWriter {
	return &RestoreWriter{querier: q, logger: logger}
}

// Clear empties every ledger table
func (w *RestoreWriter) Clear(ctx context.Context) error {
	if _, err := w.querier.Exec(ctx, "TRUNCATE transactions, inventory, weights, categories, users RESTART IDENTITY CASCADE"); err != nil {
		w.logger.Error("Failed to clear tables", "error", err)
		return storageError("clear tables", fmt.Errorf("failed to clear tables: %w", err))
	}
	return nil
}

func (w *RestoreWriter) InsertUser(ctx context.Context, u *user.User) error {
	_, err := w.querier.Exec(ctx,
		"INSERT INTO users (id, email, full_name, is_active) VALUES ($1, $2, $3, $4)",
		u.ID, u.Email, u.FullName, u.IsActive)
	return w.insertError("users", u.ID, err)
}

func (w *RestoreWriter) InsertCategory(ctx context.Context, c *catalog.Category) error {
	_, err := w.querier.Exec(ctx,
		"INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)",
		c.ID, c.Name, c.Description)
	return w.insertError("categories", c.ID, err)
}

func (w *RestoreWriter) InsertWeight(ctx context.Context, wt *catalog.Weight) error {
	_, err := w.querier.Exec(ctx,
		"INSERT INTO weights (id, name, description) VALUES ($1, $2, $3)",
		wt.ID, wt.Name, wt.Description)
	return w.insertError("weights", wt.ID, err)
}

func (w *RestoreWriter) InsertItem(ctx context.Context, item *inventory.Item) error {
	_, err := w.querier.Exec(ctx,
		"INSERT INTO inventory ("+inventorySelectList+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		item.ID, item.Name, item.Shortname, item.Quantity, item.PurchasePrice, item.SellingPrice, item.CategoryID, item.WeightID)
	return w.insertError("inventory", item.ID, err)
}

func (w *RestoreWriter) InsertTransaction(ctx context.Context, t *transaction.Transaction) error {
	args := []interface{}{t.ID}
	for _, field := range transactionWriteOrder {
		args = append(args, fieldValue(t, field))
	}
	_, err := w.querier.Exec(ctx,
		"INSERT INTO transactions ("+transactionSelectList+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		args...)
	return w.insertError("transactions", t.ID, err)
}

// ResetSequences moves every id sequence past the highest restored id
func (w *RestoreWriter) ResetSequences(ctx context.Context) error {
	for _, table := range restoredTables {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
			table, table)
		if _, err := w.querier.Exec(ctx, query); err != nil {
			w.logger.Error("Failed to reset sequence", "table", table, "error", err)
			return storageError("reset sequence", fmt.Errorf("failed to reset sequence for %s: %w", table, err))
		}
	}
	return nil
}

func (w *RestoreWriter) insertError(table string, id int64, err error) error {
	if err == nil {
		return nil
	}
	w.logger.Error("Failed to restore row", "table", table, "id", id, "error", err)
	return storageError("restore "+table, fmt.Errorf("failed to restore %s row %d: %w", table, id, err))
}
