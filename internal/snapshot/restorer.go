package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// RestoreWriter inserts rows with their original ids
type RestoreWriter interface {
	Clear(ctx context.Context) error
	InsertUser(ctx context.Context, u *user.User) error
	InsertCategory(ctx context.Context, c *catalog.Category) error
	InsertWeight(ctx context.Context, w *catalog.Weight) error
	InsertItem(ctx context.Context, item *inventory.Item) error
	InsertTransaction(ctx context.Context, t *transaction.Transaction) error
	ResetSequences(ctx context.Context) error
}

// WriterFactory binds a RestoreWriter to an open database transaction
type WriterFactory func(tx pgx.Tx) RestoreWriter

// Restorer replays a document in foreign key order inside one transaction
type Restorer struct {
	db        persistence.Transactor
	newWriter WriterFactory
	logger    *slog.Logger
}

func NewRestorer(logger *slog.Logger, db persistence.Transactor, newWriter WriterFactory) *Restorer {
	return &Restorer{db: db, newWriter: newWriter, logger: logger}
}

// rows is a document converted to domain values
type rows struct {
	users        []*user.User
	categories   []*catalog.Category
	weights      []*catalog.Weight
	items        []*inventory.Item
	transactions []*transaction.Transaction
}

// Restore writes doc into the database. With replace set, existing rows are
// removed first. Every record is coerced before anything is written, so a
// malformed document leaves the database untouched.
func (r *Restorer) Restore(ctx context.Context, doc *Document, replace bool) (Counts, error) {
	converted, err := convert(doc)
	if err != nil {
		return Counts{}, err
	}

	err = r.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		w := r.newWriter(tx)
		if replace {
			if err := w.Clear(ctx); err != nil {
				return err
			}
		}
		for _, u := range converted.users {
			if err := w.InsertUser(ctx, u); err != nil {
				return err
			}
		}
		for _, c := range converted.categories {
			if err := w.InsertCategory(ctx, c); err != nil {
				return err
			}
		}
		for _, wt := range converted.weights {
			if err := w.InsertWeight(ctx, wt); err != nil {
				return err
			}
		}
		for _, item := range converted.items {
			if err := w.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		for _, t := range converted.transactions {
			if err := w.InsertTransaction(ctx, t); err != nil {
				return err
			}
		}
		return w.ResetSequences(ctx)
	})
	if err != nil {
		r.logger.Error("Snapshot restore rolled back", "error", err)
		return Counts{}, fmt.Errorf("failed to restore snapshot: %w", err)
	}

	counts := doc.Counts()
	r.logger.Info("Snapshot restored", "counts", counts, "replace", replace)
	return counts, nil
}

func convert(doc *Document) (*rows, error) {
	out := &rows{}
	for _, u := range doc.Users {
		out.users = append(out.users, u.toUser())
	}
	for _, c := range doc.Categories {
		out.categories = append(out.categories, c.toCategory())
	}
	for _, w := range doc.Weights {
		out.weights = append(out.weights, w.toWeight())
	}
	for _, rec := range doc.Inventory {
		item, err := rec.toItem()
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: %w", rec.ID, err)
		}
		out.items = append(out.items, item)
	}
	for _, rec := range doc.Transactions {
		t, err := rec.toTransaction()
		if err != nil {
			return nil, fmt.Errorf("transaction row %d: %w", rec.ID, err)
		}
		out.transactions = append(out.transactions, t)
	}
	return out, nil
}
