package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
	"github.com/panjf2000/ants/v2"
)

// Sources are the repositories a snapshot reads from
type Sources struct {
	Users        user.Repository
	Categories   catalog.CategoryRepository
	Weights      catalog.WeightRepository
	Inventory    inventory.Repository
	Transactions transaction.Repository
}

// ConsistentReader hands out table sources that all read one database snapshot
type ConsistentReader interface {
	// Pin holds a snapshot open until the returned View is closed
	Pin(ctx context.Context) (View, error)
}

// View is a pinned database snapshot
type View interface {
	// Sources opens a read transaction on the snapshot; done ends it
	Sources(ctx context.Context) (src Sources, done func(), err error)
	Close(ctx context.Context)
}

type ExporterConfig struct {
	PoolSize int
	PageSize int
}

// Exporter reads every table concurrently on a bounded worker pool. All
// workers see the same pinned snapshot, so references between tables hold.
type Exporter struct {
	reader   ConsistentReader
	pool     *ants.Pool
	pageSize int
	clock    localtime.Clock
	logger   *slog.Logger
}

func NewExporter(logger *slog.Logger, reader ConsistentReader, cfg ExporterConfig, clock localtime.Clock) (*Exporter, error) {
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}
	pool, err := ants.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create export worker pool: %w", err)
	}
	return &Exporter{
		reader:   reader,
		pool:     pool,
		pageSize: cfg.PageSize,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Export reads all tables into a document stamped with the current
// wall-clock time
func (e *Exporter) Export(ctx context.Context) (*Document, error) {
	doc := &Document{
		Timestamp:    formatTimestamp(e.clock.Now().In(localtime.Zone)),
		Users:        []UserRecord{},
		Categories:   []NamedRecord{},
		Weights:      []NamedRecord{},
		Inventory:    []InventoryRecord{},
		Transactions: []TransactionRecord{},
	}

	tasks := map[string]func(context.Context, Sources) error{
		"users": func(ctx context.Context, src Sources) error {
			return pages(ctx, e.pageSize, src.Users.List, func(u *user.User) {
				doc.Users = append(doc.Users, fromUser(u))
			})
		},
		"categories": func(ctx context.Context, src Sources) error {
			return pages(ctx, e.pageSize, src.Categories.List, func(c *catalog.Category) {
				doc.Categories = append(doc.Categories, fromCategory(c))
			})
		},
		"weights": func(ctx context.Context, src Sources) error {
			return pages(ctx, e.pageSize, src.Weights.List, func(w *catalog.Weight) {
				doc.Weights = append(doc.Weights, fromWeight(w))
			})
		},
		"inventory": func(ctx context.Context, src Sources) error {
			return pages(ctx, e.pageSize, src.Inventory.List, func(item *inventory.Item) {
				doc.Inventory = append(doc.Inventory, fromItem(item))
			})
		},
		"transactions": func(ctx context.Context, src Sources) error {
			return pages(ctx, e.pageSize, src.Transactions.GetMulti, func(t *transaction.Transaction) {
				doc.Transactions = append(doc.Transactions, fromTransaction(t))
			})
		},
	}

	view, err := e.reader.Pin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to pin export snapshot: %w", err)
	}
	defer view.Close(ctx)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(table string, err error) {
		mu.Lock()
		errs = append(errs, fmt.Errorf("failed to export %s: %w", table, err))
		mu.Unlock()
	}

	// each task only touches its own slice of doc
	for table, task := range tasks {
		table, task := table, task
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			if err := runOnView(ctx, view, task); err != nil {
				e.logger.Error("Failed to export table", "table", table, "error", err)
				record(table, err)
			}
		})
		if err != nil {
			wg.Done()
			record(table, err)
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	e.logger.Info("Exported ledger", "counts", doc.Counts())
	return doc, nil
}

// runOnView runs task in its own read transaction on view
func runOnView(ctx context.Context, view View, task func(context.Context, Sources) error) error {
	src, done, err := view.Sources(ctx)
	if err != nil {
		return err
	}
	defer done()
	return task(ctx, src)
}

// Shutdown releases the worker pool
func (e *Exporter) Shutdown() {
	e.logger.Debug("Shutting down export pool", "running_workers", e.pool.Running())
	e.pool.Release()
}

// pages walks a list operation until it returns a short page
func pages[T any](ctx context.Context, size int, list func(context.Context, int, int) ([]T, error), add func(T)) error {
	for offset := 0; ; offset += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := list(ctx, offset, size)
		if err != nil {
			return err
		}
		for _, row := range page {
			add(row)
		}
		if len(page) < size {
			return nil
		}
	}
}
