package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const (
	inventoryCategoryFK = "inventory_category_id_fkey"
	inventoryWeightFK   = "inventory_weight_id_fkey"

	inventorySelectList = "id, name, shortname, quantity, purchase_price, selling_price, category_id, weight_id"
)

// InventoryRepository implements the inventory.Repository interface for PostgreSQL
type InventoryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
	timeout time.Duration
}

func NewInventoryRepository(logger *slog.Logger, db *persistence.PostgresDB) inventory.Repository {
	return &InventoryRepository{
		querier: db.Pool(),
		logger:  logger,
		timeout: db.OperationTimeout(),
	}
}

func (r *InventoryRepository) WithTx(tx pgx.Tx) inventory.Repository {
	return &InventoryRepository{
		querier: tx,
		logger:  r.logger,
		timeout: r.timeout,
	}
}

// Create stores a new item. Unknown category or unit ids yield a ReferenceError.
func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) (*inventory.Item, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO inventory (name, shortname, quantity, purchase_price, selling_price, category_id, weight_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + inventorySelectList

	created, err := scanItem(r.querier.QueryRow(ctx, query,
		item.Name,
		item.Shortname,
		item.Quantity,
		item.PurchasePrice,
		item.SellingPrice,
		item.CategoryID,
		item.WeightID,
	))
	if err != nil {
		refs := map[string]shared.ReferenceError{
			inventoryCategoryFK: {Field: "category_id", ID: item.CategoryID},
			inventoryWeightFK:   {Field: "weight_id", ID: item.WeightID},
		}
		if domainErr := constraintError(err, refs); domainErr != nil {
			return nil, domainErr
		}
		r.logger.Error("Failed to create inventory item", "name", item.Name, "error", err)
		return nil, storageError("create inventory item", fmt.Errorf("failed to create inventory item: %w", err))
	}
	return created, nil
}

// Get retrieves an item by ID
func (r *InventoryRepository) Get(ctx context.Context, id int64) (*inventory.Item, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := "SELECT " + inventorySelectList + " FROM inventory WHERE id = $1"

	item, err := scanItem(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrItemNotFound{ID: id}
		}
		r.logger.Error("Failed to get inventory item", "id", id, "error", err)
		return nil, storageError("get inventory item", fmt.Errorf("failed to get inventory item: %w", err))
	}
	return item, nil
}

// List returns a page of items in identity order
func (r *InventoryRepository) List(ctx context.Context, offset, limit int) ([]*inventory.Item, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := "SELECT " + inventorySelectList + " FROM inventory ORDER BY id LIMIT $1 OFFSET $2"

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list inventory", "error", err)
		return nil, storageError("list inventory", fmt.Errorf("failed to list inventory: %w", err))
	}
	defer rows.Close()

	items := make([]*inventory.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, storageError("list inventory", fmt.Errorf("failed to scan inventory item: %w", err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list inventory", fmt.Errorf("error iterating inventory: %w", err))
	}
	return items, nil
}

// Delete removes an item. The ON DELETE SET NULL key clears inventory_id on
// linked transactions; they are not deleted.
func (r *InventoryRepository) Delete(ctx context.Context, id int64) (*inventory.Item, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := "DELETE FROM inventory WHERE id = $1 RETURNING " + inventorySelectList

	item, err := scanItem(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrItemNotFound{ID: id}
		}
		r.logger.Error("Failed to delete inventory item", "id", id, "error", err)
		return nil, storageError("delete inventory item", fmt.Errorf("failed to delete inventory item: %w", err))
	}
	return item, nil
}

func scanItem(row rowScanner) (*inventory.Item, error) {
	var item inventory.Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Shortname,
		&item.Quantity,
		&item.PurchasePrice,
		&item.SellingPrice,
		&item.CategoryID,
		&item.WeightID,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
