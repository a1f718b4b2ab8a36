package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// namedTable runs the shared queries of the two name/description tables.
// categories and weights only differ by table name.
type namedTable struct {
	querier persistence.Querier
	logger  *slog.Logger
	timeout time.Duration
	table   string
}

type namedRow struct {
	ID          int64
	Name        string
	Description *string
}

func (n namedTable) create(ctx context.Context, name string, description *string) (*namedRow, error) {
	ctx, cancel := persistence.WithTimeout(ctx, n.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		INSERT INTO %s (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description
	`, n.table)

	return scanNamedRow(n.querier.QueryRow(ctx, query, name, description))
}

func (n namedTable) get(ctx context.Context, column string, value interface{}) (*namedRow, error) {
	ctx, cancel := persistence.WithTimeout(ctx, n.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, name, description
		FROM %s
		WHERE %s = $1
	`, n.table, column)

	return scanNamedRow(n.querier.QueryRow(ctx, query, value))
}

func (n namedTable) list(ctx context.Context, offset, limit int) ([]*namedRow, error) {
	ctx, cancel := persistence.WithTimeout(ctx, n.timeout)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT id, name, description
		FROM %s
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, n.table)

	rows, err := n.querier.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*namedRow, 0)
	for rows.Next() {
		row, err := scanNamedRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func scanNamedRow(row rowScanner) (*namedRow, error) {
	var n namedRow
	if err := row.Scan(&n.ID, &n.Name, &n.Description); err != nil {
		return nil, err
	}
	return &n, nil
}

// CategoryRepository implements the catalog.CategoryRepository interface for PostgreSQL
type CategoryRepository struct {
	namedTable
}

func NewCategoryRepository(logger *slog.Logger, db *persistence.PostgresDB) catalog.CategoryRepository {
	return &CategoryRepository{namedTable{querier: db.Pool(), logger: logger, timeout: db.OperationTimeout(), table: "categories"}}
}

func (r *CategoryRepository) WithTx(tx pgx.Tx) catalog.CategoryRepository {
	t := r.namedTable
	t.querier = tx
	return &CategoryRepository{t}
}

func (r *CategoryRepository) Create(ctx context.Context, c *catalog.Category) (*catalog.Category, error) {
	row, err := r.create(ctx, c.Name, c.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, catalog.ErrDuplicateName{Kind: "category", Name: c.Name}
		}
		r.logger.Error("Failed to create category", "name", c.Name, "error", err)
		return nil, storageError("create category", fmt.Errorf("failed to create category: %w", err))
	}
	return (*catalog.Category)(row), nil
}

func (r *CategoryRepository) Get(ctx context.Context, id int64) (*catalog.Category, error) {
	row, err := r.get(ctx, "id", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrCategoryNotFound{ID: id}
		}
		r.logger.Error("Failed to get category", "id", id, "error", err)
		return nil, storageError("get category", fmt.Errorf("failed to get category: %w", err))
	}
	return (*catalog.Category)(row), nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*catalog.Category, error) {
	row, err := r.get(ctx, "name", name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get category by name", "name", name, "error", err)
		return nil, storageError("get category by name", fmt.Errorf("failed to get category by name: %w", err))
	}
	return (*catalog.Category)(row), nil
}

func (r *CategoryRepository) List(ctx context.Context, offset, limit int) ([]*catalog.Category, error) {
	rows, err := r.list(ctx, offset, limit)
	if err != nil {
		r.logger.Error("Failed to list categories", "error", err)
		return nil, storageError("list categories", fmt.Errorf("failed to list categories: %w", err))
	}
	categories := make([]*catalog.Category, len(rows))
	for i, row := range rows {
		categories[i] = (*catalog.Category)(row)
	}
	return categories, nil
}

// WeightRepository implements the catalog.WeightRepository interface for PostgreSQL
type WeightRepository struct {
	namedTable
}

func NewWeightRepository(logger *slog.Logger, db *persistence.PostgresDB) catalog.WeightRepository {
	return &WeightRepository{namedTable{querier: db.Pool(), logger: logger, timeout: db.OperationTimeout(), table: "weights"}}
}

func (r *WeightRepository) WithTx(tx pgx.Tx) catalog.WeightRepository {
	t := r.namedTable
	t.querier = tx
	return &WeightRepository{t}
}

func (r *WeightRepository) Create(ctx context.Context, w *catalog.Weight) (*catalog.Weight, error) {
	row, err := r.create(ctx, w.Name, w.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, catalog.ErrDuplicateName{Kind: "weight", Name: w.Name}
		}
		r.logger.Error("Failed to create weight", "name", w.Name, "error", err)
		return nil, storageError("create weight", fmt.Errorf("failed to create weight: %w", err))
	}
	return (*catalog.Weight)(row), nil
}

func (r *WeightRepository) Get(ctx context.Context, id int64) (*catalog.Weight, error) {
	row, err := r.get(ctx, "id", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrWeightNotFound{ID: id}
		}
		r.logger.Error("Failed to get weight", "id", id, "error", err)
		return nil, storageError("get weight", fmt.Errorf("failed to get weight: %w", err))
	}
	return (*catalog.Weight)(row), nil
}

func (r *WeightRepository) GetByName(ctx context.Context, name string) (*catalog.Weight, error) {
	row, err := r.get(ctx, "name", name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get weight by name", "name", name, "error", err)
		return nil, storageError("get weight by name", fmt.Errorf("failed to get weight by name: %w", err))
	}
	return (*catalog.Weight)(row), nil
}

func (r *WeightRepository) List(ctx context.Context, offset, limit int) ([]*catalog.Weight, error) {
	rows, err := r.list(ctx, offset, limit)
	if err != nil {
		r.logger.Error("Failed to list weights", "error", err)
		return nil, storageError("list weights", fmt.Errorf("failed to list weights: %w", err))
	}
	weights := make([]*catalog.Weight, len(rows))
	for i, row := range rows {
		weights[i] = (*catalog.Weight)(row)
	}
	return weights, nil
}
