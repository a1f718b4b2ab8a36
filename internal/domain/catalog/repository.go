package catalog

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// CategoryRepository defines category persistence operations
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) (*Category, error)
	Get(ctx context.Context, id int64) (*Category, error)
	// GetByName returns nil, nil when no category has the name
	GetByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context, offset, limit int) ([]*Category, error)
	WithTx(tx pgx.Tx) CategoryRepository
}

// WeightRepository defines unit persistence operations
type WeightRepository interface {
	Create(ctx context.Context, w *Weight) (*Weight, error)
	Get(ctx context.Context, id int64) (*Weight, error)
	// GetByName returns nil, nil when no unit has the name
	GetByName(ctx context.Context, name string) (*Weight, error)
	List(ctx context.Context, offset, limit int) ([]*Weight, error)
	WithTx(tx pgx.Tx) WeightRepository
}

// ErrCategoryNotFound indicates missing category
type ErrCategoryNotFound struct {
	ID int64
}

func (e ErrCategoryNotFound) Error() string {
	return "category not found: " + strconv.FormatInt(e.ID, 10)
}

// ErrWeightNotFound indicates missing unit
type ErrWeightNotFound struct {
	ID int64
}

func (e ErrWeightNotFound) Error() string {
	return "weight not found: " + strconv.FormatInt(e.ID, 10)
}

// ErrDuplicateName indicates a category or unit name that is already taken
type ErrDuplicateName struct {
	Kind string
	Name string
}

func (e ErrDuplicateName) Error() string {
	return e.Kind + " already exists: " + e.Name
}
