package transaction

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/inventory-ledger/internal/domain/money"
	"github.com/jackc/pgx/v5"
)

// Repository defines transaction persistence operations
type Repository interface {
	Get(ctx context.Context, id int64) (*Transaction, error)
	// GetMulti returns transactions in identity order
	GetMulti(ctx context.Context, offset, limit int) ([]*Transaction, error)
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	// Update applies patch to existing and persists only the touched columns
	Update(ctx context.Context, existing *Transaction, patch Patch) (*Transaction, error)
	// Remove hard-deletes the row and returns its last stored value
	Remove(ctx context.Context, existing *Transaction) (*Transaction, error)
	Search(ctx context.Context, filter SearchFilter, offset, limit int) ([]*Transaction, error)
	WithTx(tx pgx.Tx) Repository
}

// SearchFilter holds the optional, conjunctive search predicates.
// DateFrom and DateTo are inclusive. Query matches title or description
// case-insensitively.
type SearchFilter struct {
	OwnerID     *int64
	Type        *Type
	DateFrom    *time.Time
	DateTo      *time.Time
	InventoryID *int64
	Query       string
	MinTotal    *money.Money
	MaxTotal    *money.Money
}

func (f SearchFilter) IsEmpty() bool {
	return f.OwnerID == nil && f.Type == nil && f.DateFrom == nil && f.DateTo == nil &&
		f.InventoryID == nil && strings.TrimSpace(f.Query) == "" && f.MinTotal == nil && f.MaxTotal == nil
}

// ErrTransactionNotFound indicates missing transaction
type ErrTransactionNotFound struct {
	ID int64
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + strconv.FormatInt(e.ID, 10)
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// A zero target ID matches any ErrTransactionNotFound
	if t.ID == 0 {
		return true
	}
	return e.ID == t.ID
}
