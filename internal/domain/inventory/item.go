package inventory

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
)

const (
	MaxNameLength      = 255
	MaxShortnameLength = 64
)

// Item is a stocked product. Transactions may point at it; deleting the item
// clears those links rather than deleting the transactions.
type Item struct {
	ID            int64
	Name          string
	Shortname     *string
	Quantity      money.Quantity
	PurchasePrice money.Money
	SellingPrice  money.Money
	CategoryID    int64
	WeightID      int64
}

// Draft carries the inputs for a new item. Nil decimals default to zero.
type Draft struct {
	Name          string
	Shortname     *string
	Quantity      *money.Quantity
	PurchasePrice *money.Money
	SellingPrice  *money.Money
	CategoryID    int64
	WeightID      int64
}

// New validates d and applies defaults
func New(d Draft) (*Item, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, shared.NewValidationError("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, shared.NewValidationError("name", "must be at most %d characters", MaxNameLength)
	}
	if d.Shortname != nil && utf8.RuneCountInString(*d.Shortname) > MaxShortnameLength {
		return nil, shared.NewValidationError("shortname", "must be at most %d characters", MaxShortnameLength)
	}
	if d.CategoryID <= 0 {
		return nil, shared.NewValidationError("category_id", "must be a positive id")
	}
	if d.WeightID <= 0 {
		return nil, shared.NewValidationError("weight_id", "must be a positive id")
	}

	item := &Item{
		Name:          name,
		Shortname:     d.Shortname,
		Quantity:      money.ZeroQuantity(),
		PurchasePrice: money.ZeroMoney(),
		SellingPrice:  money.ZeroMoney(),
		CategoryID:    d.CategoryID,
		WeightID:      d.WeightID,
	}
	if d.Quantity != nil {
		item.Quantity = *d.Quantity
	}
	if d.PurchasePrice != nil {
		item.PurchasePrice = *d.PurchasePrice
	}
	if d.SellingPrice != nil {
		item.SellingPrice = *d.SellingPrice
	}
	return item, nil
}

// Repository defines inventory persistence operations
type Repository interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	Get(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, offset, limit int) ([]*Item, error)
	// Delete removes the item; transactions linked to it keep existing with no link
	Delete(ctx context.Context, id int64) (*Item, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrItemNotFound indicates missing inventory item
type ErrItemNotFound struct {
	ID int64
}

func (e ErrItemNotFound) Error() string {
	return "inventory item not found: " + strconv.FormatInt(e.ID, 10)
}

// Is matches any ErrItemNotFound when the target ID is zero
func (e ErrItemNotFound) Is(target error) bool {
	t, ok := target.(ErrItemNotFound)
	if !ok {
		return false
	}
	return t.ID == 0 || t.ID == e.ID
}
