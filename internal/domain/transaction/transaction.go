package transaction

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/shared"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1024
)

// Type classifies a ledger entry
type Type string

const (
	TypeExpense Type = "expense"
	TypeEarning Type = "earning"
	TypeCapital Type = "capital"
)

// Valid reports whether t is one of the known types
func (t Type) Valid() bool {
	switch t {
	case TypeExpense, TypeEarning, TypeCapital:
		return true
	}
	return false
}

// ParseType reads a transaction type. Values are lowercase and matched exactly.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", shared.NewValidationError(string(FieldType), "must be one of expense, earning, capital")
	}
	return t, nil
}

// Transaction is one recorded financial event, optionally tied to an inventory item
type Transaction struct {
	ID            int64
	Title         string
	Description   *string
	OwnerID       int64
	Type          Type
	AmountPerUnit money.Money
	Quantity      money.Quantity
	PurchasePrice money.Money
	InventoryID   *int64
	Date          time.Time // naive GMT+8 wall-clock time
}

// ComputeTotal returns amount_per_unit × quantity rounded half-up to two places.
func (t *Transaction) ComputeTotal() money.Money {
	return t.AmountPerUnit.Mul(t.Quantity)
}

// Draft carries the inputs for a new transaction. Nil fields take their defaults.
type Draft struct {
	Title         string
	Description   *string
	OwnerID       int64
	Type          Type
	AmountPerUnit *money.Money
	Quantity      *money.Quantity
	PurchasePrice *money.Money
	InventoryID   *int64
	Date          *time.Time
}

// New builds a transaction from a draft, applying defaults. A missing date
// becomes the current regional wall-clock time read from clock.
func New(d Draft, clock localtime.Clock) (*Transaction, error) {
	if err := validateTitle(d.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(d.Description); err != nil {
		return nil, err
	}
	if d.OwnerID <= 0 {
		return nil, shared.NewValidationError(string(FieldOwnerID), "must be a positive id")
	}
	if d.InventoryID != nil && *d.InventoryID <= 0 {
		return nil, shared.NewValidationError(string(FieldInventoryID), "must be a positive id")
	}

	t := &Transaction{
		Title:         d.Title,
		Description:   d.Description,
		OwnerID:       d.OwnerID,
		Type:          TypeExpense,
		AmountPerUnit: money.ZeroMoney(),
		Quantity:      money.OneQuantity(),
		PurchasePrice: money.ZeroMoney(),
		InventoryID:   d.InventoryID,
	}
	if d.Type != "" {
		if !d.Type.Valid() {
			return nil, shared.NewValidationError(string(FieldType), "must be one of expense, earning, capital")
		}
		t.Type = d.Type
	}
	if d.AmountPerUnit != nil {
		t.AmountPerUnit = *d.AmountPerUnit
	}
	if d.Quantity != nil {
		t.Quantity = *d.Quantity
	}
	if d.PurchasePrice != nil {
		t.PurchasePrice = *d.PurchasePrice
	}
	if d.Date != nil {
		t.Date = localtime.Naive(*d.Date)
	} else {
		t.Date = localtime.Now(clock)
	}

	return t, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return shared.NewValidationError(string(FieldTitle), "must not be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return shared.NewValidationError(string(FieldTitle), "must be at most %d characters", MaxTitleLength)
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return shared.NewValidationError(string(FieldDescription), "must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}
