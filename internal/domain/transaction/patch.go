package transaction

import (
	"time"

	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/shared"
)

// Field is the logical name of a transaction attribute
type Field string

const (
	FieldTitle         Field = "title"
	FieldDescription   Field = "description"
	FieldOwnerID       Field = "owner_id"
	FieldType          Field = "transaction_type"
	FieldAmountPerUnit Field = "amount_per_unit"
	FieldQuantity      Field = "quantity"
	FieldPurchasePrice Field = "purchase_price"
	FieldInventoryID   Field = "inventory_id"
	FieldDate          Field = "date"
)

// Patch lists the attributes a partial update overwrites. A nil field is
// absent and its stored value is left alone. Description and inventory link
// are nullable, so clearing them is spelled out with a flag.
type Patch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	OwnerID          *int64
	Type             *Type
	AmountPerUnit    *money.Money
	Quantity         *money.Quantity
	PurchasePrice    *money.Money
	InventoryID      *int64
	ClearInventory   bool
	Date             *time.Time
}

// Fields returns the touched attributes in column order.
func (p Patch) Fields() []Field {
	var fields []Field
	if p.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if p.Description != nil || p.ClearDescription {
		fields = append(fields, FieldDescription)
	}
	if p.OwnerID != nil {
		fields = append(fields, FieldOwnerID)
	}
	if p.Type != nil {
		fields = append(fields, FieldType)
	}
	if p.AmountPerUnit != nil {
		fields = append(fields, FieldAmountPerUnit)
	}
	if p.Quantity != nil {
		fields = append(fields, FieldQuantity)
	}
	if p.PurchasePrice != nil {
		fields = append(fields, FieldPurchasePrice)
	}
	if p.InventoryID != nil || p.ClearInventory {
		fields = append(fields, FieldInventoryID)
	}
	if p.Date != nil {
		fields = append(fields, FieldDate)
	}
	return fields
}

func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Validate checks the supplied values without touching any entity.
func (p Patch) Validate() error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil && p.ClearDescription {
		return shared.NewValidationError(string(FieldDescription), "cannot be set and cleared at once")
	}
	if err := validateDescription(p.Description); err != nil {
		return err
	}
	if p.OwnerID != nil && *p.OwnerID <= 0 {
		return shared.NewValidationError(string(FieldOwnerID), "must be a positive id")
	}
	if p.Type != nil && !p.Type.Valid() {
		return shared.NewValidationError(string(FieldType), "must be one of expense, earning, capital")
	}
	if p.InventoryID != nil && p.ClearInventory {
		return shared.NewValidationError(string(FieldInventoryID), "cannot be set and cleared at once")
	}
	if p.InventoryID != nil && *p.InventoryID <= 0 {
		return shared.NewValidationError(string(FieldInventoryID), "must be a positive id")
	}
	return nil
}

// ApplyPatch overwrites the attributes present in p. Nothing changes when p
// is invalid. Date is only written when the patch carries one.
func (t *Transaction) ApplyPatch(p Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.ClearDescription {
		t.Description = nil
	} else if p.Description != nil {
		description := *p.Description
		t.Description = &description
	}
	if p.OwnerID != nil {
		t.OwnerID = *p.OwnerID
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.AmountPerUnit != nil {
		t.AmountPerUnit = *p.AmountPerUnit
	}
	if p.Quantity != nil {
		t.Quantity = *p.Quantity
	}
	if p.PurchasePrice != nil {
		t.PurchasePrice = *p.PurchasePrice
	}
	if p.ClearInventory {
		t.InventoryID = nil
	} else if p.InventoryID != nil {
		inventoryID := *p.InventoryID
		t.InventoryID = &inventoryID
	}
	if p.Date != nil {
		t.Date = localtime.Naive(*p.Date)
	}

	return nil
}

// Clone returns a deep copy.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.Description != nil {
		description := *t.Description
		c.Description = &description
	}
	if t.InventoryID != nil {
		inventoryID := *t.InventoryID
		c.InventoryID = &inventoryID
	}
	return &c
}
