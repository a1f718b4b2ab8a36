package normalize

import (
	"encoding/json"

	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/transaction"
)

// CreateInput is the raw body of a create request. Decimal and date fields are
// kept raw so numbers, numeric strings and null can all be told apart.
type CreateInput struct {
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	OwnerID         int64           `json:"owner_id"`
	TransactionType string          `json:"transaction_type"`
	AmountPerUnit   json.RawMessage `json:"amount_per_unit"`
	Quantity        json.RawMessage `json:"quantity"`
	PurchasePrice   json.RawMessage `json:"purchase_price"`
	InventoryID     *int64          `json:"inventory_id"`
	Date            json.RawMessage `json:"date"`
}

// PatchInput is the raw body of a partial update. An omitted key leaves the
// attribute alone; null clears description and inventory_id.
type PatchInput struct {
	Title           json.RawMessage `json:"title"`
	Description     json.RawMessage `json:"description"`
	OwnerID         json.RawMessage `json:"owner_id"`
	TransactionType json.RawMessage `json:"transaction_type"`
	AmountPerUnit   json.RawMessage `json:"amount_per_unit"`
	Quantity        json.RawMessage `json:"quantity"`
	PurchasePrice   json.RawMessage `json:"purchase_price"`
	InventoryID     json.RawMessage `json:"inventory_id"`
	Date            json.RawMessage `json:"date"`
}

// Create normalizes a create request into a new transaction. A missing date
// becomes the current GMT+8 wall-clock time read from clock.
func Create(in CreateInput, clock localtime.Clock) (*transaction.Transaction, error) {
	draft := transaction.Draft{
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		InventoryID: in.InventoryID,
	}

	if in.TransactionType != "" {
		t, err := transaction.ParseType(in.TransactionType)
		if err != nil {
			return nil, err
		}
		draft.Type = t
	}

	var err error
	if draft.AmountPerUnit, err = Money(string(transaction.FieldAmountPerUnit), in.AmountPerUnit); err != nil {
		return nil, err
	}
	if draft.Quantity, err = Quantity(string(transaction.FieldQuantity), in.Quantity); err != nil {
		return nil, err
	}
	if draft.PurchasePrice, err = Money(string(transaction.FieldPurchasePrice), in.PurchasePrice); err != nil {
		return nil, err
	}
	if draft.Date, err = DateTime(string(transaction.FieldDate), in.Date); err != nil {
		return nil, err
	}

	return transaction.New(draft, clock)
}

// Patch normalizes a partial update. Only keys present in the body end up in
// the patch; in particular an omitted date never becomes part of it.
func Patch(in PatchInput) (transaction.Patch, error) {
	var p transaction.Patch
	var err error

	if in.Title != nil {
		var title string
		if err := decodeRequired(transaction.FieldTitle, in.Title, &title, "must be a string"); err != nil {
			return p, err
		}
		p.Title = &title
	}

	if in.Description != nil {
		if isAbsent(in.Description) {
			p.ClearDescription = true
		} else {
			var description string
			if err := json.Unmarshal(in.Description, &description); err != nil {
				return p, shared.NewValidationError(string(transaction.FieldDescription), "must be a string or null")
			}
			p.Description = &description
		}
	}

	if in.OwnerID != nil {
		var ownerID int64
		if err := decodeRequired(transaction.FieldOwnerID, in.OwnerID, &ownerID, "must be a positive integer"); err != nil {
			return p, err
		}
		p.OwnerID = &ownerID
	}

	if in.TransactionType != nil {
		var raw string
		if err := decodeRequired(transaction.FieldType, in.TransactionType, &raw, "must be a string"); err != nil {
			return p, err
		}
		t, err := transaction.ParseType(raw)
		if err != nil {
			return p, err
		}
		p.Type = &t
	}

	if p.AmountPerUnit, err = Money(string(transaction.FieldAmountPerUnit), in.AmountPerUnit); err != nil {
		return p, err
	}
	if p.Quantity, err = Quantity(string(transaction.FieldQuantity), in.Quantity); err != nil {
		return p, err
	}
	if p.PurchasePrice, err = Money(string(transaction.FieldPurchasePrice), in.PurchasePrice); err != nil {
		return p, err
	}

	if in.InventoryID != nil {
		if isAbsent(in.InventoryID) {
			p.ClearInventory = true
		} else {
			var inventoryID int64
			if err := json.Unmarshal(in.InventoryID, &inventoryID); err != nil {
				return p, shared.NewValidationError(string(transaction.FieldInventoryID), "must be a positive integer or null")
			}
			p.InventoryID = &inventoryID
		}
	}

	if p.Date, err = DateTime(string(transaction.FieldDate), in.Date); err != nil {
		return p, err
	}

	return p, p.Validate()
}

// decodeRequired rejects null for attributes that cannot be cleared.
func decodeRequired(field transaction.Field, raw json.RawMessage, dst interface{}, reason string) error {
	if isAbsent(raw) {
		return shared.NewValidationError(string(field), "must not be null")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return shared.NewValidationError(string(field), reason)
	}
	return nil
}
