package normalize

import (
	"encoding/json"

	"github.com/inventory-ledger/internal/domain/inventory"
)

// InventoryInput is the raw body of an inventory create request
type InventoryInput struct {
	Name          string          `json:"name"`
	Shortname     *string         `json:"shortname"`
	Quantity      json.RawMessage `json:"quantity"`
	PurchasePrice json.RawMessage `json:"purchase_price"`
	SellingPrice  json.RawMessage `json:"selling_price"`
	CategoryID    int64           `json:"category_id"`
	WeightID      int64           `json:"weight_id"`
}

// Item normalizes an inventory create request. Omitted decimals default to zero.
func Item(in InventoryInput) (*inventory.Item, error) {
	draft := inventory.Draft{
		Name:       in.Name,
		Shortname:  in.Shortname,
		CategoryID: in.CategoryID,
		WeightID:   in.WeightID,
	}

	var err error
	if draft.Quantity, err = Quantity("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if draft.PurchasePrice, err = Money("purchase_price", in.PurchasePrice); err != nil {
		return nil, err
	}
	if draft.SellingPrice, err = Money("selling_price", in.SellingPrice); err != nil {
		return nil, err
	}

	return inventory.New(draft)
}
