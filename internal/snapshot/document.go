// Package snapshot exports the whole ledger into one JSON document and
// replays such documents into an empty or existing database.
package snapshot

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/normalize"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
)

// Document is the on-disk snapshot format. Decimals are written as strings
// and dates as naive ISO-8601 text.
type Document struct {
	Timestamp    string              `json:"timestamp"`
	Users        []UserRecord        `json:"users"`
	Categories   []NamedRecord       `json:"categories"`
	Weights      []NamedRecord       `json:"weights"`
	Inventory    []InventoryRecord   `json:"inventory"`
	Transactions []TransactionRecord `json:"transactions"`
}

// Counts is the number of rows per table
type Counts struct {
	Users        int `json:"users"`
	Categories   int `json:"categories"`
	Weights      int `json:"weights"`
	Inventory    int `json:"inventory"`
	Transactions int `json:"transactions"`
}

func (d *Document) Counts() Counts {
	return Counts{
		Users:        len(d.Users),
		Categories:   len(d.Categories),
		Weights:      len(d.Weights),
		Inventory:    len(d.Inventory),
		Transactions: len(d.Transactions),
	}
}

type UserRecord struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	IsActive bool    `json:"is_active"`
}

// NamedRecord is a category or weight row
type NamedRecord struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// InventoryRecord keeps decimals raw; older snapshots wrote quantity as an
// integer and may omit the price columns.
type InventoryRecord struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Shortname     *string         `json:"shortname"`
	Quantity      json.RawMessage `json:"quantity"`
	PurchasePrice json.RawMessage `json:"purchase_price,omitempty"`
	SellingPrice  json.RawMessage `json:"selling_price,omitempty"`
	CategoryID    int64           `json:"category_id"`
	WeightID      int64           `json:"weight_id"`
}

// TransactionRecord keeps decimals raw. Amount is the legacy name of
// AmountPerUnit and is only read.
type TransactionRecord struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	OwnerID         int64           `json:"owner_id"`
	TransactionType string          `json:"transaction_type"`
	AmountPerUnit   json.RawMessage `json:"amount_per_unit,omitempty"`
	Amount          json.RawMessage `json:"amount,omitempty"`
	Quantity        json.RawMessage `json:"quantity,omitempty"`
	PurchasePrice   json.RawMessage `json:"purchase_price,omitempty"`
	Date            string          `json:"date"`
	InventoryID     *int64          `json:"inventory_id"`
}

// Decode parses a snapshot document
func Decode(data []byte) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, shared.NewValidationError("snapshot", "must be a JSON document: %v", err)
	}
	return &doc, nil
}

// Encode renders doc as indented JSON
func Encode(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func quoted(s string) json.RawMessage {
	return json.RawMessage(strconv.Quote(s))
}

func fromUser(u *user.User) UserRecord {
	return UserRecord{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive}
}

func fromCategory(c *catalog.Category) NamedRecord {
	return NamedRecord{ID: c.ID, Name: c.Name, Description: c.Description}
}

func fromWeight(w *catalog.Weight) NamedRecord {
	return NamedRecord{ID: w.ID, Name: w.Name, Description: w.Description}
}

func fromItem(item *inventory.Item) InventoryRecord {
	return InventoryRecord{
		ID:            item.ID,
		Name:          item.Name,
		Shortname:     item.Shortname,
		Quantity:      quoted(item.Quantity.String()),
		PurchasePrice: quoted(item.PurchasePrice.String()),
		SellingPrice:  quoted(item.SellingPrice.String()),
		CategoryID:    item.CategoryID,
		WeightID:      item.WeightID,
	}
}

func fromTransaction(t *transaction.Transaction) TransactionRecord {
	return TransactionRecord{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		OwnerID:         t.OwnerID,
		TransactionType: string(t.Type),
		AmountPerUnit:   quoted(t.AmountPerUnit.String()),
		Quantity:        quoted(t.Quantity.String()),
		PurchasePrice:   quoted(t.PurchasePrice.String()),
		Date:            localtime.Format(t.Date),
		InventoryID:     t.InventoryID,
	}
}

func (r UserRecord) toUser() *user.User {
	return &user.User{ID: r.ID, Email: r.Email, FullName: r.FullName, IsActive: r.IsActive}
}

func (r NamedRecord) toCategory() *catalog.Category {
	return &catalog.Category{ID: r.ID, Name: r.Name, Description: r.Description}
}

func (r NamedRecord) toWeight() *catalog.Weight {
	return &catalog.Weight{ID: r.ID, Name: r.Name, Description: r.Description}
}

func (r InventoryRecord) toItem() (*inventory.Item, error) {
	quantity, err := normalize.Quantity("inventory.quantity", r.Quantity)
	if err != nil {
		return nil, err
	}
	purchase, err := normalize.Money("inventory.purchase_price", r.PurchasePrice)
	if err != nil {
		return nil, err
	}
	selling, err := normalize.Money("inventory.selling_price", r.SellingPrice)
	if err != nil {
		return nil, err
	}

	item := &inventory.Item{
		ID:            r.ID,
		Name:          r.Name,
		Shortname:     r.Shortname,
		Quantity:      money.ZeroQuantity(),
		PurchasePrice: money.ZeroMoney(),
		SellingPrice:  money.ZeroMoney(),
		CategoryID:    r.CategoryID,
		WeightID:      r.WeightID,
	}
	if quantity != nil {
		item.Quantity = *quantity
	}
	if purchase != nil {
		item.PurchasePrice = *purchase
	}
	if selling != nil {
		item.SellingPrice = *selling
	}
	return item, nil
}

// toTransaction coerces a stored row: legacy amount stands in for
// amount_per_unit, a missing quantity is one, missing prices are zero, a
// date-only value is midnight and zone suffixes are dropped.
func (r TransactionRecord) toTransaction() (*transaction.Transaction, error) {
	kind, err := transaction.ParseType(r.TransactionType)
	if err != nil {
		return nil, err
	}

	rawAmount := r.AmountPerUnit
	if len(bytes.TrimSpace(rawAmount)) == 0 {
		rawAmount = r.Amount
	}
	amount, err := normalize.Money("transactions.amount_per_unit", rawAmount)
	if err != nil {
		return nil, err
	}
	quantity, err := normalize.Quantity("transactions.quantity", r.Quantity)
	if err != nil {
		return nil, err
	}
	purchase, err := normalize.Money("transactions.purchase_price", r.PurchasePrice)
	if err != nil {
		return nil, err
	}
	date, _, err := normalize.ParseDateTime(r.Date)
	if err != nil {
		return nil, shared.NewValidationError("transactions.date", "must be an ISO-8601 date or datetime")
	}

	t := &transaction.Transaction{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		OwnerID:       r.OwnerID,
		Type:          kind,
		AmountPerUnit: money.ZeroMoney(),
		Quantity:      money.OneQuantity(),
		PurchasePrice: money.ZeroMoney(),
		InventoryID:   r.InventoryID,
		Date:          date,
	}
	if amount != nil {
		t.AmountPerUnit = *amount
	}
	if quantity != nil {
		t.Quantity = *quantity
	}
	if purchase != nil {
		t.PurchasePrice = *purchase
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	return localtime.Format(localtime.Naive(t))
}
