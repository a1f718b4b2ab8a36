package handler

import (
	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
)

// Paging bounds the offset/limit query parameters of list endpoints
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// TransactionResponse represents a transaction in API responses. Decimals are
// fixed-scale strings; date is a naive GMT+8 timestamp.
type TransactionResponse struct {
	ID              int64          `json:"id"`
	Title           string         `json:"title"`
	Description     *string        `json:"description"`
	OwnerID         int64          `json:"owner_id"`
	TransactionType string         `json:"transaction_type"`
	AmountPerUnit   money.Money    `json:"amount_per_unit"`
	Quantity        money.Quantity `json:"quantity"`
	PurchasePrice   money.Money    `json:"purchase_price"`
	InventoryID     *int64         `json:"inventory_id"`
	Date            string         `json:"date"`
	TotalAmount     money.Money    `json:"total_amount"`
}

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	IsActive bool    `json:"is_active"`
}

// CreateNamedRequest creates a category or a weight unit
type CreateNamedRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// NamedResponse represents a category or a weight unit in API responses
type NamedResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// InventoryResponse represents an inventory item in API responses
type InventoryResponse struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Shortname     *string        `json:"shortname"`
	Quantity      money.Quantity `json:"quantity"`
	PurchasePrice money.Money    `json:"purchase_price"`
	SellingPrice  money.Money    `json:"selling_price"`
	CategoryID    int64          `json:"category_id"`
	WeightID      int64          `json:"weight_id"`
}

func mapTransactionToResponse(t *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		OwnerID:         t.OwnerID,
		TransactionType: string(t.Type),
		AmountPerUnit:   t.AmountPerUnit,
		Quantity:        t.Quantity,
		PurchasePrice:   t.PurchasePrice,
		InventoryID:     t.InventoryID,
		Date:            localtime.Format(t.Date),
		TotalAmount:     t.ComputeTotal(),
	}
}

func mapTransactionsToResponse(list []*transaction.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(list))
	for i, t := range list {
		out[i] = mapTransactionToResponse(t)
	}
	return out
}

func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive}
}

func mapCategoryToResponse(c *catalog.Category) NamedResponse {
	return NamedResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func mapWeightToResponse(w *catalog.Weight) NamedResponse {
	return NamedResponse{ID: w.ID, Name: w.Name, Description: w.Description}
}

func mapItemToResponse(item *inventory.Item) InventoryResponse {
	return InventoryResponse{
		ID:            item.ID,
		Name:          item.Name,
		Shortname:     item.Shortname,
		Quantity:      item.Quantity,
		PurchasePrice: item.PurchasePrice,
		SellingPrice:  item.SellingPrice,
		CategoryID:    item.CategoryID,
		WeightID:      item.WeightID,
	}
}
