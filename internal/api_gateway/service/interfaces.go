package service

import (
	"context"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/normalize"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
)

// TransactionService defines the ledger operations exposed over HTTP
type TransactionService interface {
	// CreateTransaction normalizes the input and stores a new transaction
	// Returns ReferenceError if the owner or the linked inventory item is missing
	CreateTransaction(ctx context.Context, in normalize.CreateInput) (*transaction.Transaction, error)

	// GetTransaction retrieves a transaction by its ID
	// Returns ErrTransactionNotFound if it doesn't exist
	GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error)

	// ListTransactions returns a page of transactions in identity order
	ListTransactions(ctx context.Context, offset, limit int) ([]*transaction.Transaction, error)

	// SearchTransactions returns the page of transactions matching every filter
	SearchTransactions(ctx context.Context, filter transaction.SearchFilter, offset, limit int) ([]*transaction.Transaction, error)

	// UpdateTransaction applies the keys present in the input and returns the refreshed row
	UpdateTransaction(ctx context.Context, id int64, in normalize.PatchInput) (*transaction.Transaction, error)

	// DeleteTransaction removes a transaction and returns its last value
	DeleteTransaction(ctx context.Context, id int64) (*transaction.Transaction, error)
}

// UserService defines the interface for user operations
type UserService interface {
	CreateUser(ctx context.Context, email string, fullName *string) (*user.User, error)
	GetUser(ctx context.Context, id int64) (*user.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*user.User, error)
	// DeleteUser removes the user together with their transactions
	DeleteUser(ctx context.Context, id int64) (*user.User, error)
}

// CatalogService defines the interface for category and unit operations
type CatalogService interface {
	CreateCategory(ctx context.Context, name string, description *string) (*catalog.Category, error)
	GetCategory(ctx context.Context, id int64) (*catalog.Category, error)
	ListCategories(ctx context.Context, offset, limit int) ([]*catalog.Category, error)
	CreateWeight(ctx context.Context, name string, description *string) (*catalog.Weight, error)
	GetWeight(ctx context.Context, id int64) (*catalog.Weight, error)
	ListWeights(ctx context.Context, offset, limit int) ([]*catalog.Weight, error)
}

// InventoryService defines the interface for inventory operations
type InventoryService interface {
	CreateItem(ctx context.Context, in normalize.InventoryInput) (*inventory.Item, error)
	GetItem(ctx context.Context, id int64) (*inventory.Item, error)
	ListItems(ctx context.Context, offset, limit int) ([]*inventory.Item, error)
	// DeleteItem removes the item; linked transactions lose their inventory link
	DeleteItem(ctx context.Context, id int64) (*inventory.Item, error)
}
