package service

import (
	"context"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/normalize"
)

// InventoryServiceImpl implements the InventoryService interface
type InventoryServiceImpl struct {
	inventoryRepo inventory.Repository
	logger        *slog.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(logger *slog.Logger, inventoryRepo inventory.Repository) InventoryService {
	return &InventoryServiceImpl{
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

// CreateItem stores a new item. Unknown category or unit ids surface as
// ReferenceError from the repository.
func (s *InventoryServiceImpl) CreateItem(ctx context.Context, in normalize.InventoryInput) (*inventory.Item, error) {
	item, err := normalize.Item(in)
	if err != nil {
		return nil, err
	}
	return s.inventoryRepo.Create(ctx, item)
}

func (s *InventoryServiceImpl) GetItem(ctx context.Context, id int64) (*inventory.Item, error) {
	return s.inventoryRepo.Get(ctx, id)
}

func (s *InventoryServiceImpl) ListItems(ctx context.Context, offset, limit int) ([]*inventory.Item, error) {
	return s.inventoryRepo.List(ctx, offset, limit)
}

func (s *InventoryServiceImpl) DeleteItem(ctx context.Context, id int64) (*inventory.Item, error) {
	item, err := s.inventoryRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Inventory item deleted, linked transactions unlinked", "id", id)
	return item, nil
}
