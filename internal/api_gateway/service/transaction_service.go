package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/normalize"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	transactionRepo transaction.Repository
	userRepo        user.Repository
	inventoryRepo   inventory.Repository
	clock           localtime.Clock
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service. clock supplies the
// default date of transactions created without one.
func NewTransactionService(
	logger *slog.Logger,
	transactionRepo transaction.Repository,
	userRepo user.Repository,
	inventoryRepo inventory.Repository,
	clock localtime.Clock,
) TransactionService {
	return &TransactionServiceImpl{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		inventoryRepo:   inventoryRepo,
		clock:           clock,
		logger:          logger,
	}
}

func (s *TransactionServiceImpl) CreateTransaction(ctx context.Context, in normalize.CreateInput) (*transaction.Transaction, error) {
	draft, err := normalize.Create(in, s.clock)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwner(ctx, draft.OwnerID); err != nil {
		return nil, err
	}
	if draft.InventoryID != nil {
		if err := s.checkInventory(ctx, *draft.InventoryID); err != nil {
			return nil, err
		}
	}

	created, err := s.transactionRepo.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction created",
		"id", created.ID,
		"owner_id", created.OwnerID,
		"transaction_type", string(created.Type),
		"total_amount", created.ComputeTotal().String(),
	)
	return created, nil
}

func (s *TransactionServiceImpl) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	return s.transactionRepo.Get(ctx, id)
}

func (s *TransactionServiceImpl) ListTransactions(ctx context.Context, offset, limit int) ([]*transaction.Transaction, error) {
	return s.transactionRepo.GetMulti(ctx, offset, limit)
}

func (s *TransactionServiceImpl) SearchTransactions(ctx context.Context, filter transaction.SearchFilter, offset, limit int) ([]*transaction.Transaction, error) {
	return s.transactionRepo.Search(ctx, filter, offset, limit)
}

// UpdateTransaction checks the referenced records only when the patch moves
// the transaction to a different owner or inventory item.
func (s *TransactionServiceImpl) UpdateTransaction(ctx context.Context, id int64, in normalize.PatchInput) (*transaction.Transaction, error) {
	existing, err := s.transactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := normalize.Patch(in)
	if err != nil {
		return nil, err
	}

	if patch.OwnerID != nil && *patch.OwnerID != existing.OwnerID {
		if err := s.checkOwner(ctx, *patch.OwnerID); err != nil {
			return nil, err
		}
	}
	if patch.InventoryID != nil && (existing.InventoryID == nil || *patch.InventoryID != *existing.InventoryID) {
		if err := s.checkInventory(ctx, *patch.InventoryID); err != nil {
			return nil, err
		}
	}

	updated, err := s.transactionRepo.Update(ctx, existing, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction updated", "id", id, "fields", patch.Fields())
	return updated, nil
}

func (s *TransactionServiceImpl) DeleteTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	existing, err := s.transactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	removed, err := s.transactionRepo.Remove(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction deleted", "id", id)
	return removed, nil
}

func (s *TransactionServiceImpl) checkOwner(ctx context.Context, ownerID int64) error {
	if _, err := s.userRepo.Get(ctx, ownerID); err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			return shared.ReferenceError{Field: string(transaction.FieldOwnerID), ID: ownerID}
		}
		s.logger.Error("Failed to check transaction owner", "owner_id", ownerID, "error", err)
		return err
	}
	return nil
}

func (s *TransactionServiceImpl) checkInventory(ctx context.Context, inventoryID int64) error {
	if _, err := s.inventoryRepo.Get(ctx, inventoryID); err != nil {
		if errors.Is(err, inventory.ErrItemNotFound{}) {
			return shared.ReferenceError{Field: string(transaction.FieldInventoryID), ID: inventoryID}
		}
		s.logger.Error("Failed to check inventory item", "inventory_id", inventoryID, "error", err)
		return err
	}
	return nil
}
