// Package bootstrap seeds an empty ledger with the starter data the service
// ships with.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const SeedEmail = "seed@example.com"

var (
	seedCategories = []string{"LPG", "Butane", "Coca-cola", "Pepsi Softdrinks", "Beer"}
	seedWeights    = []string{"11kg", "225g", "170g", "500ml", "355ml (12oz)", "235ml (8oz)", "1L"}
)

type seedTransaction struct {
	title  string
	kind   transaction.Type
	amount int64
}

var seedTransactions = []seedTransaction{
	{title: "Coffee", kind: transaction.TypeExpense, amount: 5},
	{title: "Salary", kind: transaction.TypeEarning, amount: 1000},
	{title: "Owner Capital", kind: transaction.TypeCapital, amount: 5000},
}

// Seeder writes the starter data in one database transaction
type Seeder struct {
	db           persistence.Transactor
	users        user.Repository
	categories   catalog.CategoryRepository
	weights      catalog.WeightRepository
	transactions transaction.Repository
	clock        localtime.Clock
	logger       *slog.Logger
}

func NewSeeder(
	logger *slog.Logger,
	db persistence.Transactor,
	users user.Repository,
	categories catalog.CategoryRepository,
	weights catalog.WeightRepository,
	transactions transaction.Repository,
	clock localtime.Clock,
) *Seeder {
	return &Seeder{
		db:           db,
		users:        users,
		categories:   categories,
		weights:      weights,
		transactions: transactions,
		clock:        clock,
		logger:       logger,
	}
}

// Run seeds the ledger when it has no users yet. It reports whether anything
// was written.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Ledger already has users, skipping seed", "users", count)
		return false, nil
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.seed(ctx, tx)
	})
	if err != nil {
		s.logger.Error("Failed to seed ledger", "error", err)
		return false, fmt.Errorf("failed to seed ledger: %w", err)
	}

	s.logger.Info("Seeded empty ledger",
		"user", SeedEmail,
		"transactions", len(seedTransactions),
		"categories", len(seedCategories),
		"weights", len(seedWeights),
	)
	return true, nil
}

func (s *Seeder) seed(ctx context.Context, tx pgx.Tx) error {
	owner, err := user.New(SeedEmail, nil)
	if err != nil {
		return err
	}
	owner, err = s.users.WithTx(tx).Create(ctx, owner)
	if err != nil {
		return err
	}

	transactions := s.transactions.WithTx(tx)
	for _, st := range seedTransactions {
		amount := money.MoneyFromInt(st.amount)
		t, err := transaction.New(transaction.Draft{
			Title:         st.title,
			OwnerID:       owner.ID,
			Type:          st.kind,
			AmountPerUnit: &amount,
		}, s.clock)
		if err != nil {
			return err
		}
		if _, err := transactions.Create(ctx, t); err != nil {
			return err
		}
	}

	categories := s.categories.WithTx(tx)
	for _, name := range seedCategories {
		c, err := catalog.NewCategory(name, nil)
		if err != nil {
			return err
		}
		if _, err := categories.Create(ctx, c); err != nil {
			return err
		}
	}

	weights := s.weights.WithTx(tx)
	for _, name := range seedWeights {
		w, err := catalog.NewWeight(name, nil)
		if err != nil {
			return err
		}
		if _, err := weights.Create(ctx, w); err != nil {
			return err
		}
	}

	return nil
}
