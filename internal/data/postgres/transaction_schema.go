package postgres

import (
	"context"
	"log/slog"

	"github.com/inventory-ledger/internal/platform/persistence"
)

// TransactionSchemaPolicy lists the columns the transactions table must carry
// for the current entity. Older tables predating a column get it added with an
// inert default. amount keeps its legacy name and holds amount_per_unit.
func TransactionSchemaPolicy() persistence.TablePolicy {
	return persistence.TablePolicy{
		Table: "transactions",
		Columns: []persistence.Column{
			{Name: "transaction_type", Type: "TEXT", Default: "'expense'"},
			{Name: "amount", Type: "NUMERIC(10,2)", Default: "0.00"},
			{Name: "quantity", Type: "NUMERIC(10,3)", Default: "1.000"},
			{Name: "purchase_price", Type: "NUMERIC(10,2)", Default: "0.00"},
			{Name: "date", Type: "TIMESTAMP", Default: "(now() AT TIME ZONE 'Asia/Manila')"},
			{Name: "inventory_id", Type: "BIGINT REFERENCES inventory(id) ON DELETE SET NULL"},
		},
	}
}

// EnsureTransactionSchema applies the transaction policy once at startup.
func EnsureTransactionSchema(ctx context.Context, logger *slog.Logger, q persistence.Querier) error {
	added, err := persistence.EnsureColumns(ctx, q, logger, TransactionSchemaPolicy())
	if err != nil {
		return err
	}
	if len(added) == 0 {
		logger.Info("Transaction schema up to date")
	}
	return nil
}
