// Package postgres provides PostgreSQL implementations of the domain repositories.
// Logical field names are mapped to physical columns here and nowhere else.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

const (
	transactionOwnerFK     = "transactions_owner_id_fkey"
	transactionInventoryFK = "transactions_inventory_id_fkey"
)

// transactionColumns maps logical fields to physical columns. amount_per_unit
// still lives in the legacy "amount" column.
var transactionColumns = map[transaction.Field]string{
	transaction.FieldTitle:         "title",
	transaction.FieldDescription:   "description",
	transaction.FieldOwnerID:       "owner_id",
	transaction.FieldType:          "transaction_type",
	transaction.FieldAmountPerUnit: "amount",
	transaction.FieldQuantity:      "quantity",
	transaction.FieldPurchasePrice: "purchase_price",
	transaction.FieldInventoryID:   "inventory_id",
	transaction.FieldDate:          "date",
}

// transactionWriteOrder is the column order used by inserts
var transactionWriteOrder = []transaction.Field{
	transaction.FieldTitle,
	transaction.FieldDescription,
	transaction.FieldOwnerID,
	transaction.FieldType,
	transaction.FieldAmountPerUnit,
	transaction.FieldQuantity,
	transaction.FieldPurchasePrice,
	transaction.FieldInventoryID,
	transaction.FieldDate,
}

const transactionSelectList = "id, title, description, owner_id, transaction_type, amount, quantity, purchase_price, inventory_id, date"

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
	timeout time.Duration
}

// NewTransactionRepository creates a repository on the shared pool. Every call
// is bounded by the database's operation timeout.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
		timeout: db.OperationTimeout(),
	}
}

// WithTx returns a repository that runs every statement inside tx.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
		timeout: r.timeout,
	}
}

// Get retrieves a transaction by its ID
func (r *TransactionRepository) Get(ctx context.Context, id int64) (*transaction.Transaction, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := "SELECT " + transactionSelectList + " FROM transactions WHERE id = $1"

	t, err := scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id, "error", err)
		return nil, storageError("get transaction", fmt.Errorf("failed to get transaction: %w", err))
	}

	return t, nil
}

// GetMulti returns a page of transactions in identity order
func (r *TransactionRepository) GetMulti(ctx context.Context, offset, limit int) ([]*transaction.Transaction, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := "SELECT " + transactionSelectList + " FROM transactions ORDER BY id LIMIT $1 OFFSET $2"

	list, err := r.queryTransactions(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "offset", offset, "limit", limit, "error", err)
		return nil, storageError("list transactions", err)
	}
	return list, nil
}

// Create inserts t and returns the stored row with its generated ID
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	columns := make([]string, len(transactionWriteOrder))
	placeholders := make([]string, len(transactionWriteOrder))
	args := make([]interface{}, len(transactionWriteOrder))
	for i, field := range transactionWriteOrder {
		columns[i] = transactionColumns[field]
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fieldValue(t, field)
	}

	query := fmt.Sprintf("INSERT INTO transactions (%s) VALUES (%s) RETURNING %s",
		strings.Join(columns, ", "), strings.Join(placeholders, ", "), transactionSelectList)

	created, err := scanTransaction(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if domainErr := constraintError(err, transactionRefs(t)); domainErr != nil {
			return nil, domainErr
		}
		r.logger.Error("Failed to create transaction", "title", t.Title, "owner_id", t.OwnerID, "error", err)
		return nil, storageError("create transaction", fmt.Errorf("failed to create transaction: %w", err))
	}

	return created, nil
}

// Update applies patch to existing and writes only the touched columns. The
// refreshed row is returned. An empty patch re-reads the row.
func (r *TransactionRepository) Update(ctx context.Context, existing *transaction.Transaction, patch transaction.Patch) (*transaction.Transaction, error) {
	if patch.IsEmpty() {
		return r.Get(ctx, existing.ID)
	}

	updated := existing.Clone()
	if err := updated.ApplyPatch(patch); err != nil {
		return nil, err
	}

	fields := patch.Fields()
	sets := make([]string, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for i, field := range fields {
		sets[i] = fmt.Sprintf("%s = $%d", transactionColumns[field], i+1)
		args = append(args, fieldValue(updated, field))
	}
	args = append(args, existing.ID)

	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), transactionSelectList)

	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	refreshed, err := scanTransaction(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{ID: existing.ID}
		}
		if domainErr := constraintError(err, transactionRefs(updated)); domainErr != nil {
			return nil, domainErr
		}
		r.logger.Error("Failed to update transaction", "id", existing.ID, "error", err)
		return nil, storageError("update transaction", fmt.Errorf("failed to update transaction: %w", err))
	}

	return refreshed, nil
}

// Remove deletes the row and returns it as it was just before deletion
func (r *TransactionRepository) Remove(ctx context.Context, existing *transaction.Transaction) (*transaction.Transaction, error) {
	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := "DELETE FROM transactions WHERE id = $1 RETURNING " + transactionSelectList

	removed, err := scanTransaction(r.querier.QueryRow(ctx, query, existing.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{ID: existing.ID}
		}
		r.logger.Error("Failed to delete transaction", "id", existing.ID, "error", err)
		return nil, storageError("delete transaction", fmt.Errorf("failed to delete transaction: %w", err))
	}

	return removed, nil
}

// Search returns the page of transactions matching every supplied filter
func (r *TransactionRepository) Search(ctx context.Context, filter transaction.SearchFilter, offset, limit int) ([]*transaction.Transaction, error) {
	if filter.IsEmpty() {
		return r.GetMulti(ctx, offset, limit)
	}

	ctx, cancel := persistence.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, args := buildSearchQuery(filter, offset, limit)

	list, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to search transactions", "offset", offset, "limit", limit, "error", err)
		return nil, storageError("search transactions", err)
	}
	return list, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*transaction.Transaction, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	list := make([]*transaction.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return list, nil
}

// searchQuery collects conjunctive predicates with numbered placeholders
type searchQuery struct {
	where []string
	args  []interface{}
}

func (s *searchQuery) next(arg interface{}) string {
	s.args = append(s.args, arg)
	return fmt.Sprintf("$%d", len(s.args))
}

func (s *searchQuery) add(format string, arg interface{}) {
	s.where = append(s.where, fmt.Sprintf(format, s.next(arg)))
}

func buildSearchQuery(f transaction.SearchFilter, offset, limit int) (string, []interface{}) {
	s := &searchQuery{}

	if f.OwnerID != nil {
		s.add("owner_id = %s", *f.OwnerID)
	}
	if f.Type != nil {
		s.add("transaction_type = %s", string(*f.Type))
	}
	if f.DateFrom != nil {
		s.add("date >= %s", *f.DateFrom)
	}
	if f.DateTo != nil {
		s.add("date <= %s", *f.DateTo)
	}
	if f.InventoryID != nil {
		s.add("inventory_id = %s", *f.InventoryID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := s.next("%" + escapeLike(q) + "%")
		s.where = append(s.where, fmt.Sprintf(`(title ILIKE %s ESCAPE '\' OR description ILIKE %s ESCAPE '\')`, p, p))
	}
	if f.MinTotal != nil {
		s.add(totalAmountExpr.SQL()+" >= %s", *f.MinTotal)
	}
	if f.MaxTotal != nil {
		s.add(totalAmountExpr.SQL()+" <= %s", *f.MaxTotal)
	}

	var b strings.Builder
	b.WriteString("SELECT " + transactionSelectList + " FROM transactions")
	if len(s.where) > 0 {
		b.WriteString(" WHERE " + strings.Join(s.where, " AND "))
	}
	limitParam := s.next(limit)
	offsetParam := s.next(offset)
	fmt.Fprintf(&b, " ORDER BY id LIMIT %s OFFSET %s", limitParam, offsetParam)

	return b.String(), s.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE metacharacters in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func fieldValue(t *transaction.Transaction, field transaction.Field) interface{} {
	switch field {
	case transaction.FieldTitle:
		return t.Title
	case transaction.FieldDescription:
		return t.Description
	case transaction.FieldOwnerID:
		return t.OwnerID
	case transaction.FieldType:
		return string(t.Type)
	case transaction.FieldAmountPerUnit:
		return t.AmountPerUnit
	case transaction.FieldQuantity:
		return t.Quantity
	case transaction.FieldPurchasePrice:
		return t.PurchasePrice
	case transaction.FieldInventoryID:
		return t.InventoryID
	case transaction.FieldDate:
		return t.Date
	}
	panic("unknown transaction field " + string(field))
}

func transactionRefs(t *transaction.Transaction) map[string]shared.ReferenceError {
	refs := map[string]shared.ReferenceError{
		transactionOwnerFK: {Field: string(transaction.FieldOwnerID), ID: t.OwnerID},
	}
	if t.InventoryID != nil {
		refs[transactionInventoryFK] = shared.ReferenceError{Field: string(transaction.FieldInventoryID), ID: *t.InventoryID}
	}
	return refs
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var txType string
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.OwnerID,
		&txType,
		&t.AmountPerUnit,
		&t.Quantity,
		&t.PurchasePrice,
		&t.InventoryID,
		&t.Date,
	)
	if err != nil {
		return nil, err
	}
	t.Type = transaction.Type(txType)
	t.Date = localtime.Naive(t.Date)
	return &t, nil
}
