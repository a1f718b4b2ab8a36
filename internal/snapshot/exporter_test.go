package snapshot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/domain/money"
	"github.com/inventory-ledger/internal/domain/transaction"
	"github.com/inventory-ledger/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedClock = localtime.ClockFunc(func() time.Time {
	return time.Date(2025, 11, 12, 0, 15, 0, 0, time.UTC)
})

// The source mocks embed their interface; only list operations are called.
type mockUsers struct {
	mock.Mock
	user.Repository
}

func (m *mockUsers) List(ctx context.Context, offset, limit int) ([]*user.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

type mockCategories struct {
	mock.Mock
	catalog.CategoryRepository
}

func (m *mockCategories) List(ctx context.Context, offset, limit int) ([]*catalog.Category, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

type mockWeights struct {
	mock.Mock
	catalog.WeightRepository
}

func (m *mockWeights) List(ctx context.Context, offset, limit int) ([]*catalog.Weight, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Weight), args.Error(1)
}

type mockInventory struct {
	mock.Mock
	inventory.Repository
}

func (m *mockInventory) List(ctx context.Context, offset, limit int) ([]*inventory.Item, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Item), args.Error(1)
}

type mockTransactions struct {
	mock.Mock
	transaction.Repository
}

func (m *mockTransactions) GetMulti(ctx context.Context, offset, limit int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

type mockSources struct {
	users        *mockUsers
	categories   *mockCategories
	weights      *mockWeights
	inventory    *mockInventory
	transactions *mockTransactions
}

func newMockSources() *mockSources {
	return &mockSources{
		users:        new(mockUsers),
		categories:   new(mockCategories),
		weights:      new(mockWeights),
		inventory:    new(mockInventory),
		transactions: new(mockTransactions),
	}
}

func (s *mockSources) sources() Sources {
	return Sources{
		Users:        s.users,
		Categories:   s.categories,
		Weights:      s.weights,
		Inventory:    s.inventory,
		Transactions: s.transactions,
	}
}

// pinnedReader serves the same sources to every worker and counts the read
// transactions it opens and ends
type pinnedReader struct {
	src     Sources
	pinErr  error
	viewErr error

	mu     sync.Mutex
	opened int
	ended  int
	closed bool
}

func (r *pinnedReader) Pin(ctx context.Context) (View, error) {
	if r.pinErr != nil {
		return nil, r.pinErr
	}
	return r, nil
}

func (r *pinnedReader) Sources(ctx context.Context) (Sources, func(), error) {
	if r.viewErr != nil {
		return Sources{}, nil, r.viewErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened++
	return r.src, func() {
		r.mu.Lock()
		r.ended++
		r.mu.Unlock()
	}, nil
}

func (r *pinnedReader) Close(ctx context.Context) {
	r.closed = true
}

func tx(id int64, amount, quantity string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:            id,
		Title:         "Customer Purchase",
		OwnerID:       1,
		Type:          transaction.TypeEarning,
		AmountPerUnit: money.MustParseMoney(amount),
		Quantity:      money.MustParseQuantity(quantity),
		PurchasePrice: money.ZeroMoney(),
		Date:          time.Date(2025, 11, 12, 8, 0, 0, 0, time.UTC),
	}
}

func TestExporter_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("PagesEveryTable", func(t *testing.T) {
		src := newMockSources()
		src.users.On("List", ctx, 0, 2).Return([]*user.User{{ID: 1, Email: "seed@example.com", IsActive: true}}, nil).Once()
		src.categories.On("List", ctx, 0, 2).Return([]*catalog.Category{{ID: 1, Name: "LPG"}, {ID: 2, Name: "Beer"}}, nil).Once()
		src.categories.On("List", ctx, 2, 2).Return([]*catalog.Category{}, nil).Once()
		src.weights.On("List", ctx, 0, 2).Return([]*catalog.Weight{{ID: 1, Name: "11kg"}}, nil).Once()
		src.inventory.On("List", ctx, 0, 2).Return([]*inventory.Item{}, nil).Once()
		src.transactions.On("GetMulti", ctx, 0, 2).Return([]*transaction.Transaction{tx(1, "28", "1"), tx(2, "650", "3")}, nil).Once()
		src.transactions.On("GetMulti", ctx, 2, 2).Return([]*transaction.Transaction{tx(3, "200", "0.5")}, nil).Once()

		reader := &pinnedReader{src: src.sources()}
		exp, err := NewExporter(quietLogger(), reader, ExporterConfig{PoolSize: 2, PageSize: 2}, fixedClock)
		require.NoError(t, err)
		defer exp.Shutdown()

		doc, err := exp.Export(ctx)
		require.NoError(t, err)

		assert.Equal(t, "2025-11-12T08:15:00", doc.Timestamp)
		assert.Equal(t, Counts{Users: 1, Categories: 2, Weights: 1, Inventory: 0, Transactions: 3}, doc.Counts())
		assert.NotNil(t, doc.Inventory)
		assert.Equal(t, `"0.500"`, string(doc.Transactions[2].Quantity))
		assert.Equal(t, `"650.00"`, string(doc.Transactions[1].AmountPerUnit))
		assert.Equal(t, "2025-11-12T08:00:00", doc.Transactions[0].Date)

		src.users.AssertExpectations(t)
		src.categories.AssertExpectations(t)
		src.transactions.AssertExpectations(t)

		// one read transaction per table, all on the pinned snapshot
		assert.Equal(t, 5, reader.opened)
		assert.Equal(t, 5, reader.ended)
		assert.True(t, reader.closed)
	})

	t.Run("TableFailure", func(t *testing.T) {
		src := newMockSources()
		src.users.On("List", ctx, 0, 10).Return([]*user.User{}, nil).Once()
		src.categories.On("List", ctx, 0, 10).Return([]*catalog.Category{}, nil).Once()
		src.weights.On("List", ctx, 0, 10).Return([]*catalog.Weight{}, nil).Once()
		src.inventory.On("List", ctx, 0, 10).Return(nil, errors.New("relation \"inventory\" does not exist")).Once()
		src.transactions.On("GetMulti", ctx, 0, 10).Return([]*transaction.Transaction{}, nil).Once()

		reader := &pinnedReader{src: src.sources()}
		exp, err := NewExporter(quietLogger(), reader, ExporterConfig{PoolSize: 5, PageSize: 10}, fixedClock)
		require.NoError(t, err)
		defer exp.Shutdown()

		doc, err := exp.Export(ctx)
		assert.Nil(t, doc)
		assert.ErrorContains(t, err, "failed to export inventory")
		assert.True(t, reader.closed)
	})

	t.Run("PinFailure", func(t *testing.T) {
		reader := &pinnedReader{pinErr: errors.New("too many connections")}
		exp, err := NewExporter(quietLogger(), reader, ExporterConfig{PoolSize: 1, PageSize: 10}, fixedClock)
		require.NoError(t, err)
		defer exp.Shutdown()

		doc, err := exp.Export(ctx)
		assert.Nil(t, doc)
		assert.ErrorContains(t, err, "too many connections")
	})

	t.Run("SnapshotImportFailure", func(t *testing.T) {
		reader := &pinnedReader{viewErr: errors.New("invalid snapshot identifier")}
		exp, err := NewExporter(quietLogger(), reader, ExporterConfig{PoolSize: 5, PageSize: 10}, fixedClock)
		require.NoError(t, err)
		defer exp.Shutdown()

		doc, err := exp.Export(ctx)
		assert.Nil(t, doc)
		assert.ErrorContains(t, err, "failed to export transactions")
		assert.ErrorContains(t, err, "invalid snapshot identifier")
		assert.True(t, reader.closed)
	})
}

func TestNewExporter_InvalidConfig(t *testing.T) {
	_, err := NewExporter(quietLogger(), &pinnedReader{}, ExporterConfig{PoolSize: 1, PageSize: 0}, fixedClock)
	assert.Error(t, err)
}
