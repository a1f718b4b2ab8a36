package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/inventory-ledger/internal/domain/catalog"
	"github.com/inventory-ledger/internal/domain/inventory"
	"github.com/inventory-ledger/internal/domain/normalize"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUserServiceImpl_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(quietLogger(), repo)

		repo.On("GetByEmail", ctx, "seed@example.com").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.Email == "seed@example.com" && u.IsActive
		})).Return(&user.User{ID: 1, Email: "seed@example.com", IsActive: true}, nil).Once()

		u, err := svc.CreateUser(ctx, " seed@example.com ", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(quietLogger(), repo)

		repo.On("GetByEmail", ctx, "seed@example.com").Return(&user.User{ID: 1}, nil).Once()

		_, err := svc.CreateUser(ctx, "seed@example.com", nil)
		assert.ErrorIs(t, err, user.ErrDuplicateEmail{Email: "seed@example.com"})
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(quietLogger(), repo)

		_, err := svc.CreateUser(ctx, "not-an-email", nil)
		assert.ErrorIs(t, err, shared.ValidationError{Field: "email"})
		repo.AssertExpectations(t)
	})
}

func TestCatalogServiceImpl(t *testing.T) {
	ctx := context.Background()
	categories := new(MockCategoryRepository)
	weights := new(MockWeightRepository)
	svc := NewCatalogService(categories, weights)

	categories.On("Create", ctx, &catalog.Category{Name: "Beer"}).Return(&catalog.Category{ID: 5, Name: "Beer"}, nil).Once()
	weights.On("Create", ctx, &catalog.Weight{Name: "1L"}).Return(&catalog.Weight{ID: 7, Name: "1L"}, nil).Once()

	c, err := svc.CreateCategory(ctx, "  Beer ", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.ID)

	w, err := svc.CreateWeight(ctx, "1L", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), w.ID)

	_, err = svc.CreateCategory(ctx, "   ", nil)
	assert.ErrorIs(t, err, shared.ValidationError{Field: "name"})

	categories.AssertExpectations(t)
	weights.AssertExpectations(t)
}

func TestInventoryServiceImpl_CreateItem(t *testing.T) {
	ctx := context.Background()
	repo := new(MockInventoryRepository)
	svc := NewInventoryService(quietLogger(), repo)

	repo.On("Create", ctx, mock.MatchedBy(func(item *inventory.Item) bool {
		return item.Name == "LPG 11kg" && item.Quantity.String() == "3.000" && item.SellingPrice.String() == "950.00"
	})).Return(&inventory.Item{ID: 2, Name: "LPG 11kg"}, nil).Once()

	item, err := svc.CreateItem(ctx, normalize.InventoryInput{
		Name:         "LPG 11kg",
		Quantity:     json.RawMessage(`3`),
		SellingPrice: json.RawMessage(`"950"`),
		CategoryID:   1,
		WeightID:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.ID)
	repo.AssertExpectations(t)
}
