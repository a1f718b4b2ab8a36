package service

import (
	"context"

	"github.com/inventory-ledger/internal/domain/catalog"
)

// CatalogServiceImpl implements the CatalogService interface
type CatalogServiceImpl struct {
	categoryRepo catalog.CategoryRepository
	weightRepo   catalog.WeightRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(categoryRepo catalog.CategoryRepository, weightRepo catalog.WeightRepository) CatalogService {
	return &CatalogServiceImpl{
		categoryRepo: categoryRepo,
		weightRepo:   weightRepo,
	}
}

func (s *CatalogServiceImpl) CreateCategory(ctx context.Context, name string, description *string) (*catalog.Category, error) {
	c, err := catalog.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.Create(ctx, c)
}

func (s *CatalogServiceImpl) GetCategory(ctx context.Context, id int64) (*catalog.Category, error) {
	return s.categoryRepo.Get(ctx, id)
}

func (s *CatalogServiceImpl) ListCategories(ctx context.Context, offset, limit int) ([]*catalog.Category, error) {
	return s.categoryRepo.List(ctx, offset, limit)
}

func (s *CatalogServiceImpl) CreateWeight(ctx context.Context, name string, description *string) (*catalog.Weight, error) {
	w, err := catalog.NewWeight(name, description)
	if err != nil {
		return nil, err
	}
	return s.weightRepo.Create(ctx, w)
}

func (s *CatalogServiceImpl) GetWeight(ctx context.Context, id int64) (*catalog.Weight, error) {
	return s.weightRepo.Get(ctx, id)
}

func (s *CatalogServiceImpl) ListWeights(ctx context.Context, offset, limit int) ([]*catalog.Weight, error) {
	return s.weightRepo.List(ctx, offset, limit)
}
