package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

type catalogService struct {
	repo db.ProductRepository
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(repo db.ProductRepository) CatalogService {
	return &catalogService{repo: repo}
}

// ListProducts filters by category (case-insensitive) and the featured flag.
func (s *catalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id models.ProductID) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("product '%s': %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product '%s': %w", id, err)
	}
	return p, nil
}
