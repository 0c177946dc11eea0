package catalog

import (
	"context"
	"strings"

	"github.com/artisanmarket/storefront/internal/domain"
)

type Service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

// QueryFilter narrows a listing. Zero values mean "no constraint";
// MaxPrice <= 0 disables the upper bound.
type QueryFilter struct {
	Search   string
	Category string
	MinPrice float64
	MaxPrice float64
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.GetByCategory(ctx, category)
}

// Search fetches the whole collection and filters by case-insensitive
// substring over title, description and category.
// TODO: replace with a text index once the catalog outgrows a single fetch.
func (s *Service) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matched := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Featured returns the newest products for the landing page.
func (s *Service) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// Query runs the listing flow behind the shop page: search wins over
// category, then the price-range filter is applied to whatever came back.
func (s *Service) Query(ctx context.Context, filter QueryFilter) ([]*domain.Product, error) {
	var (
		products []*domain.Product
		err      error
	)

	switch {
	case filter.Search != "":
		products, err = s.Search(ctx, filter.Search)
	case filter.Category != "":
		products, err = s.GetByCategory(ctx, filter.Category)
	default:
		products, err = s.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	return filterByPrice(products, filter.MinPrice, filter.MaxPrice), nil
}

func filterByPrice(products []*domain.Product, min, max float64) []*domain.Product {
	if min <= 0 && max <= 0 {
		return products
	}

	filtered := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if p.Price < min {
			continue
		}
		if max > 0 && p.Price > max {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
