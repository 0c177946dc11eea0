package catalog

import (
	"context"
	"errors"

	"github.com/artisanmarket/storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the narrow read/write surface the storefront needs
// from the product collection.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) error
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
	Count(ctx context.Context) (int64, error)
}
