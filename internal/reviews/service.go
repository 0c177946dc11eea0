package reviews

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Service struct {
	repo     ReviewRepository
	products catalog.ProductRepository
}

func NewService(repo ReviewRepository, products catalog.ProductRepository) *Service {
	return &Service{
		repo:     repo,
		products: products,
	}
}

func (s *Service) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	return s.repo.ListByProduct(ctx, productID)
}

// Add stores the review and folds it into the product's average rating
// and review count.
func (s *Service) Add(ctx context.Context, productID, author string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	// Reject reviews for products that don't exist
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		Author:    author,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Insert(ctx, review); err != nil {
		return nil, err
	}

	all, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	sum := 0
	for _, r := range all {
		sum += r.Rating
	}
	// Average rounded to one decimal, matching the catalog display format
	average := math.Round(float64(sum)/float64(len(all))*10) / 10

	if err := s.products.UpdateRating(ctx, productID, average, len(all)); err != nil {
		return nil, err
	}

	return review, nil
}
