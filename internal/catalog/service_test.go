package catalog

import (
	"context"
	"testing"

	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	products []*domain.Product
	err      error
}

func (f *fakeRepository) GetAll(context.Context) ([]*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (f *fakeRepository) GetByCategory(_ context.Context, category string) ([]*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matched []*domain.Product
	for _, p := range f.products {
		if p.Category == category {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (f *fakeRepository) Insert(_ context.Context, product *domain.Product) error {
	if f.err != nil {
		return f.err
	}
	f.products = append(f.products, product)
	return nil
}

func (f *fakeRepository) UpdateRating(_ context.Context, id string, rating float64, reviewCount int) error {
	p, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	p.Rating = rating
	p.ReviewCount = reviewCount
	return nil
}

func (f *fakeRepository) Count(context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.products)), nil
}

func testProducts() []*domain.Product {
	return []*domain.Product{
		{ID: "1", Title: "Handmade Ceramic Mug Set", Description: "Beautiful handcrafted ceramic mugs", Category: "Home & Living", Price: 45.99},
		{ID: "2", Title: "Vintage Leather Journal", Description: "Authentic vintage leather journal", Category: "Art & Collectibles", Price: 32.50},
		{ID: "3", Title: "Macrame Wall Hanging", Description: "Handwoven macrame wall hanging", Category: "Home & Living", Price: 78.00},
		{ID: "4", Title: "Sterling Silver Ring", Description: "Elegant sterling silver ring", Category: "Jewelry & Accessories", Price: 125.00},
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title match", "ceramic", []string{"1"}},
		{"uppercase query", "CERAMIC", []string{"1"}},
		{"description match", "vintage leather", []string{"2"}},
		{"category match", "jewelry", []string{"4"}},
		{"substring across products", "hand", []string{"1", "3"}},
		{"no match", "spaceship", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := svc.Search(ctx, tt.query)
			require.NoError(t, err)

			var ids []string
			for _, p := range results {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestQuery_PriceRange(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})
	ctx := context.Background()

	results, err := svc.Query(ctx, QueryFilter{MinPrice: 40, MaxPrice: 100})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "3", results[1].ID)
}

func TestQuery_PriceBoundsInclusive(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})
	ctx := context.Background()

	results, err := svc.Query(ctx, QueryFilter{MinPrice: 32.50, MaxPrice: 45.99})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestQuery_SearchWinsOverCategory(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})
	ctx := context.Background()

	results, err := svc.Query(ctx, QueryFilter{Search: "silver", Category: "Home & Living"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "4", results[0].ID)
}

func TestQuery_CategoryOnly(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})
	ctx := context.Background()

	results, err := svc.Query(ctx, QueryFilter{Category: "Home & Living"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQuery_NoFilterReturnsAll(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})
	ctx := context.Background()

	results, err := svc.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestFeatured_RespectsLimit(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})
	ctx := context.Background()

	results, err := svc.Featured(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	all, err := svc.Featured(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&fakeRepository{products: testProducts()})

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSeed_OnlyOnEmptyCatalog(t *testing.T) {
	repo := &fakeRepository{}
	ctx := context.Background()

	require.NoError(t, Seed(ctx, repo))
	seeded := len(repo.products)
	assert.Greater(t, seeded, 0)

	// Second run must not duplicate
	require.NoError(t, Seed(ctx, repo))
	assert.Equal(t, seeded, len(repo.products))
}
