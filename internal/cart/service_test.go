package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/artisanmarket/storefront/internal/cache"
	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository mirrors the MongoDB repository semantics in memory:
// AddItem merges by product id, update/remove report missing items.
type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) AddItem(_ context.Context, sessionID string, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{SessionID: sessionID}
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == item.ProductID {
			m.cart.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	m.cart.Items = append(m.cart.Items, item)
	return nil
}

func (m *mockRepository) UpdateItemQuantity(_ context.Context, _ string, productID string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return ErrItemNotFound
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *mockRepository) RemoveItem(_ context.Context, _ string, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return ErrCartNotFound
	}
	for i, item := range m.cart.Items {
		if item.ProductID == productID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *mockRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func newTestService() (*Service, *mockRepository, *mockCache) {
	repo := &mockRepository{}
	c := &mockCache{}
	return NewService(repo, c), repo, c
}

func item(productID string, price float64, qty int) domain.CartItem {
	return domain.CartItem{
		ProductID: productID,
		Title:     "Product " + productID,
		Price:     price,
		Quantity:  qty,
		AddedAt:   time.Now(),
	}
}

func TestGet_NoCartReturnsEmpty(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cart, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", cart.SessionID)
	assert.True(t, cart.IsEmpty())
}

func TestGet_CacheErrorFallsBackToRepo(t *testing.T) {
	svc, repo, c := newTestService()
	ctx := context.Background()

	repo.cart = &domain.Cart{SessionID: "session-1", Items: []domain.CartItem{item("1", 10, 1)}}
	c.err = errors.New("redis down")

	cart, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestAddItem_SameProductMergesQuantity(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 1)))
	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 2)))
	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 3)))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 6, cart.Items[0].Quantity)

	total, err := svc.TotalItems(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestAddItem_DifferentProductsAppend(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 1)))
	require.NoError(t, svc.AddItem(ctx, "s1", item("2", 32.50, 2)))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	subtotal, err := svc.Subtotal(ctx, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 45.99+2*32.50, subtotal, 1e-9)
}

func TestUpdateQuantity_Zero_EquivalentToRemove(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 2)))
	require.NoError(t, svc.AddItem(ctx, "s1", item("2", 10.00, 1)))

	require.NoError(t, svc.UpdateQuantity(ctx, "s1", "1", 0))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "2", cart.Items[0].ProductID)

	total, err := svc.TotalItems(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	subtotal, err := svc.Subtotal(ctx, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 10.00, subtotal, 1e-9)
}

func TestUpdateQuantity_Negative_AlsoRemoves(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 2)))
	require.NoError(t, svc.UpdateQuantity(ctx, "s1", "1", -3))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 2)))
	require.NoError(t, svc.UpdateQuantity(ctx, "s1", "1", 7))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateQuantity_UnknownProductIsNoop(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 2)))
	require.NoError(t, svc.UpdateQuantity(ctx, "s1", "missing", 5))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestRemoveItem_UnknownProductIsNoop(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RemoveItem(ctx, "s1", "missing"))

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 2)))
	require.NoError(t, svc.RemoveItem(ctx, "s1", "missing"))

	cart, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestClear_ResetsTotals(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 2)))
	require.NoError(t, svc.AddItem(ctx, "s1", item("2", 32.50, 3)))

	require.NoError(t, svc.Clear(ctx, "s1"))

	total, err := svc.TotalItems(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	subtotal, err := svc.Subtotal(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, subtotal)
}

func TestClear_EmptyCartIsNoop(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Clear(ctx, "s1"))
}

func TestMutationsInvalidateCache(t *testing.T) {
	svc, _, c := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 1)))

	// Prime the cache with a stale cart
	c.cart = &domain.Cart{SessionID: "s1", Items: []domain.CartItem{item("1", 45.99, 99)}}

	require.NoError(t, svc.AddItem(ctx, "s1", item("1", 45.99, 1)))
	assert.Nil(t, c.cart, "mutation should invalidate the cached cart")
}

func TestGet_RepoErrorSurfaces(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	repo.err = errors.New("mongo down")

	_, err := svc.Get(ctx, "s1")
	assert.Error(t, err)
}
