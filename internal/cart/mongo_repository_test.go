package cart

import (
	"context"
	"testing"
	"time"

	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/artisanmarket/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := storage.ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)

	mongoRepo := repo.(*mongoRepository)
	err = mongoRepo.CreateIndexes(ctx)
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestGetCart_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart, err := repo.GetCart(ctx, "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestAddItem_NewCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "session-123"
	item := domain.CartItem{
		ProductID: "1",
		Title:     "Handmade Ceramic Mug Set",
		Price:     45.99,
		Quantity:  3,
	}

	err := repo.AddItem(ctx, sessionID, item)
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, cart.SessionID)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "1", cart.Items[0].ProductID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 45.99, cart.Items[0].Price)
	assert.False(t, cart.Items[0].AddedAt.IsZero())
}

func TestAddItem_ExistingItem_IncrementsQuantity(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "session-123"

	err := repo.AddItem(ctx, sessionID, domain.CartItem{ProductID: "1", Quantity: 2})
	require.NoError(t, err)

	// Adding the same product again increments, it does not replace
	err = repo.AddItem(ctx, sessionID, domain.CartItem{ProductID: "1", Quantity: 5})
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestAddItem_SeparateSessionsStayApart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, repo.AddItem(ctx, "session-a", domain.CartItem{ProductID: "1", Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, "session-b", domain.CartItem{ProductID: "1", Quantity: 9}))

	cartA, err := repo.GetCart(ctx, "session-a")
	require.NoError(t, err)
	assert.Equal(t, 1, cartA.Items[0].Quantity)

	cartB, err := repo.GetCart(ctx, "session-b")
	require.NoError(t, err)
	assert.Equal(t, 9, cartB.Items[0].Quantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "session-123"

	err := repo.AddItem(ctx, sessionID, domain.CartItem{ProductID: "1", Quantity: 2})
	require.NoError(t, err)

	err = repo.UpdateItemQuantity(ctx, sessionID, "1", 10)
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 10, cart.Items[0].Quantity)
}

func TestUpdateItemQuantity_MissingItem(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	err := repo.UpdateItemQuantity(ctx, "session-123", "1", 10)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "session-123"

	require.NoError(t, repo.AddItem(ctx, sessionID, domain.CartItem{ProductID: "1", Quantity: 2}))
	require.NoError(t, repo.AddItem(ctx, sessionID, domain.CartItem{ProductID: "2", Quantity: 3}))

	err := repo.RemoveItem(ctx, sessionID, "1")
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "2", cart.Items[0].ProductID)
}

func TestDeleteCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "session-123"

	require.NoError(t, repo.AddItem(ctx, sessionID, domain.CartItem{ProductID: "1", Quantity: 2}))

	err := repo.DeleteCart(ctx, sessionID)
	require.NoError(t, err)

	_, err = repo.GetCart(ctx, sessionID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestDeleteCart_MissingCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.DeleteCart(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestContextCancellation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(10 * time.Millisecond) // Ensure context is cancelled

	_, err := repo.GetCart(ctx, "session-123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "context")
}
