package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/artisanmarket/storefront/internal/cache"
	"github.com/artisanmarket/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo CartRepository, cache cache.CartCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// Get returns the cart for a session. A session with no stored cart gets
// an empty one, never an error. Cache failures are logged and skipped;
// the repository is the source of truth.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, ErrCartNotFound) {
			return &domain.Cart{
				SessionID: sessionID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), sessionID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem appends the snapshot item or, when the product is already in
// the cart, increments the existing line's quantity.
func (s *Service) AddItem(ctx context.Context, sessionID string, item domain.CartItem) error {
	if errAdd := s.repo.AddItem(ctx, sessionID, item); errAdd != nil {
		log.Printf("repo add item error: %v", errAdd)
		return errAdd
	}

	s.invalidateCache(sessionID)
	return nil
}

// UpdateQuantity sets the line quantity; zero or negative removes the
// line. An unknown product is a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	errUpdate := s.repo.UpdateItemQuantity(ctx, sessionID, productID, quantity)
	if errors.Is(errUpdate, ErrItemNotFound) {
		return nil
	}
	if errUpdate != nil {
		log.Printf("repo update item quantity error: %v", errUpdate)
		return errUpdate
	}

	s.invalidateCache(sessionID)
	return nil
}

// RemoveItem removes the line if present; a missing line or missing cart
// is a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) error {
	errRemove := s.repo.RemoveItem(ctx, sessionID, productID)
	if errors.Is(errRemove, ErrCartNotFound) || errors.Is(errRemove, ErrItemNotFound) {
		return nil
	}
	if errRemove != nil {
		log.Printf("repo remove item error: %v", errRemove)
		return errRemove
	}

	s.invalidateCache(sessionID)
	return nil
}

// Clear empties the cart. Clearing an already-absent cart is a no-op.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	errDelete := s.repo.DeleteCart(ctx, sessionID)
	if errors.Is(errDelete, ErrCartNotFound) {
		return nil
	}
	if errDelete != nil {
		log.Printf("repo delete cart error: %v", errDelete)
		return errDelete
	}

	s.invalidateCache(sessionID)
	return nil
}

// TotalItems reports the summed quantity across the session's cart.
func (s *Service) TotalItems(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.TotalItems(), nil
}

// Subtotal reports the summed price x quantity across the session's cart.
func (s *Service) Subtotal(ctx context.Context, sessionID string) (float64, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Subtotal(), nil
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
