package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/artisanmarket/storefront/internal/cart"
	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cart    *cart.Service
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(cartSvc *cart.Service, catalogSvc *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cartSvc,
		catalog: catalogSvc,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartResponse bundles the cart with the totals block so the cart page
// and the checkout summary render the same numbers.
type CartResponse struct {
	Cart       *domain.Cart       `json:"cart"`
	TotalItems int                `json:"total_items"`
	Totals     domain.OrderTotals `json:"totals"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	h.respondCart(ctx, w, sessionID, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// The line item snapshots the product at add time
	product, err := h.catalog.GetByID(ctx, req.ProductID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Title:     product.Title,
		Image:     product.Image,
		Seller:    product.Seller,
		Price:     product.Price,
		Quantity:  req.Quantity,
	}

	if err := h.cart.AddItem(ctx, sessionID, item); err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondCart(ctx, w, sessionID, http.StatusCreated)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	// Zero and below removes the line
	if err := h.cart.UpdateQuantity(ctx, sessionID, productID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondCart(ctx, w, sessionID, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	if err := h.cart.RemoveItem(ctx, sessionID, productID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondCart(ctx, w, sessionID, http.StatusOK)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())

	if err := h.cart.Clear(ctx, sessionID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.respondCart(ctx, w, sessionID, http.StatusOK)
}

func (h *CartHandler) respondCart(ctx context.Context, w http.ResponseWriter, sessionID string, status int) {
	c, err := h.cart.Get(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, status, &CartResponse{
		Cart:       c,
		TotalItems: c.TotalItems(),
		Totals:     domain.ComputeTotals(c.Subtotal()),
	})
}

func contextWithTimeout(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeout)
}
