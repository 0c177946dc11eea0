package httpapi

import (
	"net/http"
	"time"

	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/artisanmarket/storefront/internal/orders"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	orders  orders.OrderRepository
	timeout time.Duration
}

func NewOrdersHandler(orderRepo orders.OrderRepository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orderRepo,
		timeout: timeout,
	}
}

type OrdersResponse struct {
	Orders []*domain.Order `json:"orders"`
}

// List returns the caller's order history.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())

	result, err := h.orders.ListOrdersBySession(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &OrdersResponse{Orders: result})
}

// Get looks an order up by its order number. The confirmation page asks
// for this and falls back to placeholders on a 404.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	number := chi.URLParam(r, "number")

	order, err := h.orders.GetOrderByNumber(ctx, number)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}
