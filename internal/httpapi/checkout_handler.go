package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/artisanmarket/storefront/internal/checkout"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(checkoutSvc *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutSvc,
		timeout:  timeout,
	}
}

// Start opens a checkout session over the caller's cart.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	sessionID := sessionIDFromContext(r.Context())

	session, err := h.checkout.Start(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// UpdateForm merges partial field edits into the session form.
func (h *CheckoutHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var patch checkout.FormPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session, err := h.checkout.UpdateForm(chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Next validates the current step; a failed validation still returns the
// session, now carrying the field errors, with a 422.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Next(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !session.Errors.Empty() {
		respondJSON(w, http.StatusUnprocessableEntity, session)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Back(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Submit finalizes the checkout and returns the order-success payload.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	confirmation, fieldErrors, err := h.checkout.Submit(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if fieldErrors != nil && !fieldErrors.Empty() {
		respondJSON(w, http.StatusUnprocessableEntity, &ValidationResponse{Errors: fieldErrors})
		return
	}

	respondJSON(w, http.StatusOK, confirmation)
}
