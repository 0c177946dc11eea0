package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/artisanmarket/storefront/internal/reviews"
	"github.com/go-chi/chi/v5"
)

const featuredLimit = 4

type ProductHandler struct {
	catalog *catalog.Service
	reviews *reviews.Service
	timeout time.Duration
}

func NewProductHandler(catalogSvc *catalog.Service, reviewSvc *reviews.Service, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalogSvc,
		reviews: reviewSvc,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []*domain.Product `json:"products"`
}

// List handles the shop page: optional search/category query plus a
// price-range filter.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	filter := catalog.QueryFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}

	var err error
	if raw := r.URL.Query().Get("min_price"); raw != "" {
		filter.MinPrice, err = strconv.ParseFloat(raw, 64)
		if err != nil || filter.MinPrice < 0 {
			respondError(w, http.StatusBadRequest, "invalid_price", "min_price must be a non-negative number")
			return
		}
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		filter.MaxPrice, err = strconv.ParseFloat(raw, 64)
		if err != nil || filter.MaxPrice < 0 {
			respondError(w, http.StatusBadRequest, "invalid_price", "max_price must be a non-negative number")
			return
		}
	}

	products, err := h.catalog.Query(ctx, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}

// Featured handles the landing page listing.
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	products, err := h.catalog.Featured(ctx, featuredLimit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	product, err := h.catalog.GetByID(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

type ReviewsResponse struct {
	Reviews []*domain.Review `json:"reviews"`
}

func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	result, err := h.reviews.ListByProduct(ctx, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &ReviewsResponse{Reviews: result})
}

type AddReviewRequestDTO struct {
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r, h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")

	var req AddReviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Author == "" {
		respondError(w, http.StatusBadRequest, "invalid_author", "author is required")
		return
	}

	review, err := h.reviews.Add(ctx, id, req.Author, req.Rating, req.Comment)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, review)
}
