package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperengineering/shopfront/internal/storefront"
	"github.com/hyperengineering/shopfront/internal/types"
	"github.com/hyperengineering/shopfront/internal/validation"
)

// maxQueryLength bounds the free-text search query.
const maxQueryLength = 500

// Handler implements the API handlers over the storefront service.
type Handler struct {
	service *storefront.Service
	model   string
	apiKey  string
	version string
}

// NewHandler creates a new Handler.
func NewHandler(s *storefront.Service, model, apiKey, version string) *Handler {
	return &Handler{
		service: s,
		model:   model,
		apiKey:  apiKey,
		version: version,
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:      "healthy",
		Version:     h.version,
		Model:       h.model,
		CatalogSize: h.service.Catalog().Len(),
	})
}

// Catalog handles GET /api/v1/catalog.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Catalog().Products())
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.VisibleProducts())
}

// SelectCategory handles PUT /api/v1/filters/category.
func (h *Handler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req types.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	allowed := []string{types.CategoryAll}
	for _, c := range types.Categories() {
		allowed = append(allowed, string(c))
	}

	var v validation.Collector
	v.Add(validation.ValidateEnum("category", req.Category, allowed))
	if v.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", v.Errors())
		return
	}

	writeJSON(w, http.StatusOK, h.service.SelectCategory(req.Category))
}

// SetQuery handles PUT /api/v1/filters/query.
func (h *Handler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req types.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var v validation.Collector
	v.Add(validation.ValidateUTF8("query", req.Query))
	v.Add(validation.ValidateMaxLength("query", req.Query, maxQueryLength))
	if v.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", v.Errors())
		return
	}

	writeJSON(w, http.StatusOK, h.service.SetQueryText(req.Query))
}

// ResetFilters handles POST /api/v1/filters/reset.
func (h *Handler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ResetFilters())
}

// AISearch handles POST /api/v1/search/ai.
func (h *Handler) AISearch(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.SubmitAISearch(r.Context())
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Cart handles GET /api/v1/cart.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CartState())
}

// AddToCart handles POST /api/v1/cart/items.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req types.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var v validation.Collector
	v.Add(validation.ValidateRequired("product_id", req.ProductID))
	if v.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", v.Errors())
		return
	}

	resp, err := h.service.AddToCart(req.ProductID)
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateCartItem handles PATCH /api/v1/cart/items/{id}.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req types.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var v validation.Collector
	v.Add(validation.ValidateRequired("id", id))
	v.Add(validation.ValidateNonZero("delta", req.Delta))
	if v.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", v.Errors())
		return
	}

	writeJSON(w, http.StatusOK, h.service.UpdateCartQuantity(id, req.Delta))
}

// ClearCart handles DELETE /api/v1/cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ClearCart())
}

// OrderSummary handles POST /api/v1/cart/summary.
func (h *Handler) OrderSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RequestOrderSummary(r.Context())
	if err != nil {
		MapServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.SummaryResponse{Summary: summary})
}
