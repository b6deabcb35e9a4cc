package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required unless no key is configured)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Get("/catalog", h.Catalog)
			r.Get("/products", h.Products)

			r.Put("/filters/category", h.SelectCategory)
			r.Put("/filters/query", h.SetQuery)
			r.Post("/filters/reset", h.ResetFilters)
			r.Post("/search/ai", h.AISearch)

			r.Get("/cart", h.Cart)
			r.Post("/cart/items", h.AddToCart)
			r.Patch("/cart/items/{id}", h.UpdateCartItem)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/summary", h.OrderSummary)
		})
	})

	return r
}
