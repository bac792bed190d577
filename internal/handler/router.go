package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	custommiddleware "github.com/mmeshcher/bartab-pos/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware локального API.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", h.CreateSession)
		r.Get("/patrons", h.GetPatrons)
		r.Get("/drinks", h.GetDrinks)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Post("/patrons", h.AddPatron)
			r.Delete("/patrons/{id}", h.RemovePatron)
			r.Post("/patrons/{id}/select", h.SelectPatron)
			r.Get("/patrons/{id}/receipts", h.GetReceipts)

			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ClearCart)
			r.Post("/cart/items", h.AddToCart)
			r.Post("/cart/items/{drink}/increase", h.IncreaseQuantity)
			r.Post("/cart/items/{drink}/decrease", h.DecreaseQuantity)
			r.Delete("/cart/items/{drink}", h.RemoveFromCart)

			r.Get("/tab", h.GetTab)
			r.Post("/tab/commit", h.CommitCart)
			r.Delete("/tab/items/{id}", h.RemoveFromTab)
			r.Post("/tab/settle", h.Settle)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
