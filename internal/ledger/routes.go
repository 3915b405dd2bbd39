package ledger

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the journal endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/journals", h.List)
	r.Post("/journals", h.Create)
	r.Get("/journals/{id}", h.Get)
	r.Post("/journals/{id}/post", h.Post)
	r.Post("/journals/{id}/unpost", h.Unpost)
	r.Put("/journals/{id}", h.Edit)
	r.Delete("/journals/{id}", h.Delete)
	r.Get("/accounts", h.ListAccounts)
}
