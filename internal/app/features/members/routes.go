// internal/app/features/members/routes.go
package members

import (
	"github.com/go-chi/chi/v5"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/auth"
)

// Routes mounts the member lifecycle routes. Typically:
// r.Mount("/members", members.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/{memberID}/review", h.HandleReview)
		pr.Post("/{memberID}/role", h.HandleChangeRole)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "superadmin"))

		pr.Post("/{memberID}/status", h.HandleSetStatus)
	})

	return r
}

// CampRoutes mounts camp-scoped member listings. Typically:
// r.Mount("/camps/{campID}/members", members.CampRoutes(handler))
func CampRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.HandleListByCamp)
	})

	return r
}
