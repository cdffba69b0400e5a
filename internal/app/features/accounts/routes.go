// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/auth"
)

// Routes mounts registration and profile routes at the root. Typically:
// r.Mount("/", accounts.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/profile", h.HandleGetProfile)
		pr.Put("/profile", h.HandleUpdateProfile)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "superadmin"))
		pr.Post("/users/{userID}/status", h.HandleSetUserStatus)
	})

	return r
}
