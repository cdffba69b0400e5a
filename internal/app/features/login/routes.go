// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes mounts the session endpoints. Typically:
// r.Mount("/login", login.Routes(h)) plus r.Post("/logout", h.HandleLogout).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogin)
	return r
}
