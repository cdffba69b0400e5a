// internal/app/features/camps/routes.go
package camps

import (
	"github.com/go-chi/chi/v5"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/auth"
)

// Routes mounts all camp routes. Typically:
// r.Mount("/camps", camps.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Get("/{campID}", h.HandleGet)
		pr.Patch("/{campID}", h.HandlePatch)
		pr.Post("/{campID}/apply", h.HandleApply)
	})

	return r
}
