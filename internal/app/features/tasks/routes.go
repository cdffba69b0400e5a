// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/auth"
)

// Routes mounts id-scoped task actions. Typically:
// r.Mount("/tasks", tasks.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/{taskID}/close", h.HandleClose)
		pr.Post("/{taskID}/reopen", h.HandleReopen)
		pr.Post("/{taskID}/assign", h.HandleAssign)
		pr.Post("/{taskID}/unassign", h.HandleUnassign)
		pr.Post("/{taskID}/watch", h.HandleWatch)
		pr.Post("/{taskID}/comments", h.HandleComment)
	})

	return r
}

// CampRoutes mounts the camp-scoped task board. Typically:
// r.Mount("/camps/{campID}/tasks", tasks.CampRoutes(handler))
func CampRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Get("/", h.HandleListByCamp)
		pr.Get("/{taskID}", h.HandleGet)
		pr.Patch("/{taskID}", h.HandlePatch)
	})

	return r
}
