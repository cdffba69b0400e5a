// internal/app/features/rosters/routes.go
package rosters

import (
	"github.com/go-chi/chi/v5"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/auth"
)

// Routes mounts the roster routes. Typically:
// r.Mount("/rosters", rosters.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/active", h.HandleActive)
		pr.Get("/{rosterID}/export", h.HandleExport)
		pr.Put("/{rosterID}/name", h.HandleRename)
		pr.Post("/{rosterID}/members", h.HandleAddMember)
		pr.Put("/{rosterID}/members/{memberID}/overrides", h.HandleSetOverrides)
		pr.Put("/{rosterID}/members/{memberID}/dues", h.HandleSetDues)
		pr.Put("/{rosterID}/members/{memberID}/status", h.HandleSetEntryStatus)
	})

	return r
}

// CampRoutes mounts camp-scoped roster lifecycle routes. Typically:
// r.Mount("/camps/{campID}/roster", rosters.CampRoutes(handler))
func CampRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/create", h.HandleCreate)
		pr.Post("/archive", h.HandleArchive)
		pr.Delete("/member/{memberID}", h.HandleRemoveMember)
	})

	return r
}
