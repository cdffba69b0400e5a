// internal/app/features/members/status.go
package members

import (
	"context"
	"errors"
	"net/http"

	memberstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/members"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

type statusRequest struct {
	Status string `json:"status"` // pending | active | inactive | suspended | rejected
}

// HandleSetStatus handles POST /members/{memberID}/status. Admin-only; this
// bypasses the review workflow and forces any lifecycle state directly.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "memberID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid member id")
		return
	}

	var req statusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := memberstore.New(h.DB).SetStatus(ctx, memberID, req.Status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "member not found")
			return
		}
		httpjson.Error(w, r, http.StatusBadRequest, "validation", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
