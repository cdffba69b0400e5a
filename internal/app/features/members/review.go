// internal/app/features/members/review.go
package members

import (
	"context"
	"errors"
	"net/http"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/policy/memberpolicy"
	memberstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/members"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type reviewRequest struct {
	Decision string `json:"decision"` // "approve" | "reject"
	Notes    string `json:"notes"`
}

// HandleReview handles POST /members/{memberID}/review.
// Camp leads, project-leads, the camp owner, and admins may review.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	memberID, ok := pathID(r, "memberID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid member id")
		return
	}

	var req reviewRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid decision",
			map[string]string{"decision": `must be "approve" or "reject"`})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := memberstore.New(h.DB)
	m, err := store.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "member not found")
			return
		}
		h.Log.Error("load member failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	if !memberpolicy.CanReviewApplications(ctx, r, h.DB, m.CampID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "not allowed to review applications for this camp")
		return
	}

	reviewed, err := store.ReviewApplication(ctx, memberID, req.Decision, req.Notes, uid)
	switch {
	case errors.Is(err, memberstore.ErrNotPending):
		httpjson.Error(w, r, http.StatusConflict, "not_pending", err.Error())
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.Error(w, r, http.StatusNotFound, "not_found", "member not found")
		return
	case err != nil:
		h.Log.Error("review application failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusOK, reviewed)
}
