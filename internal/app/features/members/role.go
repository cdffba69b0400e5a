// internal/app/features/members/role.go
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

type roleRequest struct {
	Role   string `json:"role"` // member | project-lead | camp-lead
	Reason string `json:"reason"`
}

// HandleChangeRole handles POST /members/{memberID}/role. Camp-lead only.
// Each change appends to the member's role history; it never rewrites it.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
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

	var req roleRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
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

	if !memberpolicy.CanChangeRoles(ctx, r, h.DB, m.CampID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "only camp leads may change roles")
		return
	}

	if err := store.ChangeRole(ctx, memberID, req.Role, req.Reason, uid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "member not found")
			return
		}
		httpjson.Error(w, r, http.StatusBadRequest, "validation", err.Error())
		return
	}

	updated, err := store.GetByID(ctx, memberID)
	if err != nil {
		h.Log.Error("reload member failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}
