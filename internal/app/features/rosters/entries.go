// internal/app/features/rosters/entries.go
package rosters

import (
	"context"
	"errors"
	"net/http"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/policy/rosterpolicy"
	memberstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/members"
	rosterstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/rosters"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type addMemberRequest struct {
	MemberID string `json:"member_id"`
}

// HandleAddMember handles POST /rosters/{rosterID}/members. Adding a member
// who is already on the roster is a no-op success; the store guards the push
// so concurrent adds never duplicate an entry.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	rosterID, ok := pathID(r, "rosterID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid roster id")
		return
	}

	var req addMemberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.MemberID)
	if err != nil {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid member id",
			map[string]string{"member_id": "must be a valid id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := rosterstore.New(h.DB)
	roster, err := store.GetByID(ctx, rosterID)
	if err != nil {
		h.writeRosterErr(w, r, err, "load roster failed")
		return
	}
	if !rosterpolicy.CanManageRoster(ctx, r, h.DB, roster.CampID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "only camp leads may manage the roster")
		return
	}

	member, err := memberstore.New(h.DB).GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.Log.Error("load member failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	if member.CampID != roster.CampID {
		httpjson.Error(w, r, http.StatusConflict, "wrong_camp", "member belongs to a different camp")
		return
	}
	if member.Status != models.MemberActive {
		httpjson.Error(w, r, http.StatusConflict, "member_not_active", "only active members may be added to a roster")
		return
	}

	if err := store.AddMember(ctx, rosterID, memberID, uid); err != nil {
		h.writeRosterErr(w, r, err, "add roster member failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveMember handles DELETE /camps/{campID}/roster/member/{memberID}.
// Removal pulls the roster entry and deletes the member record together, so
// the person can reapply from a clean slate.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}
	memberID, ok := pathID(r, "memberID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid member id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !rosterpolicy.CanManageRoster(ctx, r, h.DB, campID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "only camp leads may manage the roster")
		return
	}

	if err := memberstore.New(h.DB).RemoveAndReset(ctx, campID, memberID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.Log.Error("remove member failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
