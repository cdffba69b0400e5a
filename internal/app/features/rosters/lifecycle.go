// internal/app/features/rosters/lifecycle.go
package rosters

import (
	"context"
	"errors"
	"net/http"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/policy/rosterpolicy"
	rosterstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/rosters"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	Name string `json:"name"`
}

// HandleCreate handles POST /camps/{campID}/roster/create.
// Fails 409 when an active roster already exists; the partial unique index
// guarantees the losing writer is rejected without mutating anything.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}

	var req createRequest
	if r.ContentLength != 0 {
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !rosterpolicy.CanManageRoster(ctx, r, h.DB, campID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "only camp leads may manage the roster")
		return
	}

	roster, err := rosterstore.New(h.DB).Create(ctx, campID, req.Name, uid)
	if err != nil {
		if errors.Is(err, rosterstore.ErrActiveRosterExists) {
			httpjson.Error(w, r, http.StatusConflict, "active_roster_exists", err.Error())
			return
		}
		h.Log.Error("create roster failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusCreated, roster)
}

// HandleArchive handles POST /camps/{campID}/roster/archive. Archiving
// soft-closes the current active roster; a new one is created explicitly
// afterward, never implicitly.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !rosterpolicy.CanManageRoster(ctx, r, h.DB, campID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "only camp leads may manage the roster")
		return
	}

	store := rosterstore.New(h.DB)
	roster, err := store.GetActive(ctx, campID)
	if err != nil {
		h.Log.Error("get active roster failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	if roster == nil {
		httpjson.Error(w, r, http.StatusNotFound, "no_active_roster", "camp has no active roster")
		return
	}

	if err := store.Archive(ctx, roster.ID, uid); err != nil {
		h.Log.Error("archive roster failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	archived, err := store.GetByID(ctx, roster.ID)
	if err != nil {
		h.Log.Error("reload roster failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusOK, archived)
}

type renameRequest struct {
	Name string `json:"name"`
}

// HandleRename handles PUT /rosters/{rosterID}/name.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	rosterID, ok := pathID(r, "rosterID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid roster id")
		return
	}

	var req renameRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Name == "" {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "missing required fields",
			map[string]string{"name": "name is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := rosterstore.New(h.DB)
	roster, err := store.GetByID(ctx, rosterID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "roster not found")
			return
		}
		h.Log.Error("load roster failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	if !rosterpolicy.CanManageRoster(ctx, r, h.DB, roster.CampID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "only camp leads may manage the roster")
		return
	}

	if err := store.Rename(ctx, rosterID, req.Name); err != nil {
		h.writeRosterErr(w, r, err, "rename roster failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeRosterErr maps roster store sentinels onto the API error taxonomy.
func (h *Handler) writeRosterErr(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, rosterstore.ErrRosterArchived):
		httpjson.Error(w, r, http.StatusConflict, "roster_archived", err.Error())
	case errors.Is(err, rosterstore.ErrEntryNotFound):
		httpjson.Error(w, r, http.StatusNotFound, "entry_not_found", err.Error())
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.Error(w, r, http.StatusNotFound, "not_found", "roster not found")
	default:
		h.Log.Error(logMsg, zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
	}
}
