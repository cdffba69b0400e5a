// internal/app/features/camps/camp.go
package camps

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	campstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/camps"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createRequest struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Recruiting     bool       `json:"recruiting"`
	EventOpenDate  *time.Time `json:"event_open_date"`
	EventCloseDate *time.Time `json:"event_close_date"`
}

// HandleCreate handles POST /camps. The creator becomes the camp owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "missing required fields",
			map[string]string{"name": "name is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	camp := models.Camp{
		Name:        req.Name,
		Description: h.sanitize.Sanitize(req.Description),
		City:        req.City,
		State:       req.State,
		OwnerID:     uid,
		Recruiting:  req.Recruiting,
	}
	if req.EventOpenDate != nil {
		camp.EventOpenDate = *req.EventOpenDate
	}
	if req.EventCloseDate != nil {
		camp.EventCloseDate = *req.EventCloseDate
	}

	created, err := campstore.New(h.DB).Create(ctx, camp)
	if err != nil {
		if errors.Is(err, campstore.ErrDuplicateCampName) {
			httpjson.Error(w, r, http.StatusConflict, "duplicate_name", err.Error())
			return
		}
		h.Log.Error("create camp failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

// HandleGet handles GET /camps/{campID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	camp, err := campstore.New(h.DB).GetByID(ctx, campID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "camp not found")
			return
		}
		h.Log.Error("get camp failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusOK, camp)
}

type patchRequest struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	City           *string    `json:"city"`
	State          *string    `json:"state"`
	Recruiting     *bool      `json:"recruiting"`
	EventOpenDate  *time.Time `json:"event_open_date"`
	EventCloseDate *time.Time `json:"event_close_date"`
}

// HandlePatch handles PATCH /camps/{campID}. Owner or admin only.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := campstore.New(h.DB)
	camp, err := store.GetByID(ctx, campID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "camp not found")
			return
		}
		h.Log.Error("get camp failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	_, _, uid, signedIn := authz.UserCtx(r)
	if !signedIn || (camp.OwnerID != uid && !authz.IsAdmin(r)) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "only the camp owner may edit the camp")
		return
	}

	var req patchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = h.sanitize.Sanitize(*req.Description)
	}
	if req.City != nil {
		set["city"] = *req.City
	}
	if req.State != nil {
		set["state"] = *req.State
	}
	if req.Recruiting != nil {
		set["recruiting"] = *req.Recruiting
	}
	if req.EventOpenDate != nil {
		set["event_open_date"] = *req.EventOpenDate
	}
	if req.EventCloseDate != nil {
		set["event_close_date"] = *req.EventCloseDate
	}

	if err := store.UpdateInfo(ctx, campID, set); err != nil {
		if errors.Is(err, campstore.ErrDuplicateCampName) {
			httpjson.Error(w, r, http.StatusConflict, "duplicate_name", err.Error())
			return
		}
		h.Log.Error("patch camp failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	updated, err := store.GetByID(ctx, campID)
	if err != nil {
		h.Log.Error("reload camp failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}
