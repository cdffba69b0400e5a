// internal/app/features/camps/apply.go
package camps

import (
	"context"
	"errors"
	"net/http"

	memberstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/members"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type applyRequest struct {
	Essay   string            `json:"essay"`
	Answers map[string]string `json:"answers"`
}

// HandleApply handles POST /camps/{campID}/apply. Any signed-in user may
// apply; the store enforces the one-member-per-(camp,user) invariant and
// the recruiting gate.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
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

	var req applyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	app := models.Application{Essay: h.sanitize.Sanitize(req.Essay)}
	if len(req.Answers) > 0 {
		app.Answers = make(map[string]string, len(req.Answers))
		for q, a := range req.Answers {
			app.Answers[q] = h.sanitize.Sanitize(a)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := memberstore.New(h.DB).ApplyToCamp(ctx, uid, campID, app)
	switch {
	case errors.Is(err, memberstore.ErrDuplicateApplication):
		httpjson.Error(w, r, http.StatusConflict, "already_applied", err.Error())
		return
	case errors.Is(err, memberstore.ErrNotRecruiting):
		httpjson.Error(w, r, http.StatusConflict, "not_recruiting", err.Error())
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.Error(w, r, http.StatusNotFound, "not_found", "camp not found")
		return
	case err != nil:
		h.Log.Error("apply to camp failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusCreated, m)
}
