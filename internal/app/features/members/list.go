// internal/app/features/members/list.go
package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	memberstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/members"
	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memberRow joins a member record with display fields from its user.
type memberRow struct {
	models.Member
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// HandleListByCamp handles GET /camps/{campID}/members?status=pending.
// Entries are resolved to user display names the same way roster entries are.
func (h *Handler) HandleListByCamp(w http.ResponseWriter, r *http.Request) {
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}
	status := query.Get(r, "status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ms, err := memberstore.New(h.DB).ListByCamp(ctx, campID, status)
	if err != nil {
		h.Log.Error("list members failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := userstore.New(h.DB).GetMany(ctx, userIDs)
	if err != nil {
		h.Log.Error("load member users failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	rows := make([]memberRow, 0, len(ms))
	for _, m := range ms {
		row := memberRow{Member: m}
		if u, ok := users[m.UserID]; ok {
			row.FullName = u.FullName
			row.Email = u.Email
		}
		rows = append(rows, row)
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"members": rows})
}
