// internal/app/features/rosters/active.go
package rosters

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/filters"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/resolve"
	campstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/camps"
	rosterstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/rosters"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type activeResponse struct {
	Roster  *rosterView      `json:"roster"` // null when the camp has no active roster
	Metrics *filters.Metrics `json:"metrics,omitempty"`
}

type rosterView struct {
	models.Roster
	Entries []entryView `json:"entries"`
}

// HandleActive handles GET /rosters/active?camp=<id>&filters=a,b.
//
// "No active roster" is a valid state: the response is 200 with a null
// roster so the client can show the create affordance instead of an error.
func (h *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	campHex := query.Get(r, "camp")
	campID, err := primitive.ObjectIDFromHex(campHex)
	if err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid or missing camp id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	roster, err := rosterstore.New(h.DB).GetActive(ctx, campID)
	if err != nil {
		h.Log.Error("get active roster failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	if roster == nil {
		httpjson.Write(w, http.StatusOK, activeResponse{Roster: nil})
		return
	}

	resolved, views, err := h.resolveEntries(ctx, h.DB, roster.Entries)
	if err != nil {
		h.Log.Error("resolve roster entries failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	cfg, err := h.filterConfig(ctx, campID, resolved)
	if err != nil {
		h.Log.Error("load camp for filters failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	// Optional filtering: trim the entry list to members passing every token.
	if raw := query.Get(r, "filters"); raw != "" {
		preds, err := filters.Compile(splitTokens(raw), cfg)
		if err != nil {
			httpjson.Error(w, r, http.StatusBadRequest, "bad_filter", err.Error())
			return
		}
		keep := map[primitive.ObjectID]struct{}{}
		for _, em := range filters.Apply(preds, resolved) {
			keep[em.MemberID] = struct{}{}
		}
		filtered := views[:0]
		for _, v := range views {
			if _, ok := keep[v.MemberID]; ok {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	metrics := filters.Summarize(resolved, cfg)
	httpjson.Write(w, http.StatusOK, activeResponse{
		Roster:  &rosterView{Roster: *roster, Entries: views},
		Metrics: &metrics,
	})
}

// filterConfig builds the predicate config from the camp's event window and
// the skills present on the resolved roster.
func (h *Handler) filterConfig(ctx context.Context, campID primitive.ObjectID, resolved []resolve.EffectiveMember) (filters.Config, error) {
	camp, err := campstore.New(h.DB).GetByID(ctx, campID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return filters.Config{}, err
	}
	return filters.Config{
		EventOpen:   camp.EventOpenDate,
		EventClose:  camp.EventCloseDate,
		KnownSkills: filters.KnownSkills(resolved),
	}, nil
}

func splitTokens(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
