// internal/app/features/rosters/overrides.go
package rosters

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/policy/rosterpolicy"
	rosterstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/rosters"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/normalize"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.uber.org/zap"
)

// HandleSetOverrides handles PUT /rosters/{rosterID}/members/{memberID}/overrides.
//
// The body is a sparse object over the override fields. Three wire states map
// to three merge outcomes: a field absent from the body is untouched, a field
// set to JSON null is cleared (defer to the user), and any other value is
// stored verbatim, including false, 0 and []. That last part is load-bearing:
// an explicit false must win over the user's true.
func (h *Handler) HandleSetOverrides(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	rosterID, ok := pathID(r, "rosterID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid roster id")
		return
	}
	memberID, ok := pathID(r, "memberID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid member id")
		return
	}

	var raw map[string]json.RawMessage
	if err := httpjson.Decode(r, &raw); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	patch, fieldErrs := buildOverridePatch(raw)
	if len(fieldErrs) > 0 {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid override fields", fieldErrs)
		return
	}
	if len(patch.Set) == 0 && len(patch.Clear) == 0 {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "empty override patch")
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

	if err := store.SetOverride(ctx, rosterID, memberID, patch); err != nil {
		h.writeRosterErr(w, r, err, "set overrides failed")
		return
	}

	// Clients read the merged result straight from the response, so reload
	// the entry and serve it in the same resolved shape as the active view.
	updated, err := store.GetByID(ctx, rosterID)
	if err != nil {
		h.writeRosterErr(w, r, err, "reload roster failed")
		return
	}
	for _, e := range updated.Entries {
		if e.MemberID != memberID {
			continue
		}
		_, views, err := h.resolveEntries(ctx, h.DB, []models.RosterEntry{e})
		if err != nil {
			h.Log.Error("resolve updated entry failed", zap.Error(err))
			httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
			return
		}
		if len(views) == 1 {
			httpjson.Write(w, http.StatusOK, views[0])
			return
		}
		// Member or user record vanished mid-request; the entry itself is
		// still the authoritative merge result.
		httpjson.Write(w, http.StatusOK, entryView{RosterEntry: e})
		return
	}
	httpjson.Error(w, r, http.StatusNotFound, "entry_not_found", "roster entry not found")
}

// buildOverridePatch converts the raw wire object into a store patch,
// decoding each field against its declared type so a string never lands
// where a bool belongs.
func buildOverridePatch(raw map[string]json.RawMessage) (rosterstore.OverridePatch, map[string]string) {
	patch := rosterstore.OverridePatch{Set: map[string]interface{}{}}
	fieldErrs := map[string]string{}

	for name, val := range raw {
		if !rosterstore.IsOverrideField(name) {
			fieldErrs[name] = "unknown override field"
			continue
		}
		if string(val) == "null" {
			patch.Clear = append(patch.Clear, name)
			continue
		}
		v, err := decodeOverrideValue(name, val)
		if err != nil {
			fieldErrs[name] = err.Error()
			continue
		}
		patch.Set[name] = v
	}
	return patch, fieldErrs
}

func decodeOverrideValue(name string, val json.RawMessage) (interface{}, error) {
	switch name {
	case "has_ticket", "has_vehicle_pass", "interested_in_eap", "interested_in_strike":
		var b bool
		if err := json.Unmarshal(val, &b); err != nil {
			return nil, jsonTypeErr("boolean")
		}
		return b, nil
	case "years_burned":
		var n int
		if err := json.Unmarshal(val, &n); err != nil {
			return nil, jsonTypeErr("integer")
		}
		if n < 0 {
			return nil, jsonTypeErr("non-negative integer")
		}
		return n, nil
	case "skills":
		var ss []string
		if err := json.Unmarshal(val, &ss); err != nil {
			return nil, jsonTypeErr("array of strings")
		}
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			if folded := normalize.Skill(s); folded != "" {
				out = append(out, folded)
			}
		}
		return out, nil
	case "arrival_date", "departure_date":
		var t time.Time
		if err := json.Unmarshal(val, &t); err != nil {
			return nil, jsonTypeErr("RFC 3339 timestamp")
		}
		return t.UTC(), nil
	default: // playa_name, city, state
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return nil, jsonTypeErr("string")
		}
		return s, nil
	}
}

type fieldTypeError string

func (e fieldTypeError) Error() string { return string(e) }

func jsonTypeErr(want string) error { return fieldTypeError("must be a " + want + " or null") }

type duesRequest struct {
	DuesStatus string `json:"dues_status"`
}

// HandleSetDues handles PUT /rosters/{rosterID}/members/{memberID}/dues.
func (h *Handler) HandleSetDues(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	rosterID, ok := pathID(r, "rosterID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid roster id")
		return
	}
	memberID, ok := pathID(r, "memberID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid member id")
		return
	}

	var req duesRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.DuesStatus != models.DuesPaid && req.DuesStatus != models.DuesUnpaid {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid dues status",
			map[string]string{"dues_status": `must be "Paid" or "Unpaid"`})
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

	if err := store.SetDuesStatus(ctx, rosterID, memberID, req.DuesStatus); err != nil {
		h.writeRosterErr(w, r, err, "set dues status failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type entryStatusRequest struct {
	Status string `json:"status"`
}

// HandleSetEntryStatus handles PUT /rosters/{rosterID}/members/{memberID}/status.
func (h *Handler) HandleSetEntryStatus(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	rosterID, ok := pathID(r, "rosterID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid roster id")
		return
	}
	memberID, ok := pathID(r, "memberID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid member id")
		return
	}

	var req entryStatusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Status != models.EntryApproved && req.Status != models.EntryPending && req.Status != models.EntryRejected {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid entry status",
			map[string]string{"status": `must be "approved", "pending" or "rejected"`})
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

	if err := store.SetEntryStatus(ctx, rosterID, memberID, req.Status); err != nil {
		h.writeRosterErr(w, r, err, "set entry status failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
