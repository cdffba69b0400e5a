// internal/app/features/accounts/profile.go
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/normalize"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleGetProfile handles GET /profile.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("load profile failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// profileFields maps wire names onto their stored counterparts. The burn
// profile uses the same tri-state wire convention as roster overrides:
// absent leaves the field alone, null clears it back to "not informed".
var profileFields = map[string]struct{}{
	"full_name":            {},
	"playa_name":           {},
	"years_burned":         {},
	"skills":               {},
	"has_ticket":           {},
	"has_vehicle_pass":     {},
	"interested_in_eap":    {},
	"interested_in_strike": {},
	"arrival_date":         {},
	"departure_date":       {},
	"city":                 {},
	"state":                {},
	"social_links":         {},
}

// HandleUpdateProfile handles PUT /profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var raw map[string]json.RawMessage
	if err := httpjson.Decode(r, &raw); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	set := bson.M{}
	var clear []string
	fieldErrs := map[string]string{}
	for name, val := range raw {
		if _, ok := profileFields[name]; !ok {
			fieldErrs[name] = "unknown profile field"
			continue
		}
		if string(val) == "null" {
			if name == "full_name" {
				fieldErrs[name] = "full name cannot be cleared"
				continue
			}
			clear = append(clear, name)
			continue
		}
		v, err := decodeProfileValue(name, val)
		if err != nil {
			fieldErrs[name] = err.Error()
			continue
		}
		set[name] = v
	}
	if len(fieldErrs) > 0 {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid profile fields", fieldErrs)
		return
	}
	if len(set) == 0 && len(clear) == 0 {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "empty profile patch")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := userstore.New(h.DB)
	if err := store.UpdateProfile(ctx, uid, set, clear); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.Log.Error("update profile failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	u, err := store.GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("reload profile failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

func decodeProfileValue(name string, val json.RawMessage) (interface{}, error) {
	switch name {
	case "has_ticket", "has_vehicle_pass", "interested_in_eap", "interested_in_strike":
		var b bool
		if err := json.Unmarshal(val, &b); err != nil {
			return nil, errors.New("must be a boolean or null")
		}
		return b, nil
	case "years_burned":
		var n int
		if err := json.Unmarshal(val, &n); err != nil || n < 0 {
			return nil, errors.New("must be a non-negative integer or null")
		}
		return n, nil
	case "skills", "social_links":
		var ss []string
		if err := json.Unmarshal(val, &ss); err != nil {
			return nil, errors.New("must be an array of strings or null")
		}
		if name == "skills" {
			out := make([]string, 0, len(ss))
			for _, s := range ss {
				if folded := normalize.Skill(s); folded != "" {
					out = append(out, folded)
				}
			}
			return out, nil
		}
		return ss, nil
	case "arrival_date", "departure_date":
		var t time.Time
		if err := json.Unmarshal(val, &t); err != nil {
			return nil, errors.New("must be an RFC 3339 timestamp or null")
		}
		return t.UTC(), nil
	default:
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return nil, errors.New("must be a string or null")
		}
		if name == "full_name" && s == "" {
			return nil, errors.New("full name cannot be empty")
		}
		return s, nil
	}
}

type userStatusRequest struct {
	Status string `json:"status"`
}

// HandleSetUserStatus handles POST /users/{userID}/status. Admin only;
// accounts are disabled, never deleted.
func (h *Handler) HandleSetUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid user id")
		return
	}

	var req userStatusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := userstore.New(h.DB).SetStatus(ctx, userID, req.Status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "user not found")
			return
		}
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid status",
			map[string]string{"status": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
