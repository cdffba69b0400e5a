// internal/app/features/accounts/register.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles POST /register. New accounts always get the plain
// "user" role; elevation happens elsewhere.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	fields := map[string]string{}
	if req.FullName == "" {
		fields["full_name"] = "full name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "missing required fields", fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     "user",
	}, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, r, http.StatusConflict, "duplicate_email", err.Error())
			return
		}
		h.Log.Error("register failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	httpjson.Write(w, http.StatusCreated, u)
}
