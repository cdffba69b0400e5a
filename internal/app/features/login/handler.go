// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/auth"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the session login endpoint. OAuth and invite delivery are
// external collaborators; this only covers password sessions for the API.
type Handler struct {
	DB       *mongo.Database
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Sessions: sessions, Log: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	fields := map[string]string{}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "email is required"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "missing required fields", fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		// Same response for unknown email and wrong password.
		httpjson.Error(w, r, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		return
	}
	if u.Status == "disabled" {
		httpjson.Error(w, r, http.StatusForbidden, "account_disabled", "account is disabled")
		return
	}

	if err := h.Sessions.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("session sign-in failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "could not start session")
		return
	}
	httpjson.Write(w, http.StatusOK, loginResponse{
		ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role,
	})
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Warn("session sign-out failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
