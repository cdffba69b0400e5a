// internal/app/features/tasks/status.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/policy/taskpolicy"
	taskstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/tasks"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// taskAction loads the task, checks board membership for its camp, and hands
// the task to fn. Shared by the status, assignment and comment endpoints,
// which are all /tasks/{taskID}-scoped.
func (h *Handler) taskAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, task models.Task, uid primitive.ObjectID) error) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, r, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	taskID, ok := pathID(r, "taskID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := taskstore.New(h.DB).GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, r, http.StatusNotFound, "not_found", "task not found")
			return
		}
		h.Log.Error("load task failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}
	if !taskpolicy.CanUseBoard(ctx, r, h.DB, task.CampID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "not a member of this camp")
		return
	}
	if err := fn(ctx, task, uid); err != nil {
		h.writeTaskErr(w, r, err, "task action failed")
	}
}

// HandleClose handles POST /tasks/{taskID}/close.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, func(ctx context.Context, task models.Task, uid primitive.ObjectID) error {
		if err := taskstore.New(h.DB).SetStatus(ctx, task.ID, models.TaskClosed, uid); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// HandleReopen handles POST /tasks/{taskID}/reopen.
func (h *Handler) HandleReopen(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, func(ctx context.Context, task models.Task, uid primitive.ObjectID) error {
		if err := taskstore.New(h.DB).SetStatus(ctx, task.ID, models.TaskOpen, uid); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

type assignRequest struct {
	UserID string `json:"user_id"`
}

// HandleAssign handles POST /tasks/{taskID}/assign. Assigning a user who is
// already on the task is a no-op success.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid user id",
			map[string]string{"user_id": "must be a valid id"})
		return
	}
	h.taskAction(w, r, func(ctx context.Context, task models.Task, uid primitive.ObjectID) error {
		if err := taskstore.New(h.DB).Assign(ctx, task.ID, userID, uid); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// HandleUnassign handles POST /tasks/{taskID}/unassign.
func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid user id",
			map[string]string{"user_id": "must be a valid id"})
		return
	}
	h.taskAction(w, r, func(ctx context.Context, task models.Task, uid primitive.ObjectID) error {
		if err := taskstore.New(h.DB).Unassign(ctx, task.ID, userID, uid); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// HandleWatch handles POST /tasks/{taskID}/watch. The caller adds themselves.
func (h *Handler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	h.taskAction(w, r, func(ctx context.Context, task models.Task, uid primitive.ObjectID) error {
		if err := taskstore.New(h.DB).AddWatcher(ctx, task.ID, uid); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

type commentRequest struct {
	Body string `json:"body"`
}

// HandleComment handles POST /tasks/{taskID}/comments.
func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Body == "" {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "missing required fields",
			map[string]string{"body": "body is required"})
		return
	}
	h.taskAction(w, r, func(ctx context.Context, task models.Task, uid primitive.ObjectID) error {
		c, err := taskstore.New(h.DB).AddComment(ctx, task.ID, uid, req.Body)
		if err != nil {
			return err
		}
		httpjson.Write(w, http.StatusCreated, c)
		return nil
	})
}
