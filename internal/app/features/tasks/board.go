// internal/app/features/tasks/board.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/policy/taskpolicy"
	taskstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/tasks"
	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/httpjson"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  []string   `json:"assigned_to"`
}

// HandleCreate handles POST /camps/{campID}/tasks.
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

	var req createTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Title == "" {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "missing required fields",
			map[string]string{"title": "title is required"})
		return
	}
	assignees, badIDs := parseIDs(req.AssignedTo)
	if len(badIDs) > 0 {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid assignee ids", badIDs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !taskpolicy.CanUseBoard(ctx, r, h.DB, campID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "not a member of this camp")
		return
	}

	task, err := taskstore.New(h.DB).Create(ctx, models.Task{
		CampID:      campID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		AssignedTo:  assignees,
		CreatedBy:   uid,
	})
	if err != nil {
		h.writeTaskErr(w, r, err, "create task failed")
		return
	}
	httpjson.Write(w, http.StatusCreated, task)
}

// taskRow joins a task with display names for its assignees.
type taskRow struct {
	models.Task
	AssigneeNames []string `json:"assignee_names,omitempty"`
}

// HandleListByCamp handles GET /camps/{campID}/tasks?status=&priority=&assignee=.
func (h *Handler) HandleListByCamp(w http.ResponseWriter, r *http.Request) {
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}

	var assignee *primitive.ObjectID
	if hex := query.Get(r, "assignee"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid assignee id")
			return
		}
		assignee = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !taskpolicy.CanUseBoard(ctx, r, h.DB, campID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "not a member of this camp")
		return
	}

	ts, err := taskstore.New(h.DB).ListByCamp(ctx, campID,
		query.Get(r, "status"), query.Get(r, "priority"), assignee)
	if err != nil {
		h.writeTaskErr(w, r, err, "list tasks failed")
		return
	}

	userIDs := make([]primitive.ObjectID, 0)
	for _, t := range ts {
		userIDs = append(userIDs, t.AssignedTo...)
	}
	users, err := userstore.New(h.DB).GetMany(ctx, userIDs)
	if err != nil {
		h.Log.Error("load task assignees failed", zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
		return
	}

	rows := make([]taskRow, 0, len(ts))
	for _, t := range ts {
		row := taskRow{Task: t}
		for _, id := range t.AssignedTo {
			if u, ok := users[id]; ok {
				row.AssigneeNames = append(row.AssigneeNames, u.FullName)
			}
		}
		rows = append(rows, row)
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"tasks": rows})
}

// HandleGet handles GET /camps/{campID}/tasks/{taskID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	campID, ok := pathID(r, "campID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid camp id")
		return
	}
	taskID, ok := pathID(r, "taskID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !taskpolicy.CanUseBoard(ctx, r, h.DB, campID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "not a member of this camp")
		return
	}

	task, err := taskstore.New(h.DB).GetByID(ctx, taskID)
	if err != nil || task.CampID != campID {
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Error("load task failed", zap.Error(err))
			httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
			return
		}
		httpjson.Error(w, r, http.StatusNotFound, "not_found", "task not found")
		return
	}
	httpjson.Write(w, http.StatusOK, task)
}

type patchTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due"`
}

// HandlePatch handles PATCH /camps/{campID}/tasks/{taskID}. Every change it
// applies lands in the task's history log.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
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
	taskID, ok := pathID(r, "taskID")
	if !ok {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", "invalid task id")
		return
	}

	var req patchTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Title != nil && *req.Title == "" {
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid fields",
			map[string]string{"title": "title cannot be empty"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !taskpolicy.CanUseBoard(ctx, r, h.DB, campID) {
		httpjson.Error(w, r, http.StatusForbidden, "forbidden", "not a member of this camp")
		return
	}

	task, err := taskstore.New(h.DB).Update(ctx, taskID, taskstore.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
	}, uid)
	if err != nil {
		h.writeTaskErr(w, r, err, "update task failed")
		return
	}
	httpjson.Write(w, http.StatusOK, task)
}

func parseIDs(hexes []string) ([]primitive.ObjectID, map[string]string) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	bad := map[string]string{}
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			bad[h] = "must be a valid id"
			continue
		}
		ids = append(ids, id)
	}
	if len(bad) == 0 {
		bad = nil
	}
	return ids, bad
}

func (h *Handler) writeTaskErr(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, taskstore.ErrTaskClosed):
		httpjson.Error(w, r, http.StatusConflict, "task_closed", err.Error())
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.Error(w, r, http.StatusNotFound, "not_found", "task not found")
	case errors.Is(err, taskstore.ErrBadPriority):
		httpjson.ErrorFields(w, r, http.StatusBadRequest, "validation", "invalid fields",
			map[string]string{"priority": err.Error()})
	default:
		h.Log.Error(logMsg, zap.Error(err))
		httpjson.Error(w, r, http.StatusInternalServerError, "internal", "database error")
	}
}
