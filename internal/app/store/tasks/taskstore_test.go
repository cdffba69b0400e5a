package taskstore_test

import (
	"errors"
	"testing"

	taskstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/tasks"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task, err := store.Create(ctx, models.Task{
		CampID:      primitive.NewObjectID(),
		Title:       "Build the shade structure",
		Description: "<script>alert(1)</script>Need 8 people",
		CreatedBy:   primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.Status != models.TaskOpen {
		t.Errorf("Status: got %q, want open", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("Priority: got %q, want default medium", task.Priority)
	}
	// Markup is stripped, not stored.
	if task.Description != "Need 8 people" {
		t.Errorf("Description: got %q, want sanitized", task.Description)
	}
}

func TestStore_Create_BadPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Task{
		CampID:   primitive.NewObjectID(),
		Title:    "x",
		Priority: "urgent",
	})
	if !errors.Is(err, taskstore.ErrBadPriority) {
		t.Fatalf("got %v, want ErrBadPriority", err)
	}
}

func TestStore_Update_TracksHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	editor := primitive.NewObjectID()
	task, err := store.Create(ctx, models.Task{
		CampID:    primitive.NewObjectID(),
		Title:     "Old title",
		CreatedBy: editor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Update(ctx, task.ID, taskstore.UpdateFields{
		Title:    strPtr("New title"),
		Priority: strPtr(models.PriorityHigh),
	}, editor)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "New title" || updated.Priority != models.PriorityHigh {
		t.Errorf("got title=%q priority=%q", updated.Title, updated.Priority)
	}
	if len(updated.History) != 2 {
		t.Fatalf("History: got %d entries, want 2", len(updated.History))
	}

	// Second update appends; earlier entries are untouched.
	updated, err = store.Update(ctx, task.ID, taskstore.UpdateFields{
		Title: strPtr("Final title"),
	}, editor)
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	if len(updated.History) != 3 {
		t.Fatalf("History: got %d entries, want 3", len(updated.History))
	}
	if updated.History[0].Old != "Old title" || updated.History[0].New != "New title" {
		t.Errorf("first history entry rewritten: %+v", updated.History[0])
	}
}

func TestStore_ClosedTaskRefusesEdits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	task, err := store.Create(ctx, models.Task{
		CampID: primitive.NewObjectID(), Title: "x", CreatedBy: actor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SetStatus(ctx, task.ID, models.TaskClosed, actor); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := store.Update(ctx, task.ID, taskstore.UpdateFields{Title: strPtr("y")}, actor); !errors.Is(err, taskstore.ErrTaskClosed) {
		t.Errorf("Update on closed: got %v, want ErrTaskClosed", err)
	}
	if err := store.Assign(ctx, task.ID, primitive.NewObjectID(), actor); !errors.Is(err, taskstore.ErrTaskClosed) {
		t.Errorf("Assign on closed: got %v, want ErrTaskClosed", err)
	}

	// Reopening is the one allowed transition.
	if err := store.SetStatus(ctx, task.ID, models.TaskOpen, actor); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.TaskOpen {
		t.Errorf("Status: got %q, want open", got.Status)
	}
}

func TestStore_AssignUnassign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actor := primitive.NewObjectID()
	worker := primitive.NewObjectID()
	task, err := store.Create(ctx, models.Task{
		CampID: primitive.NewObjectID(), Title: "x", CreatedBy: actor,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Assign(ctx, task.ID, worker, actor); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	// Duplicate assignment is a no-op.
	if err := store.Assign(ctx, task.ID, worker, actor); err != nil {
		t.Fatalf("duplicate Assign: got %v, want nil", err)
	}
	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.AssignedTo) != 1 {
		t.Fatalf("AssignedTo: got %d, want 1", len(got.AssignedTo))
	}

	if err := store.Unassign(ctx, task.ID, worker, actor); err != nil {
		t.Fatalf("Unassign failed: %v", err)
	}
	got, err = store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.AssignedTo) != 0 {
		t.Errorf("AssignedTo after unassign: got %d, want 0", len(got.AssignedTo))
	}
}

func TestStore_AddComment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := primitive.NewObjectID()
	task, err := store.Create(ctx, models.Task{
		CampID: primitive.NewObjectID(), Title: "x", CreatedBy: author,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	c, err := store.AddComment(ctx, task.ID, author, "<b>on it</b>")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if c.ID == "" {
		t.Error("expected a comment id")
	}
	if c.Body != "on it" {
		t.Errorf("Body: got %q, want sanitized", c.Body)
	}

	got, err := store.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Comments) != 1 || got.Comments[0].ID != c.ID {
		t.Errorf("Comments: got %+v", got.Comments)
	}
}

func TestStore_ListByCamp_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	campID := primitive.NewObjectID()
	actor := primitive.NewObjectID()
	worker := primitive.NewObjectID()

	low, err := store.Create(ctx, models.Task{CampID: campID, Title: "a", Priority: models.PriorityLow, CreatedBy: actor})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	high, err := store.Create(ctx, models.Task{CampID: campID, Title: "b", Priority: models.PriorityHigh, CreatedBy: actor})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Assign(ctx, high.ID, worker, actor); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if err := store.SetStatus(ctx, low.ID, models.TaskClosed, actor); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	// Other camps never leak in.
	if _, err := store.Create(ctx, models.Task{CampID: primitive.NewObjectID(), Title: "c", CreatedBy: actor}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	open, err := store.ListByCamp(ctx, campID, models.TaskOpen, "", nil)
	if err != nil {
		t.Fatalf("ListByCamp failed: %v", err)
	}
	if len(open) != 1 || open[0].ID != high.ID {
		t.Errorf("open filter: got %d tasks", len(open))
	}

	byAssignee, err := store.ListByCamp(ctx, campID, "", "", &worker)
	if err != nil {
		t.Fatalf("ListByCamp failed: %v", err)
	}
	if len(byAssignee) != 1 || byAssignee[0].ID != high.ID {
		t.Errorf("assignee filter: got %d tasks", len(byAssignee))
	}

	if _, err := store.ListByCamp(ctx, campID, "", "urgent", nil); err == nil {
		t.Error("expected error for bad priority filter")
	}
}
