package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/indexes"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*userstore.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	return userstore.New(db), testutil.NewFixtures(t, db)
}

func TestStore_Create(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		FullName: "  Dusty   Dan  ",
		Email:    "Dan@Example.COM",
	}, "hunter2hunter2")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.FullName != "Dusty Dan" {
		t.Errorf("FullName: got %q, want normalized %q", u.FullName, "Dusty Dan")
	}
	if u.Email != "dan@example.com" {
		t.Errorf("Email: got %q, want lowercased", u.Email)
	}
	if u.Role != "user" || u.Status != "active" {
		t.Errorf("defaults: got role=%q status=%q", u.Role, u.Status)
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter2hunter2" {
		t.Error("password must be stored as a hash")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{FullName: "A", Email: "same@test.com"}, "passwordpass"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{FullName: "B", Email: "SAME@test.com"}, "passwordpass")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_VerifyPassword(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{FullName: "A", Email: "a@test.com"}, "correct-horse"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.VerifyPassword(ctx, "a@test.com", "correct-horse"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if _, err := store.VerifyPassword(ctx, "a@test.com", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := store.VerifyPassword(ctx, "nobody@test.com", "whatever"); err == nil {
		t.Error("unknown email accepted")
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{FullName: "A", Email: "a@test.com"}, "passwordpass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.UpdateProfile(ctx, u.ID, bson.M{
		"playa_name":   "Sparkle",
		"years_burned": 3,
		"has_ticket":   true,
	}, nil)
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PlayaName != "Sparkle" {
		t.Errorf("PlayaName: got %q", got.PlayaName)
	}
	if got.YearsBurned == nil || *got.YearsBurned != 3 {
		t.Errorf("YearsBurned: got %v, want 3", got.YearsBurned)
	}
	if got.HasTicket == nil || !*got.HasTicket {
		t.Errorf("HasTicket: got %v, want true", got.HasTicket)
	}

	// Clearing reverts a field to "not informed".
	if err := store.UpdateProfile(ctx, u.ID, bson.M{}, []string{"has_ticket"}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	got, err = store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.HasTicket != nil {
		t.Errorf("HasTicket after clear: got %v, want nil", got.HasTicket)
	}
}

func TestStore_SetStatus(t *testing.T) {
	store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{FullName: "A", Email: "a@test.com"}, "passwordpass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, u.ID, "disabled"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "disabled" {
		t.Errorf("Status: got %q, want disabled", got.Status)
	}

	if err := store.SetStatus(ctx, u.ID, "banished"); err == nil {
		t.Error("expected error for invalid status")
	}
}
