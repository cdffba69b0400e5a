package campstore_test

import (
	"errors"
	"testing"

	campstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/camps"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/indexes"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setup(t *testing.T) *campstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	return campstore.New(db)
}

func TestStore_Create(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Camp{
		Name:       "Dust Bunnies",
		OwnerID:    primitive.NewObjectID(),
		Recruiting: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.InviteCode == "" {
		t.Error("expected an invite code to be generated")
	}
	if c.Status != "active" {
		t.Errorf("Status: got %q, want active", c.Status)
	}

	got, err := store.GetByInviteCode(ctx, c.InviteCode)
	if err != nil {
		t.Fatalf("GetByInviteCode failed: %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("invite lookup: got %v, want %v", got.ID, c.ID)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	if _, err := store.Create(ctx, models.Camp{Name: "Dust Bunnies", OwnerID: owner}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	// Case and spacing fold into the same CI name.
	_, err := store.Create(ctx, models.Camp{Name: "DUST BUNNIES", OwnerID: owner})
	if !errors.Is(err, campstore.ErrDuplicateCampName) {
		t.Fatalf("got %v, want ErrDuplicateCampName", err)
	}
}

func TestStore_UpdateInfo(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Camp{Name: "Dust Bunnies", OwnerID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdateInfo(ctx, c.ID, bson.M{"name": "Dust Devils", "city": "Gerlach"}); err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Dust Devils" || got.City != "Gerlach" {
		t.Errorf("got name=%q city=%q", got.Name, got.City)
	}
}

func TestStore_SetRecruiting(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, models.Camp{Name: "Dust Bunnies", OwnerID: primitive.NewObjectID(), Recruiting: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.SetRecruiting(ctx, c.ID, false); err != nil {
		t.Fatalf("SetRecruiting failed: %v", err)
	}
	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Recruiting {
		t.Error("expected recruiting to be closed")
	}
}
