package members_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/members"
	memberstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/members"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*members.Handler, *mongo.Database, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return members.NewHandler(db, zap.NewNop()), db, testutil.NewFixtures(t, db)
}

func TestReview_ApproveActivatesMember(t *testing.T) {
	handler, db, f := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := f.CreateUser(ctx, "Owner", "owner@example.com", "user")
	camp := f.CreateCamp(ctx, "Dust Bunnies", owner.ID)
	applicant := f.CreateUser(ctx, "Dusty Dan", "dan@example.com", "user")
	m := f.CreateMember(ctx, camp.ID, applicant.ID, models.RoleMember, models.MemberPending)

	req := httptest.NewRequest("POST", "/members/x/review",
		strings.NewReader(`{"decision": "approve", "notes": "knows the generator"}`))
	req = testutil.WithChiURLParam(req, "memberID", m.ID.Hex())
	req = testutil.WithUser(req, testutil.UserFor(owner.ID, "Owner", "user"))
	rec := httptest.NewRecorder()
	handler.HandleReview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got models.Member
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != models.MemberActive {
		t.Errorf("status = %q, want %q", got.Status, models.MemberActive)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != owner.ID {
		t.Errorf("reviewed_by = %v, want %s", got.ReviewedBy, owner.ID.Hex())
	}

	stored, err := memberstore.New(db).GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Status != models.MemberActive {
		t.Errorf("stored status = %q, want %q", stored.Status, models.MemberActive)
	}
}

func TestReview_RankAndFileForbidden(t *testing.T) {
	handler, _, f := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := f.CreateUser(ctx, "Owner", "owner@example.com", "user")
	camp := f.CreateCamp(ctx, "Dust Bunnies", owner.ID)

	bystander := f.CreateUser(ctx, "Bystander", "bystander@example.com", "user")
	f.CreateActiveMember(ctx, camp.ID, bystander.ID)

	applicant := f.CreateUser(ctx, "Dusty Dan", "dan@example.com", "user")
	m := f.CreateMember(ctx, camp.ID, applicant.ID, models.RoleMember, models.MemberPending)

	req := httptest.NewRequest("POST", "/members/x/review",
		strings.NewReader(`{"decision": "approve"}`))
	req = testutil.WithChiURLParam(req, "memberID", m.ID.Hex())
	req = testutil.WithUser(req, testutil.UserFor(bystander.ID, "Bystander", "user"))
	rec := httptest.NewRecorder()
	handler.HandleReview(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestReview_AlreadyReviewedConflicts(t *testing.T) {
	handler, _, f := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := f.CreateUser(ctx, "Owner", "owner@example.com", "user")
	camp := f.CreateCamp(ctx, "Dust Bunnies", owner.ID)
	applicant := f.CreateUser(ctx, "Dusty Dan", "dan@example.com", "user")
	m := f.CreateMember(ctx, camp.ID, applicant.ID, models.RoleMember, models.MemberActive)

	req := httptest.NewRequest("POST", "/members/x/review",
		strings.NewReader(`{"decision": "reject"}`))
	req = testutil.WithChiURLParam(req, "memberID", m.ID.Hex())
	req = testutil.WithUser(req, testutil.UserFor(owner.ID, "Owner", "user"))
	rec := httptest.NewRecorder()
	handler.HandleReview(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "not_pending") {
		t.Errorf("body = %s, want not_pending code", rec.Body.String())
	}
}

func TestReview_BadDecisionRejected(t *testing.T) {
	handler, _, f := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := f.CreateUser(ctx, "Owner", "owner@example.com", "user")
	camp := f.CreateCamp(ctx, "Dust Bunnies", owner.ID)
	applicant := f.CreateUser(ctx, "Dusty Dan", "dan@example.com", "user")
	m := f.CreateMember(ctx, camp.ID, applicant.ID, models.RoleMember, models.MemberPending)

	req := httptest.NewRequest("POST", "/members/x/review",
		strings.NewReader(`{"decision": "maybe"}`))
	req = testutil.WithChiURLParam(req, "memberID", m.ID.Hex())
	req = testutil.WithUser(req, testutil.UserFor(owner.ID, "Owner", "user"))
	rec := httptest.NewRecorder()
	handler.HandleReview(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "decision") {
		t.Errorf("body = %s, want field error on decision", rec.Body.String())
	}
}

func TestReview_UnknownMemberNotFound(t *testing.T) {
	handler, _, f := newTestHandler(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := f.CreateUser(ctx, "Owner", "owner@example.com", "user")

	req := httptest.NewRequest("POST", "/members/x/review",
		strings.NewReader(`{"decision": "approve"}`))
	req = testutil.WithChiURLParam(req, "memberID", "64b000000000000000000000")
	req = testutil.WithUser(req, testutil.UserFor(owner.ID, "Owner", "admin"))
	rec := httptest.NewRecorder()
	handler.HandleReview(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
