package resolve_test

import (
	"testing"
	"time"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/resolve"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func boolPtr(b bool) *bool           { return &b }
func intPtr(n int) *int              { return &n }
func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func baseUser() models.User {
	return models.User{
		ID:          primitive.NewObjectID(),
		FullName:    "Dusty Dan",
		Email:       "dan@example.com",
		PlayaName:   "Sparkle",
		YearsBurned: intPtr(5),
		Skills:      []string{"carpentry", "cooking"},
		HasTicket:   boolPtr(true),
		City:        "Reno",
		State:       "NV",
	}
}

func baseEntry() models.RosterEntry {
	return models.RosterEntry{
		MemberID:   primitive.NewObjectID(),
		AddedAt:    time.Now().UTC(),
		Status:     models.EntryApproved,
		Role:       models.EntryRoleMember,
		DuesStatus: models.DuesUnpaid,
	}
}

func TestMember_OverrideWinsOverUser(t *testing.T) {
	user := baseUser()
	entry := baseEntry()
	entry.Overrides = models.Override{
		PlayaName:   strPtr("Glitter"),
		YearsBurned: intPtr(9),
	}

	em := resolve.Member(entry, user, nil)

	if em.PlayaName != "Glitter" {
		t.Errorf("PlayaName: got %q, want %q", em.PlayaName, "Glitter")
	}
	if em.YearsBurned == nil || *em.YearsBurned != 9 {
		t.Errorf("YearsBurned: got %v, want 9", em.YearsBurned)
	}
	// Untouched fields defer to the user.
	if em.City != "Reno" {
		t.Errorf("City: got %q, want %q", em.City, "Reno")
	}
	if em.HasTicket == nil || !*em.HasTicket {
		t.Errorf("HasTicket: got %v, want true", em.HasTicket)
	}
}

func TestMember_ExplicitFalseWins(t *testing.T) {
	user := baseUser() // user says has_ticket=true
	entry := baseEntry()
	entry.Overrides = models.Override{HasTicket: boolPtr(false)}

	em := resolve.Member(entry, user, nil)

	if em.HasTicket == nil || *em.HasTicket {
		t.Errorf("HasTicket: got %v, want explicit false", em.HasTicket)
	}
}

func TestMember_ExplicitZeroAndEmptyWin(t *testing.T) {
	user := baseUser()
	entry := baseEntry()
	empty := []string{}
	entry.Overrides = models.Override{
		YearsBurned: intPtr(0),
		Skills:      &empty,
		PlayaName:   strPtr(""),
	}

	em := resolve.Member(entry, user, nil)

	if em.YearsBurned == nil || *em.YearsBurned != 0 {
		t.Errorf("YearsBurned: got %v, want explicit 0", em.YearsBurned)
	}
	if em.Skills == nil || len(em.Skills) != 0 {
		t.Errorf("Skills: got %v, want explicit empty list", em.Skills)
	}
	if em.PlayaName != "" {
		t.Errorf("PlayaName: got %q, want explicit empty", em.PlayaName)
	}
}

func TestMember_FallthroughToUser(t *testing.T) {
	user := baseUser()
	entry := baseEntry() // no overrides at all

	em := resolve.Member(entry, user, nil)

	if em.PlayaName != "Sparkle" {
		t.Errorf("PlayaName: got %q, want %q", em.PlayaName, "Sparkle")
	}
	if em.YearsBurned == nil || *em.YearsBurned != 5 {
		t.Errorf("YearsBurned: got %v, want 5", em.YearsBurned)
	}
	if len(em.Skills) != 2 || em.Skills[0] != "carpentry" {
		t.Errorf("Skills: got %v, want user skills", em.Skills)
	}
	if em.FullName != "Dusty Dan" || em.Email != "dan@example.com" {
		t.Errorf("identity fields must come from the user: got %q / %q", em.FullName, em.Email)
	}
}

func TestMember_NeitherInformed(t *testing.T) {
	user := baseUser()
	user.HasVehiclePass = nil
	entry := baseEntry()

	em := resolve.Member(entry, user, nil)

	if em.HasVehiclePass != nil {
		t.Errorf("HasVehiclePass: got %v, want nil (not informed)", em.HasVehiclePass)
	}
}

func TestMember_LocalEditOutranksOverride(t *testing.T) {
	user := baseUser()
	entry := baseEntry()
	entry.Overrides = models.Override{PlayaName: strPtr("Glitter")}
	edits := &models.Override{PlayaName: strPtr("Comet")}

	em := resolve.Member(entry, user, edits)

	if em.PlayaName != "Comet" {
		t.Errorf("PlayaName: got %q, want local edit %q", em.PlayaName, "Comet")
	}
}

func TestMember_PerFieldIndependence(t *testing.T) {
	arrive := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	user := baseUser()
	user.ArrivalDate = timePtr(arrive)
	entry := baseEntry()
	entry.Overrides = models.Override{HasTicket: boolPtr(false)}

	em := resolve.Member(entry, user, nil)

	if em.HasTicket == nil || *em.HasTicket {
		t.Errorf("HasTicket: got %v, want overridden false", em.HasTicket)
	}
	if em.ArrivalDate == nil || !em.ArrivalDate.Equal(arrive) {
		t.Errorf("ArrivalDate: got %v, want user's %v", em.ArrivalDate, arrive)
	}
}

func TestBoolLabel(t *testing.T) {
	cases := []struct {
		name string
		in   *bool
		want string
	}{
		{"yes", boolPtr(true), resolve.LabelYes},
		{"no", boolPtr(false), resolve.LabelNo},
		{"not informed", nil, resolve.LabelNotInformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolve.BoolLabel(tc.in); got != tc.want {
				t.Errorf("BoolLabel: got %q, want %q", got, tc.want)
			}
		})
	}
}

// Scenario: a camp lead marks a ticket-holding user as not having a ticket;
// the list view and export must both show "No", and clearing the override
// must bring the user's own answer back.
func TestMember_OverrideThenClear(t *testing.T) {
	user := baseUser()
	entry := baseEntry()
	entry.Overrides = models.Override{HasTicket: boolPtr(false)}

	em := resolve.Member(entry, user, nil)
	if resolve.BoolLabel(em.HasTicket) != resolve.LabelNo {
		t.Fatalf("with override: got %q, want %q", resolve.BoolLabel(em.HasTicket), resolve.LabelNo)
	}

	entry.Overrides = models.Override{}
	em = resolve.Member(entry, user, nil)
	if resolve.BoolLabel(em.HasTicket) != resolve.LabelYes {
		t.Errorf("after clear: got %q, want %q", resolve.BoolLabel(em.HasTicket), resolve.LabelYes)
	}
}

func TestHasSkill(t *testing.T) {
	user := baseUser()
	em := resolve.Member(baseEntry(), user, nil)

	if !em.HasSkill("cooking") {
		t.Error("expected cooking to be present")
	}
	if em.HasSkill("welding") {
		t.Error("did not expect welding")
	}
}
