package filters_test

import (
	"testing"
	"time"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/filters"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/resolve"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func boolPtr(b bool) *bool           { return &b }
func intPtr(n int) *int              { return &n }
func timePtr(t time.Time) *time.Time { return &t }

var (
	eventOpen  = time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	eventClose = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
)

func cfg(skills ...string) filters.Config {
	return filters.Config{EventOpen: eventOpen, EventClose: eventClose, KnownSkills: skills}
}

func member(mut func(*resolve.EffectiveMember)) resolve.EffectiveMember {
	m := resolve.EffectiveMember{
		MemberID:   primitive.NewObjectID(),
		DuesStatus: models.DuesUnpaid,
	}
	if mut != nil {
		mut(&m)
	}
	return m
}

func TestCompile_EnumTokens(t *testing.T) {
	tokens := []string{
		filters.DuesPaid, filters.DuesUnpaid,
		filters.WithTickets, filters.WithoutTickets,
		filters.WithVP, filters.WithoutVP,
		filters.EarlyArrival, filters.LateDeparture,
		filters.Virgin, filters.Veteran,
	}
	preds, err := filters.Compile(tokens, cfg())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(preds) != len(tokens) {
		t.Fatalf("got %d predicates, want %d", len(preds), len(tokens))
	}
	for _, p := range preds {
		if p.Kind != filters.KindEnum {
			t.Errorf("%s: got kind %v, want KindEnum", p.Name, p.Kind)
		}
	}
}

func TestCompile_SkillFallback(t *testing.T) {
	preds, err := filters.Compile([]string{"Carpentry"}, cfg("carpentry", "cooking"))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(preds) != 1 || preds[0].Kind != filters.KindSkill {
		t.Fatalf("expected one skill predicate, got %+v", preds)
	}

	has := member(func(m *resolve.EffectiveMember) { m.Skills = []string{"Carpentry"} })
	hasNot := member(func(m *resolve.EffectiveMember) { m.Skills = []string{"cooking"} })
	if !preds[0].Matches(has) {
		t.Error("expected carpenter to match")
	}
	if preds[0].Matches(hasNot) {
		t.Error("did not expect cook to match")
	}
}

func TestCompile_UnknownToken(t *testing.T) {
	if _, err := filters.Compile([]string{"basket-weaving"}, cfg("carpentry")); err == nil {
		t.Fatal("expected error for unknown token")
	}
}

func TestApply_TicketTriState(t *testing.T) {
	yes := member(func(m *resolve.EffectiveMember) { m.HasTicket = boolPtr(true) })
	no := member(func(m *resolve.EffectiveMember) { m.HasTicket = boolPtr(false) })
	unknown := member(nil)
	all := []resolve.EffectiveMember{yes, no, unknown}

	with, err := filters.Compile([]string{filters.WithTickets}, cfg())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	without, err := filters.Compile([]string{filters.WithoutTickets}, cfg())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	// "Not informed" members match neither side.
	if got := filters.Apply(with, all); len(got) != 1 || got[0].MemberID != yes.MemberID {
		t.Errorf("with-tickets: got %d members, want only the explicit yes", len(got))
	}
	if got := filters.Apply(without, all); len(got) != 1 || got[0].MemberID != no.MemberID {
		t.Errorf("without-tickets: got %d members, want only the explicit no", len(got))
	}
}

func TestApply_EarlyArrival(t *testing.T) {
	byFlag := member(func(m *resolve.EffectiveMember) { m.InterestedInEAP = boolPtr(true) })
	byDate := member(func(m *resolve.EffectiveMember) {
		m.ArrivalDate = timePtr(eventOpen.AddDate(0, 0, -2))
	})
	onTime := member(func(m *resolve.EffectiveMember) {
		m.ArrivalDate = timePtr(eventOpen.AddDate(0, 0, 1))
	})

	preds, err := filters.Compile([]string{filters.EarlyArrival}, cfg())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	got := filters.Apply(preds, []resolve.EffectiveMember{byFlag, byDate, onTime})
	if len(got) != 2 {
		t.Errorf("early-arrival: got %d members, want 2 (flag OR date)", len(got))
	}
}

func TestApply_VirginVeteran(t *testing.T) {
	virgin := member(func(m *resolve.EffectiveMember) { m.YearsBurned = intPtr(0) })
	vet := member(func(m *resolve.EffectiveMember) { m.YearsBurned = intPtr(7) })
	unknown := member(nil)
	all := []resolve.EffectiveMember{virgin, vet, unknown}

	vp, err := filters.Compile([]string{filters.Virgin}, cfg())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := filters.Apply(vp, all); len(got) != 1 || got[0].MemberID != virgin.MemberID {
		t.Errorf("virgin: got %d, want only the explicit 0", len(got))
	}

	vt, err := filters.Compile([]string{filters.Veteran}, cfg())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := filters.Apply(vt, all); len(got) != 1 || got[0].MemberID != vet.MemberID {
		t.Errorf("veteran: got %d, want only years>0", len(got))
	}
}

func TestApply_ANDCombination(t *testing.T) {
	both := member(func(m *resolve.EffectiveMember) {
		m.DuesStatus = models.DuesPaid
		m.HasTicket = boolPtr(true)
	})
	paidOnly := member(func(m *resolve.EffectiveMember) { m.DuesStatus = models.DuesPaid })
	ticketOnly := member(func(m *resolve.EffectiveMember) { m.HasTicket = boolPtr(true) })

	preds, err := filters.Compile([]string{filters.DuesPaid, filters.WithTickets}, cfg())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	got := filters.Apply(preds, []resolve.EffectiveMember{both, paidOnly, ticketOnly})
	if len(got) != 1 || got[0].MemberID != both.MemberID {
		t.Errorf("AND: got %d members, want 1", len(got))
	}
}

func TestApply_EmptyPredicatesPassEveryone(t *testing.T) {
	all := []resolve.EffectiveMember{member(nil), member(nil)}
	if got := filters.Apply(nil, all); len(got) != 2 {
		t.Errorf("got %d, want all members back", len(got))
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		count, total, want int
	}{
		{0, 0, 0}, // empty roster, no division fault
		{1, 3, 33},
		{2, 3, 67},
		{3, 3, 100},
		{0, 5, 0},
	}
	for _, tc := range cases {
		if got := filters.Percentage(tc.count, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d): got %d, want %d", tc.count, tc.total, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	paid := member(func(m *resolve.EffectiveMember) {
		m.DuesStatus = models.DuesPaid
		m.HasTicket = boolPtr(true)
		m.YearsBurned = intPtr(0)
		m.Skills = []string{"carpentry", "Carpentry", "cooking"}
	})
	unpaid := member(func(m *resolve.EffectiveMember) {
		m.HasTicket = boolPtr(false)
		m.InterestedInEAP = boolPtr(true)
		m.Skills = []string{"carpentry"}
	})

	m := filters.Summarize([]resolve.EffectiveMember{paid, unpaid}, cfg())

	if m.Total != 2 {
		t.Errorf("Total: got %d, want 2", m.Total)
	}
	if m.DuesPaidPct != 50 {
		t.Errorf("DuesPaidPct: got %d, want 50", m.DuesPaidPct)
	}
	if m.TicketPct != 50 {
		t.Errorf("TicketPct: got %d, want 50", m.TicketPct)
	}
	if m.VirginPct != 50 {
		t.Errorf("VirginPct: got %d, want 50", m.VirginPct)
	}
	if m.EarlyArrivals != 1 {
		t.Errorf("EarlyArrivals: got %d, want 1", m.EarlyArrivals)
	}
	// Duplicate skills on one member count once.
	if m.SkillCounts["carpentry"] != 2 {
		t.Errorf("carpentry count: got %d, want 2", m.SkillCounts["carpentry"])
	}
	if m.SkillCounts["cooking"] != 1 {
		t.Errorf("cooking count: got %d, want 1", m.SkillCounts["cooking"])
	}
}

func TestSummarize_Empty(t *testing.T) {
	m := filters.Summarize(nil, cfg())
	if m.Total != 0 || m.DuesPaidPct != 0 || m.TicketPct != 0 {
		t.Errorf("empty roster metrics must be all zero, got %+v", m)
	}
}

func TestKnownSkills(t *testing.T) {
	a := member(func(m *resolve.EffectiveMember) { m.Skills = []string{"Carpentry", "cooking"} })
	b := member(func(m *resolve.EffectiveMember) { m.Skills = []string{"carpentry"} })

	got := filters.KnownSkills([]resolve.EffectiveMember{a, b})
	if len(got) != 2 {
		t.Errorf("got %v, want 2 distinct skills", got)
	}
}
