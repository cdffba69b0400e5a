// Package filters evaluates named predicates over resolved member views.
// The same predicate catalog drives interactive table filtering and the
// summary metrics, so the counts and the filtered rows can never disagree.
package filters

import (
	"fmt"
	"math"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/resolve"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
)

// Kind tags how a filter token was classified at compile time. Enum tokens
// are the fixed catalog below; anything else that names a known skill
// becomes a skill-membership predicate. The skill fallback is how the
// skill UI and the enum UI share one token list.
type Kind int

const (
	KindEnum Kind = iota
	KindSkill
)

// Enum filter tokens.
const (
	DuesPaid       = "dues-paid"
	DuesUnpaid     = "dues-unpaid"
	WithTickets    = "with-tickets"
	WithoutTickets = "without-tickets"
	WithVP         = "with-vp"
	WithoutVP      = "without-vp"
	EarlyArrival   = "early-arrival"
	LateDeparture  = "late-departure"
	Virgin         = "virgin"
	Veteran        = "veteran"
)

// Config carries the camp facts some predicates depend on.
type Config struct {
	// EventOpen / EventClose bound the standard on-playa window. Arriving
	// before open counts as early arrival even without the EAP flag;
	// leaving after close counts as late departure.
	EventOpen  time.Time
	EventClose time.Time

	// KnownSkills is the set unknown tokens are resolved against.
	KnownSkills []string
}

// Predicate is one compiled filter.
type Predicate struct {
	Kind Kind
	Name string
	fn   func(resolve.EffectiveMember) bool
}

// Matches reports whether the member passes this predicate.
func (p Predicate) Matches(m resolve.EffectiveMember) bool { return p.fn(m) }

// Compile resolves filter tokens into predicates. Unknown tokens that match
// a known skill (case-insensitively) become skill predicates; anything else
// is an error naming the bad token.
func Compile(tokens []string, cfg Config) ([]Predicate, error) {
	skillSet := make(map[string]string, len(cfg.KnownSkills)) // folded -> display
	for _, s := range cfg.KnownSkills {
		skillSet[text.Fold(s)] = s
	}

	preds := make([]Predicate, 0, len(tokens))
	for _, tok := range tokens {
		if fn := enumPredicate(tok, cfg); fn != nil {
			preds = append(preds, Predicate{Kind: KindEnum, Name: tok, fn: fn})
			continue
		}
		if display, ok := skillSet[text.Fold(tok)]; ok {
			folded := text.Fold(display)
			preds = append(preds, Predicate{Kind: KindSkill, Name: display, fn: func(m resolve.EffectiveMember) bool {
				for _, s := range m.Skills {
					if text.Fold(s) == folded {
						return true
					}
				}
				return false
			}})
			continue
		}
		return nil, fmt.Errorf("unknown filter %q", tok)
	}
	return preds, nil
}

func enumPredicate(tok string, cfg Config) func(resolve.EffectiveMember) bool {
	switch tok {
	case DuesPaid:
		return func(m resolve.EffectiveMember) bool { return m.DuesStatus == models.DuesPaid }
	case DuesUnpaid:
		return func(m resolve.EffectiveMember) bool { return m.DuesStatus != models.DuesPaid }
	case WithTickets:
		return func(m resolve.EffectiveMember) bool { return m.HasTicket != nil && *m.HasTicket }
	case WithoutTickets:
		return func(m resolve.EffectiveMember) bool { return m.HasTicket != nil && !*m.HasTicket }
	case WithVP:
		return func(m resolve.EffectiveMember) bool { return m.HasVehiclePass != nil && *m.HasVehiclePass }
	case WithoutVP:
		return func(m resolve.EffectiveMember) bool { return m.HasVehiclePass != nil && !*m.HasVehiclePass }
	case EarlyArrival:
		return func(m resolve.EffectiveMember) bool {
			if m.InterestedInEAP != nil && *m.InterestedInEAP {
				return true
			}
			return !cfg.EventOpen.IsZero() && m.ArrivalDate != nil && m.ArrivalDate.Before(cfg.EventOpen)
		}
	case LateDeparture:
		return func(m resolve.EffectiveMember) bool {
			if m.InterestedInStrike != nil && *m.InterestedInStrike {
				return true
			}
			return !cfg.EventClose.IsZero() && m.DepartureDate != nil && m.DepartureDate.After(cfg.EventClose)
		}
	case Virgin:
		return func(m resolve.EffectiveMember) bool { return m.YearsBurned != nil && *m.YearsBurned == 0 }
	case Veteran:
		return func(m resolve.EffectiveMember) bool { return m.YearsBurned != nil && *m.YearsBurned > 0 }
	default:
		return nil
	}
}

// Apply returns the members passing every predicate (AND-combined).
// An empty predicate list passes everyone.
func Apply(preds []Predicate, members []resolve.EffectiveMember) []resolve.EffectiveMember {
	out := make([]resolve.EffectiveMember, 0, len(members))
	for _, m := range members {
		ok := true
		for _, p := range preds {
			if !p.Matches(m) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, m)
		}
	}
	return out
}

// Percentage rounds count/total to a whole percent, returning 0 for an
// empty roster rather than faulting on the division.
func Percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// Metrics are the roster summary counts shown above the member table.
type Metrics struct {
	Total          int            `json:"total"`
	DuesPaidPct    int            `json:"dues_paid_pct"`
	TicketPct      int            `json:"ticket_pct"`
	VehiclePassPct int            `json:"vehicle_pass_pct"`
	VirginPct      int            `json:"virgin_pct"`
	EarlyArrivals  int            `json:"early_arrivals"`
	LateDepartures int            `json:"late_departures"`
	SkillCounts    map[string]int `json:"skill_counts"`
}

// Summarize computes roster metrics with the same predicates the table
// filters use.
func Summarize(members []resolve.EffectiveMember, cfg Config) Metrics {
	m := Metrics{Total: len(members), SkillCounts: map[string]int{}}

	count := func(tok string) int {
		return len(Apply([]Predicate{{Kind: KindEnum, Name: tok, fn: enumPredicate(tok, cfg)}}, members))
	}

	m.DuesPaidPct = Percentage(count(DuesPaid), m.Total)
	m.TicketPct = Percentage(count(WithTickets), m.Total)
	m.VehiclePassPct = Percentage(count(WithVP), m.Total)
	m.VirginPct = Percentage(count(Virgin), m.Total)
	m.EarlyArrivals = count(EarlyArrival)
	m.LateDepartures = count(LateDeparture)

	for _, em := range members {
		seen := map[string]struct{}{}
		for _, s := range em.Skills {
			key := text.Fold(s)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			m.SkillCounts[s]++
		}
	}
	return m
}

// KnownSkills collects the distinct resolved skills across members, for
// building the filter UI's token list and the Compile skill set.
func KnownSkills(members []resolve.EffectiveMember) []string {
	seen := map[string]string{}
	for _, m := range members {
		for _, s := range m.Skills {
			key := text.Fold(s)
			if _, ok := seen[key]; !ok {
				seen[key] = s
			}
		}
	}
	out := make([]string, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	return out
}
