// Package resolve computes the effective member view for a roster entry.
//
// Per displayable field the precedence is, independently:
//  1. in-progress local edit (an unsaved edit buffer, same sparse shape)
//  2. the roster entry's override
//  3. the member's underlying User profile
//
// A tier participates only when its field is non-nil; an explicit false,
// zero, or empty slice at a higher tier wins over any lower-tier value.
// Fields outside the override set (email, profile photo, ...) always come
// from the User.
package resolve

import (
	"time"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Labels for tri-state boolean display. "Not informed" is a real state,
// never collapsed into "No".
const (
	LabelYes         = "Yes"
	LabelNo          = "No"
	LabelNotInformed = "Not informed"
)

// EffectiveMember is the merged, display-ready view of one roster entry.
// Pointer fields stay tri-state: nil means neither the override nor the
// user informed the value.
type EffectiveMember struct {
	MemberID primitive.ObjectID
	UserID   primitive.ObjectID

	// Always resolved from the User; overrides do not exist for these.
	FullName string
	Email    string

	// Override-resolvable fields.
	PlayaName          string
	YearsBurned        *int
	Skills             []string
	HasTicket          *bool
	HasVehiclePass     *bool
	InterestedInEAP    *bool
	InterestedInStrike *bool
	ArrivalDate        *time.Time
	DepartureDate      *time.Time
	City               string
	State              string

	// Roster-local metadata, carried through for filtering and display.
	EntryStatus string
	EntryRole   string
	DuesStatus  string
	AddedAt     time.Time
}

// pick returns the first non-nil tier, or nil when no tier informs the field.
func pick[T any](tiers ...*T) *T {
	for _, t := range tiers {
		if t != nil {
			return t
		}
	}
	return nil
}

// strBase treats an empty user string as uninformed so an explicit
// override "" still wins (it arrives as a non-nil pointer).
func strBase(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Member resolves entry overrides (and an optional local-edit buffer, which
// may be nil) over the user's profile. Resolution is per field: an entry may
// override has_ticket while deferring to the user's arrival_date.
func Member(entry models.RosterEntry, user models.User, edits *models.Override) EffectiveMember {
	if edits == nil {
		edits = &models.Override{}
	}
	o := entry.Overrides

	var skillsBase *[]string
	if user.Skills != nil {
		skillsBase = &user.Skills
	}

	em := EffectiveMember{
		MemberID: entry.MemberID,
		UserID:   user.ID,
		FullName: user.FullName,
		Email:    user.Email,

		PlayaName:          str(pick(edits.PlayaName, o.PlayaName, strBase(user.PlayaName))),
		YearsBurned:        pick(edits.YearsBurned, o.YearsBurned, user.YearsBurned),
		HasTicket:          pick(edits.HasTicket, o.HasTicket, user.HasTicket),
		HasVehiclePass:     pick(edits.HasVehiclePass, o.HasVehiclePass, user.HasVehiclePass),
		InterestedInEAP:    pick(edits.InterestedInEAP, o.InterestedInEAP, user.InterestedInEAP),
		InterestedInStrike: pick(edits.InterestedInStrike, o.InterestedInStrike, user.InterestedInStrike),
		ArrivalDate:        pick(edits.ArrivalDate, o.ArrivalDate, user.ArrivalDate),
		DepartureDate:      pick(edits.DepartureDate, o.DepartureDate, user.DepartureDate),
		City:               str(pick(edits.City, o.City, strBase(user.City))),
		State:              str(pick(edits.State, o.State, strBase(user.State))),

		EntryStatus: entry.Status,
		EntryRole:   entry.Role,
		DuesStatus:  entry.DuesStatus,
		AddedAt:     entry.AddedAt,
	}

	if s := pick(edits.Skills, o.Skills, skillsBase); s != nil {
		em.Skills = *s
	}

	return em
}

// BoolLabel renders a tri-state boolean for display and CSV export.
func BoolLabel(v *bool) string {
	switch {
	case v == nil:
		return LabelNotInformed
	case *v:
		return LabelYes
	default:
		return LabelNo
	}
}

// HasSkill reports whether the resolved skill list contains name
// (case-sensitive; callers normalize at filter-compile time).
func (m EffectiveMember) HasSkill(name string) bool {
	for _, s := range m.Skills {
		if s == name {
			return true
		}
	}
	return false
}
