// internal/app/features/rosters/view.go
package rosters

import (
	"context"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/roster/resolve"
	memberstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/members"
	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// entryView is the wire shape for one roster entry: the raw entry with its
// overrides included verbatim, plus the resolved (override-merged) view.
type entryView struct {
	models.RosterEntry
	Resolved resolvedFields `json:"resolved"`
}

type resolvedFields struct {
	UserID             primitive.ObjectID `json:"user_id"`
	FullName           string             `json:"full_name"`
	Email              string             `json:"email"`
	PlayaName          string             `json:"playa_name,omitempty"`
	YearsBurned        *int               `json:"years_burned,omitempty"`
	Skills             []string           `json:"skills,omitempty"`
	HasTicket          *bool              `json:"has_ticket"`
	HasVehiclePass     *bool              `json:"has_vehicle_pass"`
	TicketLabel        string             `json:"ticket_label"`
	VehiclePassLabel   string             `json:"vehicle_pass_label"`
	InterestedInEAP    *bool              `json:"interested_in_eap,omitempty"`
	InterestedInStrike *bool              `json:"interested_in_strike,omitempty"`
	ArrivalDate        *string            `json:"arrival_date,omitempty"`
	DepartureDate      *string            `json:"departure_date,omitempty"`
	City               string             `json:"city,omitempty"`
	State              string             `json:"state,omitempty"`
}

// resolveEntries loads each entry's member and user and computes the
// effective view. Entries whose member or user record has gone missing are
// skipped rather than failing the whole roster read.
func (h *Handler) resolveEntries(ctx context.Context, db *mongo.Database, entries []models.RosterEntry) ([]resolve.EffectiveMember, []entryView, error) {
	memberIDs := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		memberIDs = append(memberIDs, e.MemberID)
	}
	members, err := memberstore.New(db).GetMany(ctx, memberIDs)
	if err != nil {
		return nil, nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	users, err := userstore.New(db).GetMany(ctx, userIDs)
	if err != nil {
		return nil, nil, err
	}

	resolved := make([]resolve.EffectiveMember, 0, len(entries))
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		m, ok := members[e.MemberID]
		if !ok {
			continue
		}
		u, ok := users[m.UserID]
		if !ok {
			continue
		}
		em := resolve.Member(e, u, nil)
		resolved = append(resolved, em)
		views = append(views, entryView{RosterEntry: e, Resolved: toFields(em)})
	}
	return resolved, views, nil
}

func toFields(em resolve.EffectiveMember) resolvedFields {
	f := resolvedFields{
		UserID:             em.UserID,
		FullName:           em.FullName,
		Email:              em.Email,
		PlayaName:          em.PlayaName,
		YearsBurned:        em.YearsBurned,
		Skills:             em.Skills,
		HasTicket:          em.HasTicket,
		HasVehiclePass:     em.HasVehiclePass,
		TicketLabel:        resolve.BoolLabel(em.HasTicket),
		VehiclePassLabel:   resolve.BoolLabel(em.HasVehiclePass),
		InterestedInEAP:    em.InterestedInEAP,
		InterestedInStrike: em.InterestedInStrike,
		City:               em.City,
		State:              em.State,
	}
	if em.ArrivalDate != nil {
		s := em.ArrivalDate.Format("2006-01-02")
		f.ArrivalDate = &s
	}
	if em.DepartureDate != nil {
		s := em.DepartureDate.Format("2006-01-02")
		f.DepartureDate = &s
	}
	return f
}
