// internal/domain/models/roster.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roster entry statuses and roster-scoped roles. Entry roles are distinct
// from the Member's camp role; a camp-lead can sit on a roster as a plain
// member and vice versa.
const (
	EntryApproved = "approved"
	EntryPending  = "pending"
	EntryRejected = "rejected"

	EntryRoleMember = "member"
	EntryRoleLead   = "lead"
	EntryRoleAdmin  = "admin"

	DuesPaid   = "Paid"
	DuesUnpaid = "Unpaid"
)

// Roster is a camp-scoped, time-boxed member list for one season.
// At most one roster per camp is active at a time (partial unique index
// on camp_id where is_active=true). Entries are embedded; overrides live
// only here, never on Member or User.
type Roster struct {
	ID         primitive.ObjectID  `bson:"_id" json:"id"`
	CampID     primitive.ObjectID  `bson:"camp_id" json:"camp_id"`
	Name       string              `bson:"name" json:"name"`
	IsActive   bool                `bson:"is_active" json:"is_active"`
	IsArchived bool                `bson:"is_archived" json:"is_archived"`
	ArchivedAt *time.Time          `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
	ArchivedBy *primitive.ObjectID `bson:"archived_by,omitempty" json:"archived_by,omitempty"`
	CreatedBy  primitive.ObjectID  `bson:"created_by" json:"created_by"`
	Entries    []RosterEntry       `bson:"entries" json:"entries"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updated_at"`
}

// RosterEntry wraps one member reference with roster-local metadata.
type RosterEntry struct {
	MemberID   primitive.ObjectID `bson:"member_id" json:"member_id"`
	AddedAt    time.Time          `bson:"added_at" json:"added_at"`
	AddedBy    primitive.ObjectID `bson:"added_by" json:"added_by"`
	Status     string             `bson:"status" json:"status"`           // approved | pending | rejected
	Role       string             `bson:"role" json:"role"`               // member | lead | admin (roster-scoped)
	DuesStatus string             `bson:"dues_status" json:"dues_status"` // Paid | Unpaid
	Overrides  Override           `bson:"overrides,omitempty" json:"overrides"`
}

// Override is a sparse, field-optional patch layered over the member's
// User profile at read time. A nil field defers to the User's own value;
// a non-nil field wins even when it holds false, zero, or an empty slice.
type Override struct {
	PlayaName          *string    `bson:"playa_name,omitempty" json:"playa_name,omitempty"`
	YearsBurned        *int       `bson:"years_burned,omitempty" json:"years_burned,omitempty"`
	Skills             *[]string  `bson:"skills,omitempty" json:"skills,omitempty"`
	HasTicket          *bool      `bson:"has_ticket,omitempty" json:"has_ticket,omitempty"`
	HasVehiclePass     *bool      `bson:"has_vehicle_pass,omitempty" json:"has_vehicle_pass,omitempty"`
	InterestedInEAP    *bool      `bson:"interested_in_eap,omitempty" json:"interested_in_eap,omitempty"`
	InterestedInStrike *bool      `bson:"interested_in_strike,omitempty" json:"interested_in_strike,omitempty"`
	ArrivalDate        *time.Time `bson:"arrival_date,omitempty" json:"arrival_date,omitempty"`
	DepartureDate      *time.Time `bson:"departure_date,omitempty" json:"departure_date,omitempty"`
	City               *string    `bson:"city,omitempty" json:"city,omitempty"`
	State              *string    `bson:"state,omitempty" json:"state,omitempty"`
}
