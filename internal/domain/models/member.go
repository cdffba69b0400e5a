// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member lifecycle statuses.
const (
	MemberPending   = "pending"
	MemberActive    = "active"
	MemberInactive  = "inactive"
	MemberSuspended = "suspended"
	MemberRejected  = "rejected"
)

// Member camp-scoped roles.
const (
	RoleMember      = "member"
	RoleProjectLead = "project-lead"
	RoleCampLead    = "camp-lead"
)

// Member is the authoritative join between users and camps.
// Exactly one document per (camp_id, user_id); role is a scalar.
type Member struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampID primitive.ObjectID `bson:"camp_id" json:"camp_id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role   string             `bson:"role" json:"role"`     // member | project-lead | camp-lead
	Status string             `bson:"status" json:"status"` // pending | active | inactive | suspended | rejected

	Application Application         `bson:"application" json:"application"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewNotes string              `bson:"review_notes,omitempty" json:"review_notes,omitempty"`
	RoleHistory []RoleChange        `bson:"role_history,omitempty" json:"role_history,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Application is the payload submitted when a user applies to a camp.
// Free-text fields are sanitized before storage.
type Application struct {
	Essay     string            `bson:"essay,omitempty" json:"essay,omitempty"`
	Answers   map[string]string `bson:"answers,omitempty" json:"answers,omitempty"`
	AppliedAt time.Time         `bson:"applied_at" json:"applied_at"`
}

// RoleChange is one entry in a member's append-only role audit trail.
// Entries are never rewritten; role changes push a new entry.
type RoleChange struct {
	Role         string             `bson:"role" json:"role"`
	PreviousRole string             `bson:"previous_role" json:"previous_role"`
	Reason       string             `bson:"reason,omitempty" json:"reason,omitempty"`
	ChangedBy    primitive.ObjectID `bson:"changed_by" json:"changed_by"`
	ChangedAt    time.Time          `bson:"changed_at" json:"changed_at"`
}
