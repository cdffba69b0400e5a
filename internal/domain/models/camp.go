// internal/domain/models/camp.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Camp includes case/diacritic-insensitive fields for search/sort.
type Camp struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"` // ← always stored
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	City        string             `bson:"city,omitempty" json:"city,omitempty"`
	State       string             `bson:"state,omitempty" json:"state,omitempty"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	// Recruiting gates new applications; the counter tracks lifetime
	// application volume for admin dashboards.
	Recruiting       bool   `bson:"recruiting" json:"recruiting"`
	InviteCode       string `bson:"invite_code" json:"invite_code"`
	ApplicationCount int64  `bson:"application_count" json:"application_count"`

	// Event window used by the early-arrival / late-departure predicates.
	EventOpenDate  time.Time `bson:"event_open_date,omitempty" json:"event_open_date,omitempty"`
	EventCloseDate time.Time `bson:"event_close_date,omitempty" json:"event_close_date,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
