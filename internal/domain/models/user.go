// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a person (or camp account) independent of any camp.
//
// NOTE:
//   - Camp affiliation is not embedded on User. Use the members
//     collection to discover a user's camps.
//   - Burn-profile pointer fields are tri-state: nil means the user has
//     never answered the question, which is distinct from an explicit
//     false/zero answer.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // superadmin | admin | user
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`

	// Burn profile (camp-independent facts).
	PlayaName          string     `bson:"playa_name,omitempty" json:"playa_name,omitempty"`
	YearsBurned        *int       `bson:"years_burned,omitempty" json:"years_burned,omitempty"`
	Skills             []string   `bson:"skills,omitempty" json:"skills,omitempty"`
	HasTicket          *bool      `bson:"has_ticket,omitempty" json:"has_ticket,omitempty"`
	HasVehiclePass     *bool      `bson:"has_vehicle_pass,omitempty" json:"has_vehicle_pass,omitempty"`
	InterestedInEAP    *bool      `bson:"interested_in_eap,omitempty" json:"interested_in_eap,omitempty"`
	InterestedInStrike *bool      `bson:"interested_in_strike,omitempty" json:"interested_in_strike,omitempty"`
	ArrivalDate        *time.Time `bson:"arrival_date,omitempty" json:"arrival_date,omitempty"`
	DepartureDate      *time.Time `bson:"departure_date,omitempty" json:"departure_date,omitempty"`
	City               string     `bson:"city,omitempty" json:"city,omitempty"`
	State              string     `bson:"state,omitempty" json:"state,omitempty"`
	SocialLinks        []string   `bson:"social_links,omitempty" json:"social_links,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
