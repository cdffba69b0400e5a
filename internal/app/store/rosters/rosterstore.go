// internal/app/store/rosters/rosterstore.go
package rosterstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rosters")}
}

var (
	// ErrActiveRosterExists is returned when creating a roster while the camp
	// already has an active one. The partial unique index on (camp_id,
	// is_active=true) is what actually rejects the write, so two concurrent
	// creates cannot both win.
	ErrActiveRosterExists = errors.New("camp already has an active roster")
	// ErrRosterArchived is returned for any mutation against an archived
	// roster. Archived rosters stay readable for export but never editable.
	ErrRosterArchived = errors.New("roster is archived and read-only")
	// ErrEntryNotFound is returned when the roster has no entry for the member.
	ErrEntryNotFound = errors.New("roster has no entry for this member")
)

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Roster, error) {
	var r models.Roster
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Roster{}, err
	}
	return r, nil
}

// GetActive returns the camp's active, non-archived roster. "No active
// roster" is a valid state, not an error: the roster pointer is nil and
// callers surface a create affordance.
func (s *Store) GetActive(ctx context.Context, campID primitive.ObjectID) (*models.Roster, error) {
	var r models.Roster
	err := s.c.FindOne(ctx, bson.M{
		"camp_id":     campID,
		"is_active":   true,
		"is_archived": false,
	}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create starts a new empty active roster for the camp.
func (s *Store) Create(ctx context.Context, campID primitive.ObjectID, name string, createdBy primitive.ObjectID) (models.Roster, error) {
	now := time.Now().UTC()
	if name == "" {
		name = "Roster " + now.Format("2006")
	}
	r := models.Roster{
		ID:        primitive.NewObjectID(),
		CampID:    campID,
		Name:      name,
		IsActive:  true,
		CreatedBy: createdBy,
		Entries:   []models.RosterEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Roster{}, ErrActiveRosterExists
		}
		return models.Roster{}, err
	}
	return r, nil
}

// Archive soft-closes the roster: it stops being active, keeps its entries
// and overrides readable, and refuses all further mutation.
func (s *Store) Archive(ctx context.Context, rosterID, archivedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": rosterID, "is_archived": false},
		bson.M{"$set": bson.M{
			"is_active":   false,
			"is_archived": true,
			"archived_at": now,
			"archived_by": archivedBy,
			"updated_at":  now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.mutationMiss(ctx, rosterID, primitive.NilObjectID)
	}
	return nil
}

// AddMember upserts a member into the entry list. A duplicate add is a
// no-op that preserves the original entry's added_at; the $ne guard keeps
// that true even when two adds race.
func (s *Store) AddMember(ctx context.Context, rosterID, memberID, addedBy primitive.ObjectID) error {
	entry := models.RosterEntry{
		MemberID:   memberID,
		AddedAt:    time.Now().UTC(),
		AddedBy:    addedBy,
		Status:     models.EntryApproved,
		Role:       models.EntryRoleMember,
		DuesStatus: models.DuesUnpaid,
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":               rosterID,
			"is_archived":       false,
			"entries.member_id": bson.M{"$ne": memberID},
		},
		bson.M{
			"$push": bson.M{"entries": entry},
			"$set":  bson.M{"updated_at": entry.AddedAt},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Roster missing, archived, or entry already present. The last case
		// is the idempotent no-op.
		r, err := s.GetByID(ctx, rosterID)
		if err != nil {
			return err
		}
		if r.IsArchived {
			return ErrRosterArchived
		}
		return nil
	}
	return nil
}

// RemoveMember pulls the entry for the member. Missing entries are a no-op.
func (s *Store) RemoveMember(ctx context.Context, rosterID, memberID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": rosterID, "is_archived": false},
		bson.M{
			"$pull": bson.M{"entries": bson.M{"member_id": memberID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.mutationMiss(ctx, rosterID, primitive.NilObjectID)
	}
	return nil
}

// OverridePatch is a sparse, field-by-field change to an entry's overrides
// object. Set holds new values keyed by bson field name; Clear lists fields
// to drop back to "defer to the user". Field names are validated against
// the override set before any write.
type OverridePatch struct {
	Set   map[string]interface{}
	Clear []string
}

// overrideFields is the closed set of attributes an override may carry.
var overrideFields = map[string]struct{}{
	"playa_name":           {},
	"years_burned":         {},
	"skills":               {},
	"has_ticket":           {},
	"has_vehicle_pass":     {},
	"interested_in_eap":    {},
	"interested_in_strike": {},
	"arrival_date":         {},
	"departure_date":       {},
	"city":                 {},
	"state":                {},
}

// IsOverrideField reports whether name belongs to the override set.
func IsOverrideField(name string) bool {
	_, ok := overrideFields[name]
	return ok
}

// SetOverride merges a patch into the entry's overrides field-by-field via
// dotted $set/$unset paths; the object is never replaced wholesale, so
// untouched fields keep deferring to the user. The whole patch lands in one
// document update, so it applies all-or-nothing.
//
// There is no revision guard: two leads writing the same field concurrently
// resolve last-write-wins.
func (s *Store) SetOverride(ctx context.Context, rosterID, memberID primitive.ObjectID, patch OverridePatch) error {
	update := bson.M{}
	set := bson.M{"updated_at": time.Now().UTC()}
	for f, v := range patch.Set {
		if !IsOverrideField(f) {
			return errors.New("unknown override field: " + f)
		}
		set["entries.$.overrides."+f] = v
	}
	update["$set"] = set
	if len(patch.Clear) > 0 {
		unset := bson.M{}
		for _, f := range patch.Clear {
			if !IsOverrideField(f) {
				return errors.New("unknown override field: " + f)
			}
			unset["entries.$.overrides."+f] = ""
		}
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": rosterID, "is_archived": false, "entries.member_id": memberID},
		update,
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.mutationMiss(ctx, rosterID, memberID)
	}
	return nil
}

// SetDuesStatus flips the entry's dues flag.
func (s *Store) SetDuesStatus(ctx context.Context, rosterID, memberID primitive.ObjectID, status string) error {
	if status != models.DuesPaid && status != models.DuesUnpaid {
		return errors.New(`dues status must be "Paid" or "Unpaid"`)
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": rosterID, "is_archived": false, "entries.member_id": memberID},
		bson.M{"$set": bson.M{
			"entries.$.dues_status": status,
			"updated_at":            time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.mutationMiss(ctx, rosterID, memberID)
	}
	return nil
}

// SetEntryStatus moves an entry between approved/pending/rejected.
func (s *Store) SetEntryStatus(ctx context.Context, rosterID, memberID primitive.ObjectID, status string) error {
	if status != models.EntryApproved && status != models.EntryPending && status != models.EntryRejected {
		return errors.New(`entry status must be "approved"|"pending"|"rejected"`)
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": rosterID, "is_archived": false, "entries.member_id": memberID},
		bson.M{"$set": bson.M{
			"entries.$.status": status,
			"updated_at":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.mutationMiss(ctx, rosterID, memberID)
	}
	return nil
}

// Rename updates the roster's display name.
func (s *Store) Rename(ctx context.Context, rosterID primitive.ObjectID, name string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": rosterID, "is_archived": false},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.mutationMiss(ctx, rosterID, primitive.NilObjectID)
	}
	return nil
}

// mutationMiss disambiguates a zero-match update: the roster may be gone,
// archived, or missing the targeted entry.
func (s *Store) mutationMiss(ctx context.Context, rosterID, memberID primitive.ObjectID) error {
	r, err := s.GetByID(ctx, rosterID)
	if err != nil {
		return err
	}
	if r.IsArchived {
		return ErrRosterArchived
	}
	if memberID != primitive.NilObjectID {
		for _, e := range r.Entries {
			if e.MemberID == memberID {
				return errors.New("roster entry update matched nothing; retry")
			}
		}
		return ErrEntryNotFound
	}
	return mongo.ErrNoDocuments
}
