// internal/app/store/members/memberstore.go
package memberstore

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
	c       *mongo.Collection
	camps   *mongo.Collection
	rosters *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("members"),
		camps:   db.Collection("camps"),
		rosters: db.Collection("rosters"),
	}
}

var (
	// ErrDuplicateApplication is returned when a Member record already exists
	// for the (camp, user) pair.
	ErrDuplicateApplication = errors.New("user already has a member record for this camp")
	// ErrNotRecruiting is returned when the target camp is closed to applications.
	ErrNotRecruiting = errors.New("camp is not recruiting")
	// ErrNotPending is returned when reviewing an application that is not pending.
	ErrNotPending = errors.New("application is not pending review")

	errBadRole     = errors.New(`role must be "member"|"project-lead"|"camp-lead"`)
	errBadStatus   = errors.New(`status must be "pending"|"active"|"inactive"|"suspended"|"rejected"`)
	errBadDecision = errors.New(`decision must be "approve" or "reject"`)
)

func validRole(r string) bool {
	return r == models.RoleMember || r == models.RoleProjectLead || r == models.RoleCampLead
}

func validStatus(s string) bool {
	switch s {
	case models.MemberPending, models.MemberActive, models.MemberInactive,
		models.MemberSuspended, models.MemberRejected:
		return true
	}
	return false
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// GetByCampUser loads the unique member record for a (camp, user) pair.
func (s *Store) GetByCampUser(ctx context.Context, campID, userID primitive.ObjectID) (models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"camp_id": campID, "user_id": userID}).Decode(&m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// GetMany loads member records by id into a map for entry resolution.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Member, error) {
	out := make(map[primitive.ObjectID]models.Member, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var m models.Member
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	return out, cur.Err()
}

// ListByCamp returns all member records for a camp, optionally filtered by status.
func (s *Store) ListByCamp(ctx context.Context, campID primitive.ObjectID, status string) ([]models.Member, error) {
	filter := bson.M{"camp_id": campID}
	if status != "" {
		if !validStatus(status) {
			return nil, errBadStatus
		}
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Member
	for cur.Next(ctx) {
		var m models.Member
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

// ApplyToCamp creates a pending member record for (camp, user) and bumps the
// camp's application counter. Fails when the camp is not recruiting or a
// member record already exists (the unique index is the final arbiter).
func (s *Store) ApplyToCamp(ctx context.Context, userID, campID primitive.ObjectID, app models.Application) (models.Member, error) {
	var camp models.Camp
	if err := s.camps.FindOne(ctx, bson.M{"_id": campID}).Decode(&camp); err != nil {
		return models.Member{}, err
	}
	if !camp.Recruiting {
		return models.Member{}, ErrNotRecruiting
	}

	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	m := models.Member{
		ID:          primitive.NewObjectID(),
		CampID:      campID,
		UserID:      userID,
		Role:        models.RoleMember,
		Status:      models.MemberPending,
		Application: app,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateApplication
		}
		return models.Member{}, err
	}

	_, err := s.camps.UpdateByID(ctx, campID, bson.M{"$inc": bson.M{"application_count": 1}})
	return m, err
}

// ReviewApplication transitions a pending application to active or rejected
// and stamps the review fields. Caller authorization is the policy layer's
// job; this enforces only the state machine.
func (s *Store) ReviewApplication(ctx context.Context, memberID primitive.ObjectID, decision, notes string, reviewer primitive.ObjectID) (models.Member, error) {
	var status string
	switch decision {
	case "approve":
		status = models.MemberActive
	case "reject":
		status = models.MemberRejected
	default:
		return models.Member{}, errBadDecision
	}

	now := time.Now().UTC()
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": memberID, "status": models.MemberPending},
		bson.M{"$set": bson.M{
			"status":       status,
			"reviewed_at":  now,
			"reviewed_by":  reviewer,
			"review_notes": notes,
			"updated_at":   now,
		}},
	)
	var m models.Member
	if err := res.Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the member is gone or it already left pending.
			if _, lookupErr := s.GetByID(ctx, memberID); lookupErr == nil {
				return models.Member{}, ErrNotPending
			}
			return models.Member{}, mongo.ErrNoDocuments
		}
		return models.Member{}, err
	}
	m.Status = status
	return m, nil
}

// ChangeRole sets a new camp role and appends to the immutable role-history
// log; prior entries are never rewritten.
func (s *Store) ChangeRole(ctx context.Context, memberID primitive.ObjectID, newRole, reason string, changedBy primitive.ObjectID) error {
	if !validRole(newRole) {
		return errBadRole
	}
	m, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if m.Role == newRole {
		return nil
	}

	now := time.Now().UTC()
	entry := models.RoleChange{
		Role:         newRole,
		PreviousRole: m.Role,
		Reason:       reason,
		ChangedBy:    changedBy,
		ChangedAt:    now,
	}
	res, err := s.c.UpdateByID(ctx, memberID, bson.M{
		"$set":  bson.M{"role": newRole, "updated_at": now},
		"$push": bson.M{"role_history": entry},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus is the admin override for any lifecycle state.
func (s *Store) SetStatus(ctx context.Context, memberID primitive.ObjectID, status string) error {
	if !validStatus(status) {
		return errBadStatus
	}
	res, err := s.c.UpdateByID(ctx, memberID, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveAndReset pulls the member's entry from the camp's active roster and
// deletes the member record so the user can reapply. Removal always implies
// "allow reapplication" - the two steps are one operation on purpose and
// must not be exposed separately.
func (s *Store) RemoveAndReset(ctx context.Context, campID, memberID primitive.ObjectID) error {
	m, err := s.GetByID(ctx, memberID)
	if err != nil {
		return err
	}
	if m.CampID != campID {
		return mongo.ErrNoDocuments
	}

	now := time.Now().UTC()
	// Pull from the active roster first; if no active roster exists the
	// member simply wasn't rostered, which is fine.
	if _, err := s.rosters.UpdateOne(ctx,
		bson.M{"camp_id": campID, "is_active": true, "is_archived": false},
		bson.M{
			"$pull": bson.M{"entries": bson.M{"member_id": memberID}},
			"$set":  bson.M{"updated_at": now},
		},
	); err != nil {
		return err
	}

	_, err = s.c.DeleteOne(ctx, bson.M{"_id": memberID})
	return err
}
