// internal/app/store/camps/campstore.go
package campstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateCampName = errors.New("a camp with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("camps")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Camp, error) {
	var c models.Camp
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Camp{}, err
	}
	return c, nil
}

// GetByInviteCode resolves an invite code to a camp.
func (s *Store) GetByInviteCode(ctx context.Context, code string) (models.Camp, error) {
	var c models.Camp
	if err := s.c.FindOne(ctx, bson.M{"invite_code": strings.TrimSpace(code)}).Decode(&c); err != nil {
		return models.Camp{}, err
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c models.Camp) (models.Camp, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.NameCI = text.Fold(c.Name)
	c.InviteCode = uuid.NewString()
	if c.Status == "" {
		c.Status = "active"
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Camp{}, ErrDuplicateCampName
		}
		return models.Camp{}, err
	}
	return c, nil
}

// UpdateInfo applies a sparse camp patch. Description can be cleared;
// name changes re-fold the CI column.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	setDoc := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range set {
		setDoc[k] = v
	}
	if name, ok := setDoc["name"].(string); ok {
		if strings.TrimSpace(name) == "" {
			delete(setDoc, "name")
		} else {
			setDoc["name_ci"] = text.Fold(name)
		}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": setDoc})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateCampName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// IncrementApplications bumps the lifetime application counter.
func (s *Store) IncrementApplications(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"application_count": 1}})
	return err
}

// SetRecruiting opens or closes the camp to new applications.
func (s *Store) SetRecruiting(ctx context.Context, id primitive.ObjectID, recruiting bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"recruiting": recruiting,
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
