// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c        *mongo.Collection
	sanitize *bluemonday.Policy
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("tasks"),
		sanitize: bluemonday.StrictPolicy(),
	}
}

var (
	// ErrBadPriority is returned when a priority is not one of low|medium|high.
	ErrBadPriority = errors.New(`priority must be "low"|"medium"|"high"`)
	// ErrTaskClosed is returned for mutations against a closed task other
	// than reopening it.
	ErrTaskClosed = errors.New("task is closed")
)

func validPriority(p string) bool {
	return p == models.PriorityLow || p == models.PriorityMedium || p == models.PriorityHigh
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListByCamp returns camp tasks filtered by optional status, priority, and
// assignee, newest first.
func (s *Store) ListByCamp(ctx context.Context, campID primitive.ObjectID, status, priority string, assignee *primitive.ObjectID) ([]models.Task, error) {
	filter := bson.M{"camp_id": campID}
	if status != "" {
		filter["status"] = status
	}
	if priority != "" {
		if !validPriority(priority) {
			return nil, ErrBadPriority
		}
		filter["priority"] = priority
	}
	if assignee != nil {
		filter["assigned_to"] = *assignee
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Task
	for cur.Next(ctx) {
		var t models.Task
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

// Create inserts a new open task. The description is sanitized.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if !validPriority(t.Priority) {
		return models.Task{}, ErrBadPriority
	}
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.TitleCI = text.Fold(t.Title)
	t.Description = s.sanitize.Sanitize(t.Description)
	t.Status = models.TaskOpen
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// UpdateFields applies title/description/priority/due-date changes and
// pushes one history entry per changed field. History is append-only.
type UpdateFields struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	ClearDue    bool
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, f UpdateFields, changedBy primitive.ObjectID) (models.Task, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if t.Status == models.TaskClosed {
		return models.Task{}, ErrTaskClosed
	}

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	var changes []models.TaskChange
	record := func(field, old, new string) {
		changes = append(changes, models.TaskChange{
			Field: field, Old: old, New: new, ChangedBy: changedBy, ChangedAt: now,
		})
	}

	if f.Title != nil && *f.Title != t.Title {
		record("title", t.Title, *f.Title)
		set["title"] = *f.Title
		set["title_ci"] = text.Fold(*f.Title)
	}
	if f.Description != nil {
		clean := s.sanitize.Sanitize(*f.Description)
		if clean != t.Description {
			record("description", t.Description, clean)
			set["description"] = clean
		}
	}
	if f.Priority != nil && *f.Priority != t.Priority {
		if !validPriority(*f.Priority) {
			return models.Task{}, ErrBadPriority
		}
		record("priority", t.Priority, *f.Priority)
		set["priority"] = *f.Priority
	}
	if f.DueDate != nil {
		record("due_date", fmtDue(t.DueDate), f.DueDate.Format(time.RFC3339))
		set["due_date"] = *f.DueDate
	}

	update := bson.M{"$set": set}
	if f.ClearDue && t.DueDate != nil {
		record("due_date", fmtDue(t.DueDate), "")
		update["$unset"] = bson.M{"due_date": ""}
	}
	if len(changes) > 0 {
		update["$push"] = bson.M{"history": bson.M{"$each": changes}}
	}

	if _, err := s.c.UpdateByID(ctx, id, update); err != nil {
		return models.Task{}, err
	}
	return s.GetByID(ctx, id)
}

func fmtDue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// SetStatus opens or closes a task, recording the transition.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string, changedBy primitive.ObjectID) error {
	if status != models.TaskOpen && status != models.TaskClosed {
		return errors.New(`status must be "open"|"closed"`)
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.Status == status {
		return nil
	}
	now := time.Now().UTC()
	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "updated_at": now},
		"$push": bson.M{"history": models.TaskChange{
			Field: "status", Old: t.Status, New: status, ChangedBy: changedBy, ChangedAt: now,
		}},
	})
	return err
}

// Assign adds a user to assigned_to (no duplicates) and logs the change.
func (s *Store) Assign(ctx context.Context, id, userID, changedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.TaskOpen, "assigned_to": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{
				"assigned_to": userID,
				"history": models.TaskChange{
					Field: "assigned_to", New: userID.Hex(), ChangedBy: changedBy, ChangedAt: now,
				},
			},
			"$set": bson.M{"updated_at": now},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		t, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t.Status == models.TaskClosed {
			return ErrTaskClosed
		}
		return nil // already assigned
	}
	return nil
}

// Unassign removes a user from assigned_to and logs the change.
func (s *Store) Unassign(ctx context.Context, id, userID, changedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.TaskOpen},
		bson.M{
			"$pull": bson.M{"assigned_to": userID},
			"$push": bson.M{"history": models.TaskChange{
				Field: "assigned_to", Old: userID.Hex(), ChangedBy: changedBy, ChangedAt: now,
			}},
			"$set": bson.M{"updated_at": now},
		},
	)
	return err
}

// AddWatcher subscribes a user to task updates.
func (s *Store) AddWatcher(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"watchers": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddComment appends a sanitized comment to the thread.
func (s *Store) AddComment(ctx context.Context, id, authorID primitive.ObjectID, body string) (models.TaskComment, error) {
	comment := models.TaskComment{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Body:      s.sanitize.Sanitize(body),
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": comment.CreatedAt},
	})
	if err != nil {
		return models.TaskComment{}, err
	}
	if res.MatchedCount == 0 {
		return models.TaskComment{}, mongo.ErrNoDocuments
	}
	return comment, nil
}
