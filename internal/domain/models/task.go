// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task priorities and statuses.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	TaskOpen   = "open"
	TaskClosed = "closed"
)

// Task is a camp-scoped work item. It is independent of any roster but
// shares the User graph for assignment and display-name resolution.
type Task struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	CampID      primitive.ObjectID   `bson:"camp_id" json:"camp_id"`
	Title       string               `bson:"title" json:"title"`
	TitleCI     string               `bson:"title_ci" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Priority    string               `bson:"priority" json:"priority"` // low | medium | high
	Status      string               `bson:"status" json:"status"`     // open | closed
	AssignedTo  []primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Watchers    []primitive.ObjectID `bson:"watchers,omitempty" json:"watchers,omitempty"`
	DueDate     *time.Time           `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`

	// History is append-only: every tracked field change pushes an entry,
	// entries are never edited or removed.
	History  []TaskChange  `bson:"history,omitempty" json:"history,omitempty"`
	Comments []TaskComment `bson:"comments,omitempty" json:"comments,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TaskChange records one field transition in a task's history log.
type TaskChange struct {
	Field     string             `bson:"field" json:"field"`
	Old       string             `bson:"old,omitempty" json:"old,omitempty"`
	New       string             `bson:"new,omitempty" json:"new,omitempty"`
	ChangedBy primitive.ObjectID `bson:"changed_by" json:"changed_by"`
	ChangedAt time.Time          `bson:"changed_at" json:"changed_at"`
}

// TaskComment is one entry in a task's comment thread. The ID is a uuid
// so comments can be referenced without an extra collection.
type TaskComment struct {
	ID        string             `bson:"id" json:"id"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author_id"`
	Body      string             `bson:"body" json:"body"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
