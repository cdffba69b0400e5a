package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateBurner creates a plain-role user and applies the given patch to its
// burn profile, so tests can set pointer fields in one call.
func (f *Fixtures) CreateBurner(ctx context.Context, fullName, email string, patch func(*models.User)) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       "user",
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if patch != nil {
		patch(&user)
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateCamp creates a recruiting camp owned by the given user.
func (f *Fixtures) CreateCamp(ctx context.Context, name string, ownerID primitive.ObjectID) models.Camp {
	f.t.Helper()

	now := time.Now().UTC()
	camp := models.Camp{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		OwnerID:        ownerID,
		Recruiting:     true,
		InviteCode:     uuid.NewString(),
		EventOpenDate:  time.Date(now.Year(), 8, 24, 0, 0, 0, 0, time.UTC),
		EventCloseDate: time.Date(now.Year(), 9, 1, 0, 0, 0, 0, time.UTC),
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("camps").InsertOne(ctx, camp); err != nil {
		f.t.Fatalf("failed to create test camp: %v", err)
	}
	return camp
}

// CreateMember creates a member record linking a user to a camp.
func (f *Fixtures) CreateMember(ctx context.Context, campID, userID primitive.ObjectID, role, status string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	member := models.Member{
		ID:     primitive.NewObjectID(),
		CampID: campID,
		UserID: userID,
		Role:   role,
		Status: status,
		Application: models.Application{
			Essay:     "Test application essay",
			AppliedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, member); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateActiveMember creates an active member with the plain member role.
func (f *Fixtures) CreateActiveMember(ctx context.Context, campID, userID primitive.ObjectID) models.Member {
	f.t.Helper()
	return f.CreateMember(ctx, campID, userID, models.RoleMember, models.MemberActive)
}

// CreateRoster creates an active roster for the camp with the given entries.
func (f *Fixtures) CreateRoster(ctx context.Context, campID, createdBy primitive.ObjectID, entries ...models.RosterEntry) models.Roster {
	f.t.Helper()

	now := time.Now().UTC()
	roster := models.Roster{
		ID:        primitive.NewObjectID(),
		CampID:    campID,
		Name:      "Test Roster",
		IsActive:  true,
		CreatedBy: createdBy,
		Entries:   entries,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if roster.Entries == nil {
		roster.Entries = []models.RosterEntry{}
	}

	if _, err := f.db.Collection("rosters").InsertOne(ctx, roster); err != nil {
		f.t.Fatalf("failed to create test roster: %v", err)
	}
	return roster
}

// Entry builds an approved roster entry for the member with default
// roster-local metadata.
func Entry(memberID, addedBy primitive.ObjectID) models.RosterEntry {
	return models.RosterEntry{
		MemberID:   memberID,
		AddedAt:    time.Now().UTC(),
		AddedBy:    addedBy,
		Status:     models.EntryApproved,
		Role:       models.EntryRoleMember,
		DuesStatus: models.DuesUnpaid,
	}
}

// CreateTask creates an open task on the camp's board.
func (f *Fixtures) CreateTask(ctx context.Context, campID, createdBy primitive.ObjectID, title string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		CampID:    campID,
		Title:     title,
		TitleCI:   text.Fold(title),
		Priority:  models.PriorityMedium,
		Status:    models.TaskOpen,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
