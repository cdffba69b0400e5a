// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent
(CreateMany is a no-op for indexes that already exist with the same spec).
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCamps(ctx, db); err != nil {
		problems = append(problems, "camps: "+err.Error())
	}
	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "members: "+err.Error())
	}
	if err := ensureRosters(ctx, db); err != nil {
		problems = append(problems, "rosters: "+err.Error())
	}
	if err := ensureTasks(ctx, db); err != nil {
		problems = append(problems, "tasks: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	logger.Info("indexes ensured")
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("name_ci_id"),
		},
	})
	return err
}

func ensureCamps(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("camps").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "invite_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_invite_code"),
		},
	})
	return err
}

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	// One Member per (camp, user) is the core membership invariant.
	_, err := db.Collection("members").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "camp_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_camp_user"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user"),
		},
	})
	return err
}

func ensureRosters(ctx context.Context, db *mongo.Database) error {
	// The partial unique index rejects a second active roster for a camp at
	// the document level, independent of any application-side check.
	_, err := db.Collection("rosters").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "camp_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_active_per_camp").
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
		{
			Keys:    bson.D{{Key: "camp_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("camp_created"),
		},
	})
	return err
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("tasks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "camp_id", Value: 1}, {Key: "status", Value: 1}, {Key: "priority", Value: 1}},
			Options: options.Index().SetName("camp_status_priority"),
		},
		{
			Keys:    bson.D{{Key: "assigned_to", Value: 1}},
			Options: options.Index().SetName("assignee"),
		},
	})
	return err
}
