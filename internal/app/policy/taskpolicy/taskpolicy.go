// Package taskpolicy provides authorization policies for camp task tracking.
//
// Authorization rules:
//   - Admins can manage tasks in any camp
//   - The camp owner and any active member can view and create tasks
//   - Editing, closing and assignment follow the same membership rule;
//     tasks are a shared board, not a per-lead resource
package taskpolicy

import (
	"context"
	"net/http"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanUseBoard reports whether the current user may read or write the camp's
// task board.
func CanUseBoard(ctx context.Context, r *http.Request, db *mongo.Database, campID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == "admin" || role == "superadmin" {
		return true
	}

	var camp models.Camp
	if err := db.Collection("camps").FindOne(ctx, bson.M{"_id": campID}).Decode(&camp); err != nil {
		return false
	}
	if camp.OwnerID == uid {
		return true
	}
	err := db.Collection("members").FindOne(ctx, bson.M{
		"camp_id": campID,
		"user_id": uid,
		"status":  models.MemberActive,
	}).Err()
	return err == nil
}
