// Package memberpolicy provides authorization policies for member management.
//
// Authorization rules:
//   - Admins can review applications and change roles in any camp
//   - The camp owner and camp-leads can review applications and change roles
//   - Project-leads can review applications but not change roles
//   - Other roles cannot manage members
package memberpolicy

import (
	"context"
	"net/http"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func campRole(ctx context.Context, db *mongo.Database, campID, userID primitive.ObjectID) (string, bool) {
	var camp models.Camp
	if err := db.Collection("camps").FindOne(ctx, bson.M{"_id": campID}).Decode(&camp); err != nil {
		return "", false
	}
	if camp.OwnerID == userID {
		return models.RoleCampLead, true
	}
	var m models.Member
	err := db.Collection("members").FindOne(ctx, bson.M{
		"camp_id": campID,
		"user_id": userID,
		"status":  models.MemberActive,
	}).Decode(&m)
	if err != nil {
		return "", false
	}
	return m.Role, true
}

// CanReviewApplications reports whether the current user may approve or
// reject applications for the camp.
func CanReviewApplications(ctx context.Context, r *http.Request, db *mongo.Database, campID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == "admin" || role == "superadmin" {
		return true
	}
	cr, ok := campRole(ctx, db, campID, uid)
	return ok && (cr == models.RoleCampLead || cr == models.RoleProjectLead)
}

// CanChangeRoles reports whether the current user may change member roles
// in the camp. Camp-lead only (plus global admins).
func CanChangeRoles(ctx context.Context, r *http.Request, db *mongo.Database, campID primitive.ObjectID) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == "admin" || role == "superadmin" {
		return true
	}
	cr, ok := campRole(ctx, db, campID, uid)
	return ok && cr == models.RoleCampLead
}
