// Package rosterpolicy provides authorization policies for roster mutations.
//
// Authorization rules:
//   - Admins (and superadmins) can manage any camp's roster
//   - The camp owner can manage their camp's roster
//   - A member whose camp role is camp-lead can manage the roster
//   - Everyone else can read the roster but not mutate it
package rosterpolicy

import (
	"context"
	"net/http"

	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/authz"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CanManageRoster reports whether the current user may create/archive the
// camp's roster and mutate its entries (overrides, dues, add/remove).
func CanManageRoster(ctx context.Context, r *http.Request, db *mongo.Database, campID primitive.ObjectID) bool {
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

	var m models.Member
	err := db.Collection("members").FindOne(ctx, bson.M{
		"camp_id": campID,
		"user_id": uid,
		"status":  models.MemberActive,
	}).Decode(&m)
	if err != nil {
		return false
	}
	return m.Role == models.RoleCampLead
}
