// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/timeouts"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.DBPingTimeout,
		Short:  appCfg.DBShortTimeout,
		Medium: appCfg.DBMediumTimeout,
		Long:   appCfg.DBLongTimeout,
	})

	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, appCfg, deps.CampCRMMongoDatabase, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureSuperAdmin promotes an existing account to superadmin, or creates
// one when the email is unknown, so a fresh deployment always has an
// operator account.
func ensureSuperAdmin(ctx context.Context, appCfg AppConfig, db *mongo.Database, logger *zap.Logger) error {
	store := userstore.New(db)

	u, err := store.GetByEmail(ctx, appCfg.SuperAdminEmail)
	switch {
	case err == nil:
		if u.Role == "superadmin" {
			return nil
		}
		_, err := db.Collection("users").UpdateByID(ctx, u.ID,
			bson.M{"$set": bson.M{"role": "superadmin"}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to superadmin",
			zap.String("email", appCfg.SuperAdminEmail))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		if appCfg.SuperAdminPassword == "" {
			logger.Warn("superadmin_email set but account missing and no superadmin_password given; skipping bootstrap",
				zap.String("email", appCfg.SuperAdminEmail))
			return nil
		}
		_, err := store.Create(ctx, models.User{
			FullName: "Super Admin",
			Email:    appCfg.SuperAdminEmail,
			Role:     "superadmin",
		}, appCfg.SuperAdminPassword)
		if err != nil {
			return err
		}
		logger.Info("created superadmin account",
			zap.String("email", appCfg.SuperAdminEmail))
		return nil

	default:
		return err
	}
}
