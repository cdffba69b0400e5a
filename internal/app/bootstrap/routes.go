// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	accountsfeature "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/accounts"
	campsfeature "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/camps"
	healthfeature "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/health"
	loginfeature "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/login"
	membersfeature "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/members"
	rostersfeature "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/rosters"
	tasksfeature "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/features/tasks"
	userstore "github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/store/users"
	"github.com/mocostaneres-hub/burning-man-crm-sub001/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. CampCRM applies request-id and session
// middleware globally, then mounts one feature router per application area:
// accounts, camps, members, rosters, and the task board.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.CampCRMMongoDatabase))

	db := deps.CampCRMMongoDatabase

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CampCRMMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication and accounts
	loginHandler := loginfeature.NewHandler(db, sessionMgr, logger)
	r.Post("/login", loginHandler.HandleLogin)
	r.Post("/logout", loginHandler.HandleLogout)

	accountsHandler := accountsfeature.NewHandler(db, logger)
	r.Mount("/", accountsfeature.Routes(accountsHandler))

	// Camps and membership
	campsHandler := campsfeature.NewHandler(db, logger)
	r.Mount("/camps", campsfeature.Routes(campsHandler))

	membersHandler := membersfeature.NewHandler(db, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler))
	r.Mount("/camps/{campID}/members", membersfeature.CampRoutes(membersHandler))

	// Rosters
	rostersHandler := rostersfeature.NewHandler(db, logger)
	r.Mount("/rosters", rostersfeature.Routes(rostersHandler))
	r.Mount("/camps/{campID}/roster", rostersfeature.CampRoutes(rostersHandler))

	// Task board
	tasksHandler := tasksfeature.NewHandler(db, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler))
	r.Mount("/camps/{campID}/tasks", tasksfeature.CampRoutes(tasksHandler))

	return r, nil
}
