// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to this
// application: database connection strings, session settings, and domain
// defaults. The struct is passed to most lifecycle hooks.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // secret for signing session cookies (must be strong in production)
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Database operation timeouts
	DBPingTimeout   time.Duration
	DBShortTimeout  time.Duration
	DBMediumTimeout time.Duration
	DBLongTimeout   time.Duration

	// SuperAdmin bootstrap: when set, this account is created or promoted
	// at startup so a fresh deployment is never locked out.
	SuperAdminEmail    string
	SuperAdminPassword string
}
