// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is where
// everything specific to this application lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session token configuration
	TokenSecret string        // HMAC signing secret for session tokens (must be strong in production)
	TokenTTL    time.Duration // Session token lifetime
	TokenIssuer string        // Issuer claim stamped into session tokens

	// Login throttling configuration
	ThrottleMaxFailures int           // Consecutive failures before an identity is blocked
	ThrottleCooldown    time.Duration // How long a blocked identity stays blocked after its last failure
}
