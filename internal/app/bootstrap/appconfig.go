// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging and request limits. Everything specific to module credit
// tracking lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// Record store selection
	StoreBackend string // "sqlite" (default) or "mongo"
	SQLitePath   string // SQLite database file (e.g., module_data.db)

	// MongoDB connection configuration (only used if StoreBackend is "mongo")
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Flash message cookie configuration
	SessionKey    string // Secret key for signing the cookie (must be strong in production)
	SessionName   string // Cookie name (default: modulecredits-session)
	SessionDomain string // Cookie domain (blank means current host)

	// CSV upload limit in megabytes
	MaxUploadMB int

	// Allowed /delete-database calls per client IP per minute (0 disables the limit)
	ClearRateLimit int

	// Take the client IP from X-Forwarded-For / X-Real-IP. Only enable behind
	// a proxy that sets these headers.
	TrustProxyHeaders bool
}
