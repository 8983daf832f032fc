// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/flash"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the module credits app.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_backend, sqlite_path, etc.
//   - Environment variables: MODULECREDITS_STORE_BACKEND, MODULECREDITS_MONGO_URI, etc.
//   - Command-line flags: --store_backend, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: recordstore.BackendSQLite, Desc: "Record store backend: 'sqlite' or 'mongo'"},
	{Name: "sqlite_path", Default: "module_data.db", Desc: "SQLite database file"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "module_credits", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Flash cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: flash.DefaultSessionName, Desc: "Flash cookie name"},
	{Name: "session_domain", Default: "", Desc: "Flash cookie domain (blank means current host)"},

	{Name: "max_upload_mb", Default: 5, Desc: "Maximum CSV upload size in MB"},
	{Name: "clear_rate_limit", Default: 5, Desc: "Allowed /delete-database calls per IP per minute (0 = unlimited)"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Use X-Forwarded-For/X-Real-IP as the client IP (enable only behind a proxy)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, MODULECREDITS_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MODULECREDITS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		SQLitePath:   appValues.String("sqlite_path"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		MaxUploadMB:       appValues.Int("max_upload_mb"),
		ClearRateLimit:    appValues.Int("clear_rate_limit"),
		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is only checked when Mongo is the selected backend.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case recordstore.BackendSQLite:
		if strings.TrimSpace(appCfg.SQLitePath) == "" {
			return fmt.Errorf("sqlite_path must not be empty")
		}
	case recordstore.BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database must not be empty")
		}
		if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
			return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
				appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
		}
	default:
		return fmt.Errorf("%w: %q", recordstore.ErrUnknownBackend, appCfg.StoreBackend)
	}

	if appCfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", appCfg.MaxUploadMB)
	}
	if appCfg.ClearRateLimit < 0 {
		return fmt.Errorf("clear_rate_limit must not be negative, got %d", appCfg.ClearRateLimit)
	}
	if strings.TrimSpace(appCfg.SessionKey) == "" {
		return fmt.Errorf("session_key must not be empty")
	}
	return nil
}
