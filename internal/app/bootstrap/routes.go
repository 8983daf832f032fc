// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	adminfeature "github.com/dalemusser/modulecredits/internal/app/features/admin"
	errorsfeature "github.com/dalemusser/modulecredits/internal/app/features/errors"
	healthfeature "github.com/dalemusser/modulecredits/internal/app/features/health"
	homefeature "github.com/dalemusser/modulecredits/internal/app/features/home"
	recordsfeature "github.com/dalemusser/modulecredits/internal/app/features/records"
	reportsfeature "github.com/dalemusser/modulecredits/internal/app/features/reports"
	uploadcsvfeature "github.com/dalemusser/modulecredits/internal/app/features/uploadcsv"
	"github.com/dalemusser/modulecredits/internal/app/system/flash"
	"github.com/dalemusser/modulecredits/internal/app/system/ratelimit"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It boots the template engine, creates
// the flash cookie manager and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	flashMgr, err := flash.NewManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("flash manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	return newRouter(appCfg, deps, flashMgr, logger), nil
}

// newRouter mounts the feature routers. It does not touch the template
// engine, so tests can build it without booting one.
func newRouter(appCfg AppConfig, deps DBDeps, flashMgr *flash.Manager, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)
	rules := models.DefaultGroupRules()

	r := chi.NewRouter()
	if appCfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.NotFound(errorsfeature.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Records, appCfg.StoreBackend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Submission form
	homeHandler := homefeature.NewHandler(rules, flashMgr, appCfg.MaxUploadMB, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Submission, progress report and record list
	recordsHandler := recordsfeature.NewHandler(deps.Records, rules, flashMgr, appCfg.MaxUploadMB, errLog, logger)
	r.Mount("/data", recordsfeature.Routes(recordsHandler))
	r.Mount("/view", recordsfeature.ViewRoutes(recordsHandler))

	// CSV import
	uploadHandler := uploadcsvfeature.NewHandler(deps.Records, rules, flashMgr, appCfg.MaxUploadMB, errLog, logger)
	r.Mount("/records/upload", uploadcsvfeature.Routes(uploadHandler))

	// Exports
	reportsHandler := reportsfeature.NewHandler(deps.Records, rules, errLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))
	r.Mount("/api", reportsfeature.APIRoutes(reportsHandler))

	// Maintenance
	var clearLimiter *ratelimit.Limiter
	if appCfg.ClearRateLimit > 0 {
		clearLimiter = ratelimit.New(appCfg.ClearRateLimit, time.Minute)
	}
	adminHandler := adminfeature.NewHandler(deps.Records, logger)
	r.Mount("/delete-database", adminfeature.Routes(adminHandler, clearLimiter))

	return r
}
