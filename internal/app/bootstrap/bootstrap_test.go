package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/flash"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/dalemusser/modulecredits/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		StoreBackend:     recordstore.BackendSQLite,
		SQLitePath:       "module_data.db",
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "module_credits",
		MongoMaxPoolSize: 100,
		MongoMinPoolSize: 10,
		SessionKey:       "0123456789abcdef0123456789abcdef",
		SessionName:      flash.DefaultSessionName,
		MaxUploadMB:      5,
		ClearRateLimit:   5,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"sqlite defaults", func(*AppConfig) {}, false},
		{"mongo", func(c *AppConfig) { c.StoreBackend = recordstore.BackendMongo }, false},
		{"unknown backend", func(c *AppConfig) { c.StoreBackend = "postgres" }, true},
		{"empty sqlite path", func(c *AppConfig) { c.SQLitePath = " " }, true},
		{"bad mongo uri", func(c *AppConfig) {
			c.StoreBackend = recordstore.BackendMongo
			c.MongoURI = "http://nope"
		}, true},
		{"bad mongo uri ignored for sqlite", func(c *AppConfig) { c.MongoURI = "http://nope" }, false},
		{"empty mongo database", func(c *AppConfig) {
			c.StoreBackend = recordstore.BackendMongo
			c.MongoDatabase = ""
		}, true},
		{"pool sizes inverted", func(c *AppConfig) {
			c.StoreBackend = recordstore.BackendMongo
			c.MongoMinPoolSize = 200
		}, true},
		{"zero upload limit", func(c *AppConfig) { c.MaxUploadMB = 0 }, true},
		{"negative rate limit", func(c *AppConfig) { c.ClearRateLimit = -1 }, true},
		{"rate limit disabled", func(c *AppConfig) { c.ClearRateLimit = 0 }, false},
		{"empty session key", func(c *AppConfig) { c.SessionKey = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfig_UnknownBackendSentinel(t *testing.T) {
	cfg := validAppConfig()
	cfg.StoreBackend = "redis"
	err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
	if !errors.Is(err, recordstore.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestConnectDB_SQLiteLifecycle(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validAppConfig()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "module_data.db")
	core := &config.CoreConfig{}

	deps, err := ConnectDB(ctx, core, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.Records == nil {
		t.Fatal("expected a record store")
	}
	if deps.MongoClient != nil || deps.MongoDatabase != nil {
		t.Error("sqlite backend must not open a Mongo client")
	}

	if err := EnsureSchema(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Errorf("EnsureSchema: %v", err)
	}
	if err := Startup(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Errorf("Startup: %v", err)
	}

	if _, err := deps.Records.Insert(ctx, models.ModuleRecord{
		Date: "2024-01-01", ModuleName: "Recht", ModuleGroup: models.GroupBWL,
		CompulsoryElective: models.CategoryPF, Semester: 1, AcquiredPoints: 5,
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := Shutdown(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestConnectDB_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validAppConfig()
	cfg.StoreBackend = recordstore.BackendMongo
	cfg.MongoURI = testutil.MongoURI()
	cfg.MongoDatabase = db.Name()
	core := &config.CoreConfig{}

	deps, err := ConnectDB(ctx, core, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.MongoClient == nil || deps.MongoDatabase == nil || deps.Records == nil {
		t.Fatalf("incomplete deps: %+v", deps)
	}
	if err := EnsureSchema(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// Running twice must be harmless.
	if err := EnsureSchema(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema (second run): %v", err)
	}
	if err := Shutdown(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestConnectDB_UnknownBackend(t *testing.T) {
	cfg := validAppConfig()
	cfg.StoreBackend = "csv"

	_, err := ConnectDB(context.Background(), &config.CoreConfig{}, cfg, testLogger())
	if !errors.Is(err, recordstore.ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}

func newTestRouter(t *testing.T) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	cfg := validAppConfig()
	cfg.ClearRateLimit = 0
	return newTestRouterWith(t, cfg)
}

func newTestRouterWith(t *testing.T, cfg AppConfig) (http.Handler, *testutil.Fixtures) {
	t.Helper()
	store := testutil.SetupTestStore(t)
	fm, err := flash.NewManager(cfg.SessionKey, flash.DefaultSessionName, "", false, testLogger())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return newRouter(cfg, DBDeps{Records: store}, fm, testLogger()), testutil.NewFixtures(t, store)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		// Template rendering may panic in tests; no engine is booted.
		defer func() { _ = recover() }()
		h.ServeHTTP(rec, req)
	}()
	return rec
}

func TestRouter_Endpoints(t *testing.T) {
	router, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreatePF(ctx, models.GroupBWL, 6)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/progress", http.StatusOK},
		{http.MethodGet, "/reports/progress.csv", http.StatusOK},
		{http.MethodGet, "/reports/records.csv", http.StatusOK},
		{http.MethodGet, "/no/such/page", http.StatusNotFound},
		{http.MethodPut, "/data", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := serve(router, httptest.NewRequest(tt.method, tt.target, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: status %d, want %d", tt.method, tt.target, rec.Code, tt.want)
		}
	}
}

func TestRouter_SubmitThenClear(t *testing.T) {
	router, fx := newTestRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := "date=2024-01-01&module_name=Recht&module_group=SLM&compulsory_elective=WPF&semester=2&acquired_points=4"
	req := httptest.NewRequest(http.MethodPost, "/data", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(router, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/data" {
		t.Fatalf("submit: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}
	if n := fx.Count(ctx); n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/delete-database", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "Database cleared successfully." {
		t.Errorf("clear: status %d body %q", rec.Code, rec.Body.String())
	}
	if n := fx.Count(ctx); n != 0 {
		t.Errorf("expected empty store after clear, got %d", n)
	}
}

func TestRouter_ClearRateLimitClientIP(t *testing.T) {
	postClear := func(router http.Handler, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/delete-database", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		return serve(router, req).Code
	}

	tests := []struct {
		name       string
		trustProxy bool
		wantSecond int
	}{
		{"headers ignored by default", false, http.StatusTooManyRequests},
		{"headers used behind a proxy", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			cfg.ClearRateLimit = 1
			cfg.TrustProxyHeaders = tt.trustProxy
			router, _ := newTestRouterWith(t, cfg)

			if code := postClear(router, "203.0.113.1"); code != http.StatusOK {
				t.Fatalf("first clear: status %d", code)
			}
			if code := postClear(router, "203.0.113.2"); code != tt.wantSecond {
				t.Errorf("second clear from another forwarded address: status %d, want %d", code, tt.wantSecond)
			}
		})
	}
}
