package records_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/modulecredits/internal/app/features/errors"
	"github.com/dalemusser/modulecredits/internal/app/features/records"
	recordstore "github.com/dalemusser/modulecredits/internal/app/store/records"
	"github.com/dalemusser/modulecredits/internal/app/system/flash"
	"github.com/dalemusser/modulecredits/internal/app/system/limits"
	"github.com/dalemusser/modulecredits/internal/domain/models"
	"github.com/dalemusser/modulecredits/internal/testutil"
	"go.uber.org/zap"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newHandler(t *testing.T, store recordstore.Store) *records.Handler {
	t.Helper()
	logger := zap.NewNop()
	fm, err := flash.NewManager(testSessionKey, flash.DefaultSessionName, "", false, logger)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return records.NewHandler(store, models.DefaultGroupRules(), fm, 5, uierrors.NewErrorLogger(logger), logger)
}

// serve runs fn and swallows template panics; no engine is booted in tests.
func serve(fn http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	defer func() { _ = recover() }()
	fn(w, r)
}

func validForm() url.Values {
	return url.Values{
		"date":                {"2024-02-15"},
		"module_name":         {"Grundlagen BWL"},
		"module_group":        {"BWL"},
		"compulsory_elective": {"PF"},
		"semester":            {"1"},
		"acquired_points":     {"6"},
	}
}

// errStore fails every call.
type errStore struct{ recordstore.Store }

var errBackend = errors.New("backend down")

func (errStore) Insert(context.Context, models.ModuleRecord) (models.ModuleRecord, error) {
	return models.ModuleRecord{}, errBackend
}
func (errStore) All(context.Context) ([]models.ModuleRecord, error) { return nil, errBackend }
func (errStore) FilterByGroup(context.Context, string) ([]models.ModuleRecord, error) {
	return nil, errBackend
}

func TestHandleSubmit_Valid(t *testing.T) {
	store := testutil.SetupTestStore(t)
	h := newHandler(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := testutil.NewRecorder()
	serve(h.HandleSubmit, rec, testutil.NewFormRequest("/data", validForm()))

	rec.AssertStatus(t, http.StatusSeeOther)
	rec.AssertRedirect(t, "/data")
	if rec.Header().Get("Set-Cookie") == "" {
		t.Error("expected flash cookie to be set")
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	got := all[0]
	if got.ModuleName != "Grundlagen BWL" || got.ModuleGroup != "BWL" ||
		got.CompulsoryElective != "PF" || got.Semester != 1 || got.AcquiredPoints != 6 {
		t.Errorf("stored record mismatch: %+v", got)
	}
}

func TestHandleSubmit_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"non-numeric points", "acquired_points", "six"},
		{"non-numeric semester", "semester", "x"},
		{"unknown group", "module_group", "MATH"},
		{"bad category", "compulsory_elective", "OPT"},
		{"negative points", "acquired_points", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.SetupTestStore(t)
			h := newHandler(t, store)
			fx := testutil.NewFixtures(t, store)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			form := validForm()
			form.Set(tt.field, tt.value)

			rec := testutil.NewRecorder()
			serve(h.HandleSubmit, rec, testutil.NewFormRequest("/data", form))

			rec.AssertStatus(t, http.StatusBadRequest)
			if n := fx.Count(ctx); n != 0 {
				t.Errorf("expected no records stored, got %d", n)
			}
		})
	}
}

func TestHandleSubmit_StoresUncheckedFields(t *testing.T) {
	store := testutil.SetupTestStore(t)
	h := newHandler(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := validForm()
	form.Set("date", "")
	form.Set("module_name", "<b></b>")
	form.Set("semester", "0")
	form.Set("acquired_points", "1200")

	rec := testutil.NewRecorder()
	serve(h.HandleSubmit, rec, testutil.NewFormRequest("/data", form))

	rec.AssertStatus(t, http.StatusSeeOther)
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	if got := all[0]; got.Date != "" || got.ModuleName != "" || got.Semester != 0 || got.AcquiredPoints != 1200 {
		t.Errorf("stored record mismatch: %+v", got)
	}
}

func TestHandleSubmit_OversizedBody(t *testing.T) {
	store := testutil.SetupTestStore(t)
	h := newHandler(t, store)
	fx := testutil.NewFixtures(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := validForm()
	form.Set("module_name", strings.Repeat("x", limits.MaxRecordFormSize+1))

	rec := testutil.NewRecorder()
	serve(h.HandleSubmit, rec, testutil.NewFormRequest("/data", form))

	rec.AssertStatus(t, http.StatusBadRequest)
	if n := fx.Count(ctx); n != 0 {
		t.Errorf("expected no records stored, got %d", n)
	}
}

func TestHandleSubmit_StoreError(t *testing.T) {
	h := newHandler(t, errStore{})

	rec := testutil.NewRecorder()
	serve(h.HandleSubmit, rec, testutil.NewFormRequest("/data", validForm()))

	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestServeReport(t *testing.T) {
	store := testutil.SetupTestStore(t)
	h := newHandler(t, store)
	fx := testutil.NewFixtures(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePF(ctx, models.GroupBWL, 24)
	fx.CreateWPF(ctx, models.GroupBWL, 8)

	// Rendering needs a booted engine; this exercises the load + evaluate path.
	rec := testutil.NewRecorder()
	serve(h.ServeReport, rec, testutil.NewRequest(http.MethodGet, "/data"))

	if n := fx.Count(ctx); n != 2 {
		t.Errorf("report must not modify records, count = %d", n)
	}
}

func TestServeReport_StoreError(t *testing.T) {
	h := newHandler(t, errStore{})

	rec := testutil.NewRecorder()
	serve(h.ServeReport, rec, testutil.NewRequest(http.MethodGet, "/data"))

	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestServeList(t *testing.T) {
	store := testutil.SetupTestStore(t)
	h := newHandler(t, store)
	fx := testutil.NewFixtures(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePF(ctx, models.GroupBWL, 6)
	fx.CreatePF(ctx, models.GroupSOZ, 4)

	for _, target := range []string{"/view", "/view?group=soz", "/view?group=NOPE"} {
		rec := testutil.NewRecorder()
		serve(h.ServeList, rec, testutil.NewRequest(http.MethodGet, target))
	}
}

func TestServeList_StoreError(t *testing.T) {
	h := newHandler(t, errStore{})

	rec := testutil.NewRecorder()
	serve(h.ServeList, rec, testutil.NewRequest(http.MethodGet, "/view?group=BWL"))

	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestRoutes(t *testing.T) {
	h := newHandler(t, testutil.SetupTestStore(t))

	rec := testutil.NewRecorder()
	serve(records.Routes(h).ServeHTTP, rec, testutil.NewFormRequest("/", validForm()))
	rec.AssertStatus(t, http.StatusSeeOther)

	rec = testutil.NewRecorder()
	serve(records.ViewRoutes(h).ServeHTTP, rec, testutil.NewRequest(http.MethodDelete, "/"))
	rec.AssertStatus(t, http.StatusMethodNotAllowed)
}
