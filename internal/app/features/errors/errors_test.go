package errors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// serve runs fn and recovers from template panics when no engine is booted.
func serve(fn func(w http.ResponseWriter, r *http.Request), r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		fn(rec, r)
	}()
	return rec
}

func TestLogServerError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	el := NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/data", nil)
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		el.LogServerError(w, r, "insert record failed", errors.New("disk full"), "Could not save.", "/")
	}, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	entries := logs.FilterMessage("insert record failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["path"] != "/data" || ctx["method"] != http.MethodPost {
		t.Errorf("missing request context: %v", ctx)
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Errorf("level = %v, want error", entries[0].Level)
	}
}

func TestLogBadRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	el := NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/records/upload", nil)
	rec := serve(func(w http.ResponseWriter, r *http.Request) {
		el.LogBadRequest(w, r, "parse form failed", errors.New("bad"), "Invalid form data.", "/")
	}, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if logs.FilterMessage("parse form failed").Len() != 1 {
		t.Error("expected a warn entry")
	}
}

func TestJSONServerError(t *testing.T) {
	el := NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	el.JSONServerError(rec, httptest.NewRequest(http.MethodGet, "/api/progress", nil), "load failed", errors.New("x"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestNotFoundStatus(t *testing.T) {
	rec := serve(NotFound, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
