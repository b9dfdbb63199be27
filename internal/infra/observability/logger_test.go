package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_LevelSelection(t *testing.T) {
	warn := NewLogger("warn")
	if warn.Core().Enabled(zapcore.InfoLevel) {
		t.Error("warn logger should not enable info")
	}
	if !warn.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn logger should enable warn")
	}

	// Unknown level falls back to the production default.
	fallback := NewLogger("shouting")
	if !fallback.Core().Enabled(zapcore.InfoLevel) {
		t.Error("fallback logger should enable info")
	}
	if fallback.Core().Enabled(zapcore.DebugLevel) {
		t.Error("fallback logger should not enable debug")
	}
}

func TestZapLoggerMiddleware_LevelFollowsStatus(t *testing.T) {
	cases := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		core, logs := observer.New(zapcore.DebugLevel)
		mw := ZapLoggerMiddleware(zap.New(core))

		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/session", nil))

		entries := logs.All()
		if len(entries) != 1 {
			t.Fatalf("status %d: expected one log entry, got %d", tc.status, len(entries))
		}
		if entries[0].Level != tc.level {
			t.Errorf("status %d: expected level %s, got %s", tc.status, tc.level, entries[0].Level)
		}

		fields := entries[0].ContextMap()
		if fields["status"] != int64(tc.status) {
			t.Errorf("status %d: logged status %v", tc.status, fields["status"])
		}
		if fields["path"] != "/v1/session" {
			t.Errorf("status %d: logged path %v", tc.status, fields["path"])
		}
	}
}
