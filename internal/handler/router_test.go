package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/handler"
	"github.com/salaoapp/salao-bfa-go/internal/infra/cache"
	"github.com/salaoapp/salao-bfa-go/internal/infra/observability"
	"github.com/salaoapp/salao-bfa-go/internal/infra/resilience"
	"github.com/salaoapp/salao-bfa-go/internal/infra/supabase"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

var testSecret = []byte("router-test-secret")

// fakeSupabase serves just enough PostgREST for the router tests: a
// users_table with one professional and one manager, empty catalogs.
func fakeSupabase() *httptest.Server {
	profiles := map[string]domain.UserProfile{
		"prof-1": {UserID: "prof-1", Name: "Maria", Role: "professional", Status: true},
		"mgr-1":  {UserID: "mgr-1", Name: "Carla", Role: "manager", Status: true},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/rest/v1/users_table"):
			for id, p := range profiles {
				if strings.Contains(r.URL.RawQuery, "user_id=eq."+id) {
					json.NewEncoder(w).Encode([]domain.UserProfile{p})
					return
				}
			}
			fmt.Fprint(w, "[]")
		default:
			fmt.Fprint(w, "[]")
		}
	}))
}

func newTestRouter(t *testing.T, backend *httptest.Server) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 5 * time.Millisecond, MaxConcurrency: 2}
	client := supabase.NewClient(
		&http.Client{Timeout: 2 * time.Second},
		backend.URL, "anon-key", "service-key",
		resilience.NewCircuitBreaker("router-test"),
		cfg,
		logger,
	)

	resolver := service.NewSessionResolver(
		client,
		cache.New[domain.Session](time.Minute),
		testSecret,
		metrics,
		logger,
	)

	return handler.NewRouter(handler.Services{
		Resolver:      resolver,
		Auth:          service.NewAuth(client, client, resolver, "http://localhost/new-password", logger),
		History:       service.NewHistory(client, client, metrics, logger),
		Performed:     service.NewPerformed(client, client, client, logger),
		Catalog:       service.NewCatalog(client, logger),
		Professionals: service.NewProfessionals(client, logger),
		Profile:       service.NewProfile(client, client, "bucket_1", logger),
	}, metrics, []string{"*"}, logger)
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + s
}

func doRequest(t *testing.T, router http.Handler, method, target, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestSession_Anonymous(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/v1/session", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Authenticated {
		t.Error("expected unauthenticated session")
	}
}

func TestSession_Professional(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/v1/session", bearerFor(t, "prof-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Authenticated || resp.Role != "professional" {
		t.Errorf("unexpected session: %+v", resp)
	}
}

func TestRouteDecision_AnonToLogin(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/v1/session/route?path=/manager-dashboard", "")
	var decision domain.RouteDecision
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatal(err)
	}
	if decision.Allowed || decision.RedirectTo != domain.RouteLogin {
		t.Errorf("expected redirect to login, got %+v", decision)
	}
}

func TestRouteDecision_ManagerLeavesLogin(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/v1/session/route?path=/login", bearerFor(t, "mgr-1"))
	var decision domain.RouteDecision
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatal(err)
	}
	if decision.Allowed || decision.RedirectTo != domain.RouteManagerArea {
		t.Errorf("expected redirect to manager area, got %+v", decision)
	}
}

func TestHistory_RequiresAuth(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/v1/performed-services", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHistory_EmptyForProfessional(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodGet, "/v1/performed-services", bearerFor(t, "prof-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var page struct {
		Records    []json.RawMessage `json:"records"`
		TotalCount int               `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 0 || len(page.Records) != 0 {
		t.Errorf("expected empty history, got %+v", page)
	}
}

func TestManagerArea_ForbiddenForProfessional(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodDelete,
		"/v1/performed-services/7a0c2c3e-91f3-4ad6-92c7-5a6f0d9f8e11", bearerFor(t, "prof-1"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestManagerArea_InvalidID(t *testing.T) {
	backend := fakeSupabase()
	defer backend.Close()
	router := newTestRouter(t, backend)

	rec := doRequest(t, router, http.MethodDelete,
		"/v1/performed-services/not-a-uuid", bearerFor(t, "mgr-1"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
