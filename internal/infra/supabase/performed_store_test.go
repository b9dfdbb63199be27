package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/infra/resilience"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	client := NewClient(
		&http.Client{Timeout: 2 * time.Second},
		srv.URL, "anon-key", "service-key",
		resilience.NewCircuitBreaker("store-test"),
		resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond, MaxConcurrency: 2},
		zap.NewNop(),
	)
	return client, srv
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in     string
		isZero bool
	}{
		{"2026-08-15T13:45:00Z", false},
		{"2026-08-15T13:45:00.123456Z", false},
		{"2026-08-15T13:45:00.123456", false}, // Postgres without zone
		{"2026-08-15", false},
		{"15/08/2026", true},
		{"", true},
	}

	for _, tt := range tests {
		got := parseTimestamp(tt.in)
		if got.IsZero() != tt.isZero {
			t.Errorf("parseTimestamp(%q): zero=%v, want zero=%v", tt.in, got.IsZero(), tt.isZero)
		}
	}
}

func TestListPerformed_QueryBounds(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[]")
	})

	_, err := client.ListPerformed(context.Background(), port.PerformedQuery{
		UserID:       "u1",
		Start:        "2026-08-01",
		EndExclusive: "2026-08-16",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{
		"order=created_at.desc",
		"user_id=eq.u1",
		"created_at=gte.2026-08-01",
		"created_at=lt.2026-08-16",
	} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestListPerformed_DecodesRows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"performed_id":      "r1",
				"user_id":           "u1",
				"professional_name": "Maria",
				"service":           []map[string]any{{"service_id": "s1", "name": "Corte", "quantity": 1, "value": 60}},
				"products_sold":     []map[string]any{},
				"service_type":      "Serviço",
				"total":             60,
				"created_at":        "2026-08-15T10:00:00Z",
			},
		})
	})

	records, err := client.ListPerformed(context.Background(), port.PerformedQuery{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.ProfessionalName != "Maria" || rec.Total != 60 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("expected parsed created_at")
	}
}

func TestListPerformed_WrapsUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListPerformed(context.Background(), port.PerformedQuery{})
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("expected external-service error, got %v", err)
	}
}

func TestGetUserByID_MissingRowIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[]")
	})

	profile, err := client.GetUserByID(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile, got %+v", profile)
	}
}
