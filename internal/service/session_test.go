package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/infra/cache"
	"github.com/salaoapp/salao-bfa-go/internal/infra/observability"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

// --- Mocks ---

type mockUserStore struct {
	profile *domain.UserProfile
	users   []domain.UserProfile
	err     error
	getByID int
}

func (m *mockUserStore) GetUserByID(_ context.Context, _ string) (*domain.UserProfile, error) {
	m.getByID++
	return m.profile, m.err
}

func (m *mockUserStore) ListUsers(_ context.Context) ([]domain.UserProfile, error) {
	return m.users, m.err
}

func (m *mockUserStore) CreateUser(_ context.Context, _ *domain.UserProfile) error {
	return m.err
}

func (m *mockUserStore) UpdateUser(_ context.Context, _ string, _ map[string]any) (*domain.UserProfile, error) {
	return m.profile, m.err
}

var testSecret = []byte("test-jwt-secret")

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return s
}

func newResolver(users *mockUserStore) *service.SessionResolver {
	return service.NewSessionResolver(
		users,
		cache.New[domain.Session](time.Minute),
		testSecret,
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

// --- Tests ---

func TestResolve_ValidToken(t *testing.T) {
	store := &mockUserStore{profile: &domain.UserProfile{
		UserID: "u1",
		Name:   "Maria",
		Role:   "profissional",
		Status: true,
	}}
	r := newResolver(store)

	sess := r.Resolve(context.Background(), signedToken(t, "u1", time.Now().Add(time.Hour)))

	if !sess.Authenticated {
		t.Fatal("expected authenticated session")
	}
	if sess.UserID != "u1" {
		t.Errorf("expected user u1, got %q", sess.UserID)
	}
	if sess.Role != domain.RoleProfessional {
		t.Errorf("expected professional role, got %q", sess.Role)
	}
	if sess.Profile == nil || sess.Profile.Name != "Maria" {
		t.Error("expected profile to be attached")
	}
}

func TestResolve_EmptyToken(t *testing.T) {
	r := newResolver(&mockUserStore{})

	sess := r.Resolve(context.Background(), "")
	if sess.Authenticated {
		t.Fatal("expected unauthenticated session for empty token")
	}
}

func TestResolve_ExpiredToken(t *testing.T) {
	store := &mockUserStore{profile: &domain.UserProfile{UserID: "u1", Role: "professional"}}
	r := newResolver(store)

	sess := r.Resolve(context.Background(), signedToken(t, "u1", time.Now().Add(-time.Hour)))
	if sess.Authenticated {
		t.Fatal("expected unauthenticated session for expired token")
	}
	if store.getByID != 0 {
		t.Error("expired token must not reach the store")
	}
}

func TestResolve_WrongSecret(t *testing.T) {
	r := newResolver(&mockUserStore{})

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	sess := r.Resolve(context.Background(), s)
	if sess.Authenticated {
		t.Fatal("expected unauthenticated session for forged token")
	}
}

func TestResolve_MissingProfile(t *testing.T) {
	// Store reachable but no row: authenticated with no role.
	r := newResolver(&mockUserStore{profile: nil})

	sess := r.Resolve(context.Background(), signedToken(t, "u1", time.Now().Add(time.Hour)))
	if !sess.Authenticated {
		t.Fatal("expected authenticated session")
	}
	if sess.Role != domain.RoleNone {
		t.Errorf("expected no role, got %q", sess.Role)
	}
}

func TestResolve_StoreError(t *testing.T) {
	// Store down but the token is valid: authenticated, no role.
	r := newResolver(&mockUserStore{err: errors.New("connection refused")})

	sess := r.Resolve(context.Background(), signedToken(t, "u1", time.Now().Add(time.Hour)))
	if !sess.Authenticated {
		t.Fatal("expected authenticated session despite store failure")
	}
	if sess.Role != domain.RoleNone {
		t.Errorf("expected no role, got %q", sess.Role)
	}
}

func TestResolve_CachesByToken(t *testing.T) {
	store := &mockUserStore{profile: &domain.UserProfile{UserID: "u1", Role: "manager"}}
	r := newResolver(store)
	token := signedToken(t, "u1", time.Now().Add(time.Hour))

	first := r.Resolve(context.Background(), token)
	second := r.Resolve(context.Background(), token)

	if store.getByID != 1 {
		t.Errorf("expected one store call, got %d", store.getByID)
	}
	if first.Role != second.Role || second.Role != domain.RoleManager {
		t.Error("cached session should match the first resolution")
	}
}

func TestResolve_InvalidateDropsCache(t *testing.T) {
	store := &mockUserStore{profile: &domain.UserProfile{UserID: "u1", Role: "manager"}}
	r := newResolver(store)
	token := signedToken(t, "u1", time.Now().Add(time.Hour))

	r.Resolve(context.Background(), token)
	r.Invalidate(token)
	r.Resolve(context.Background(), token)

	if store.getByID != 2 {
		t.Errorf("expected two store calls after invalidation, got %d", store.getByID)
	}
}
