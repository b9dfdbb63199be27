package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

func anonSession() domain.Session {
	return domain.Session{}
}

func professionalSession() domain.Session {
	return domain.Session{Authenticated: true, UserID: "u1", Role: domain.RoleProfessional}
}

func managerSession() domain.Session {
	return domain.Session{Authenticated: true, UserID: "m1", Role: domain.RoleManager}
}

func roleLessSession() domain.Session {
	return domain.Session{Authenticated: true, UserID: "x1", Role: domain.RoleNone}
}

func TestResolveRoute(t *testing.T) {
	tests := []struct {
		name         string
		sess         domain.Session
		path         string
		wantAllowed  bool
		wantRedirect string
	}{
		// unauthenticated
		{"anon on login", anonSession(), domain.RouteLogin, true, ""},
		{"anon on signup", anonSession(), domain.RouteSignUp, true, ""},
		{"anon on password reset", anonSession(), domain.RoutePasswordReset, true, ""},
		{"anon on manager area", anonSession(), domain.RouteManagerArea, false, domain.RouteLogin},
		{"anon on professional area", anonSession(), domain.RouteProfessionalArea, false, domain.RouteLogin},
		{"anon on profile", anonSession(), domain.RouteProfile, false, domain.RouteLogin},
		{"anon on root", anonSession(), domain.RouteHome, false, domain.RouteLogin},

		// professional
		{"professional on own area", professionalSession(), domain.RouteProfessionalArea, true, ""},
		{"professional on manager area", professionalSession(), domain.RouteManagerArea, false, domain.RouteProfessionalArea},
		{"professional on login", professionalSession(), domain.RouteLogin, false, domain.RouteProfessionalArea},
		{"professional on root", professionalSession(), domain.RouteHome, false, domain.RouteProfessionalArea},
		{"professional on profile", professionalSession(), domain.RouteProfile, true, ""},

		// manager
		{"manager on own area", managerSession(), domain.RouteManagerArea, true, ""},
		{"manager on professional area", managerSession(), domain.RouteProfessionalArea, false, domain.RouteManagerArea},
		{"manager on signup", managerSession(), domain.RouteSignUp, false, domain.RouteManagerArea},
		{"manager on root", managerSession(), domain.RouteHome, false, domain.RouteManagerArea},

		// authenticated without a recognized role
		{"roleless on root", roleLessSession(), domain.RouteHome, false, domain.RouteProfile},
		{"roleless on manager area", roleLessSession(), domain.RouteManagerArea, false, domain.RouteProfile},
		{"roleless on professional area", roleLessSession(), domain.RouteProfessionalArea, false, domain.RouteProfile},
		{"roleless on profile", roleLessSession(), domain.RouteProfile, true, ""},

		// recovery pages stay reachable while signed in
		{"professional on new password", professionalSession(), domain.RouteNewPassword, true, ""},
		{"professional on reset confirm", professionalSession(), domain.RoutePasswordResetConfirm, true, ""},

		// empty path is the root
		{"anon on empty path", anonSession(), "", false, domain.RouteLogin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ResolveRoute(tt.sess, tt.path)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			assert.Equal(t, tt.wantRedirect, got.RedirectTo)
		})
	}
}

// Following a redirect must always land on an allowed page, for any
// session: otherwise the SPA could loop.
func TestResolveRoute_RedirectsConverge(t *testing.T) {
	sessions := []domain.Session{
		anonSession(),
		professionalSession(),
		managerSession(),
		roleLessSession(),
		{Authenticated: true, UserID: "a1", Role: domain.RoleAdmin},
	}
	paths := []string{
		domain.RouteLogin, domain.RouteSignUp, domain.RoutePasswordReset,
		domain.RoutePasswordResetConfirm, domain.RouteNewPassword,
		domain.RouteHome, domain.RouteProfile,
		domain.RouteProfessionalArea, domain.RouteManagerArea,
		"/unknown-page",
	}

	for _, sess := range sessions {
		for _, path := range paths {
			first := service.ResolveRoute(sess, path)
			if first.Allowed {
				continue
			}
			second := service.ResolveRoute(sess, first.RedirectTo)
			assert.True(t, second.Allowed,
				"role %q: %s -> %s should be terminal", sess.Role, path, first.RedirectTo)
		}
	}
}

// Resolving the same input twice yields the same decision.
func TestResolveRoute_Idempotent(t *testing.T) {
	sess := managerSession()
	first := service.ResolveRoute(sess, domain.RouteProfessionalArea)
	second := service.ResolveRoute(sess, domain.RouteProfessionalArea)
	assert.Equal(t, first, second)
}
