package service

import (
	"github.com/salaoapp/salao-bfa-go/internal/domain"
)

// Route guarding is a pure decision function over (session, path). It is
// idempotent: resolving the decision's own redirect target always yields an
// allowed decision, so the SPA can apply it blindly without redirect loops.

// publicRoutes are reachable without a session.
var publicRoutes = map[string]bool{
	domain.RouteLogin:                true,
	domain.RouteSignUp:               true,
	domain.RoutePasswordReset:        true,
	domain.RoutePasswordResetConfirm: true,
	domain.RouteNewPassword:          true,
}

// authEntryRoutes are the public routes that make no sense for a signed-in
// user and bounce to their home area. The password-recovery pages stay
// reachable: the recovery link signs the user in before landing there.
var authEntryRoutes = map[string]bool{
	domain.RouteLogin:         true,
	domain.RouteSignUp:        true,
	domain.RoutePasswordReset: true,
}

// HomeRoute returns the landing area for a role. Users without a
// recognized role get the neutral profile page, never a dashboard.
func HomeRoute(role domain.Role) string {
	switch {
	case role.IsManager():
		return domain.RouteManagerArea
	case role == domain.RoleProfessional:
		return domain.RouteProfessionalArea
	default:
		return domain.RouteProfile
	}
}

// ResolveRoute decides whether sess may land on path and where to send it
// otherwise.
func ResolveRoute(sess domain.Session, path string) domain.RouteDecision {
	if path == "" {
		path = domain.RouteHome
	}

	if sess.State() == domain.GuardUnauthenticated {
		if publicRoutes[path] {
			return domain.RouteDecision{Path: path, Allowed: true}
		}
		return domain.RouteDecision{Path: path, RedirectTo: domain.RouteLogin}
	}

	home := HomeRoute(sess.Role)

	switch {
	case authEntryRoutes[path]:
		return domain.RouteDecision{Path: path, RedirectTo: home}
	case path == domain.RouteHome:
		return domain.RouteDecision{Path: path, RedirectTo: home}
	case path == domain.RouteManagerArea && !sess.Role.IsManager():
		return domain.RouteDecision{Path: path, RedirectTo: home}
	case path == domain.RouteProfessionalArea && sess.Role != domain.RoleProfessional:
		return domain.RouteDecision{Path: path, RedirectTo: home}
	default:
		return domain.RouteDecision{Path: path, Allowed: true}
	}
}
