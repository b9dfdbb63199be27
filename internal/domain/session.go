package domain

// GuardState is the route guard's resolution state. A request starts at
// GuardUnknown and transitions exactly once per resolution.
type GuardState int

const (
	GuardUnknown GuardState = iota
	GuardUnauthenticated
	GuardAuthenticated
)

func (s GuardState) String() string {
	switch s {
	case GuardUnauthenticated:
		return "unauthenticated"
	case GuardAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the ephemeral result of resolving a caller's credential.
// Never persisted; rebuilt per protected-route boundary.
type Session struct {
	Authenticated bool
	UserID        string
	Role          Role
	Profile       *UserProfile
}

// State maps the session onto the guard state machine.
func (s Session) State() GuardState {
	if !s.Authenticated {
		return GuardUnauthenticated
	}
	return GuardAuthenticated
}

// Client route table. The guard's decision function maps (session, path)
// onto these targets.
const (
	RouteLogin                = "/login"
	RouteSignUp               = "/signup"
	RoutePasswordReset        = "/password-reset"
	RoutePasswordResetConfirm = "/reset-password-confirm"
	RouteNewPassword          = "/new-password"
	RouteHome                 = "/"
	RouteProfile              = "/profile"
	RouteProfessionalArea     = "/professional-dashboard"
	RouteManagerArea          = "/manager-dashboard"
)

// SessionResponse is the body for GET /v1/session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Role          string       `json:"role,omitempty"`
	Profile       *UserProfile `json:"profile,omitempty"`
}

// RouteDecision is the body for GET /v1/session/route.
type RouteDecision struct {
	Path       string `json:"path"`
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}
