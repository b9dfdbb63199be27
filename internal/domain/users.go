package domain

import "strings"

// Role is the access-level classification of a user profile.
type Role string

const (
	RoleProfessional Role = "professional"
	RoleManager      Role = "manager"
	RoleAdmin        Role = "admin"

	// RoleNone marks an authenticated user whose profile row is missing or
	// carries no recognized role. Routed to a neutral page, never granted
	// manager access.
	RoleNone Role = ""
)

// ParseRole normalizes a stored role value to the canonical enum.
// Live rows predating the role cleanup carry the Portuguese literals
// "profissional" and "gerente"; both spellings map to the canonical
// role. Anything else is RoleNone.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "professional", "profissional":
		return RoleProfessional
	case "manager", "gerente":
		return RoleManager
	case "admin":
		return RoleAdmin
	default:
		return RoleNone
	}
}

// IsManager reports whether the role grants access to the manager area.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleAdmin
}

// UserProfile is a row of users_table. Read-only snapshot for the duration
// of a request; Supabase owns persistence.
type UserProfile struct {
	UserID          string `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Role            string `json:"role"`
	Status          bool   `json:"status"`
	ProfilePictures string `json:"profile_pictures,omitempty"`
}

// ProfileUpdateRequest is the body for PUT /v1/profile.
type ProfileUpdateRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// RoleUpdateRequest is the body for PUT /v1/professionals/{userId}/role.
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// StatusUpdateRequest is the body for PUT /v1/professionals/{userId}/status.
type StatusUpdateRequest struct {
	Status bool `json:"status"`
}
