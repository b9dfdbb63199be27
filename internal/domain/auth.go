package domain

// ============================================================
// Auth: Request / Response types (matches frontend API contract)
// ============================================================

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body for 200 from POST /v1/auth/login.
// Tokens are the Supabase session tokens passed through to the SPA.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
	Role         string `json:"role,omitempty"`
}

// SignUpRequest is the body for POST /v1/auth/signup.
type SignUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SignUpResponse is the body for 201 from POST /v1/auth/signup.
type SignUpResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// PasswordResetRequestBody is the body for POST /v1/auth/password-reset.
type PasswordResetRequestBody struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest is the body for PUT /v1/auth/password.
type UpdatePasswordRequest struct {
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// AuthUser is the GoTrue user record subset this layer cares about.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession is a GoTrue token-grant result.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         AuthUser
}
