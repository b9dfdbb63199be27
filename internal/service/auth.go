package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// minPasswordLen mirrors the GoTrue project setting so obviously short
// passwords fail before the network round trip.
const minPasswordLen = 6

// Auth fronts the GoTrue flows: login, signup, sign-out and password
// recovery. Signup also creates the users_table profile row that the
// session resolver reads the role from.
type Auth struct {
	provider         port.AuthProvider
	users            port.UserStore
	resolver         *SessionResolver
	resetRedirectURL string
	logger           *zap.Logger
}

// NewAuth creates the auth service. resetRedirectURL is the SPA page the
// recovery email links back to.
func NewAuth(
	provider port.AuthProvider,
	users port.UserStore,
	resolver *SessionResolver,
	resetRedirectURL string,
	logger *zap.Logger,
) *Auth {
	return &Auth{
		provider:         provider,
		users:            users,
		resolver:         resolver,
		resetRedirectURL: resetRedirectURL,
		logger:           logger,
	}
}

// Login exchanges credentials for Supabase session tokens and resolves the
// caller's role so the SPA can route in one round trip.
func (a *Auth) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, span := tracer.Start(ctx, "Auth.Login")
	defer span.End()

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "email and password are required"}
	}

	sess, err := a.provider.SignIn(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleNone
	profile, err := a.users.GetUserByID(ctx, sess.User.ID)
	if err != nil {
		// Login still succeeds; the session resolver settles the role on
		// the next protected request.
		a.logger.Warn("auth: profile fetch after login failed",
			zap.String("user_id", sess.User.ID),
			zap.Error(err),
		)
	} else if profile != nil {
		role = domain.ParseRole(profile.Role)
	}

	a.logger.Info("auth: login", zap.String("user_id", sess.User.ID))
	return &domain.LoginResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    sess.ExpiresIn,
		UserID:       sess.User.ID,
		Role:         string(role),
	}, nil
}

// SignUp registers an auth user and its mirror profile row. New accounts
// start as active professionals; managers promote from the roster page.
func (a *Auth) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.SignUpResponse, error) {
	ctx, span := tracer.Start(ctx, "Auth.SignUp")
	defer span.End()

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &domain.ErrValidation{Field: "email", Message: "invalid email"}
	}
	if len(req.Password) < minPasswordLen {
		return nil, &domain.ErrValidation{Field: "password", Message: "too short"}
	}
	if req.Password != req.ConfirmPassword {
		return nil, &domain.ErrValidation{Field: "confirmPassword", Message: "passwords do not match"}
	}

	user, err := a.provider.SignUp(ctx, email, req.Password, domain.RoleProfessional)
	if err != nil {
		return nil, err
	}

	if err := a.users.CreateUser(ctx, &domain.UserProfile{
		UserID: user.ID,
		Email:  email,
		Role:   string(domain.RoleProfessional),
		Status: true,
	}); err != nil {
		// The auth user exists without a profile row. The resolver treats
		// that profile as RoleNone, so nothing is granted by accident.
		a.logger.Error("auth: profile row creation failed after signup",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, err
	}

	a.logger.Info("auth: signup", zap.String("user_id", user.ID))
	return &domain.SignUpResponse{
		UserID:  user.ID,
		Message: "Cadastro realizado com sucesso",
	}, nil
}

// SignOut revokes the session and drops its cached resolution.
func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	ctx, span := tracer.Start(ctx, "Auth.SignOut")
	defer span.End()

	a.resolver.Invalidate(accessToken)
	return a.provider.SignOut(ctx, accessToken)
}

// RequestPasswordReset triggers the recovery email. Always succeeds from
// the caller's point of view unless the provider itself is down, so the
// endpoint cannot be used to probe which emails exist.
func (a *Auth) RequestPasswordReset(ctx context.Context, req domain.PasswordResetRequestBody) error {
	ctx, span := tracer.Start(ctx, "Auth.RequestPasswordReset")
	defer span.End()

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return &domain.ErrValidation{Field: "email", Message: "email is required"}
	}
	return a.provider.SendPasswordReset(ctx, email, a.resetRedirectURL)
}

// UpdatePassword sets a new password for the caller and invalidates the
// cached session so the old credential stops resolving.
func (a *Auth) UpdatePassword(ctx context.Context, accessToken string, req domain.UpdatePasswordRequest) error {
	ctx, span := tracer.Start(ctx, "Auth.UpdatePassword")
	defer span.End()

	if len(req.NewPassword) < minPasswordLen {
		return &domain.ErrValidation{Field: "newPassword", Message: "too short"}
	}
	if req.NewPassword != req.ConfirmNewPassword {
		return &domain.ErrValidation{Field: "confirmNewPassword", Message: "passwords do not match"}
	}

	if err := a.provider.UpdatePassword(ctx, accessToken, req.NewPassword); err != nil {
		return err
	}
	a.resolver.Invalidate(accessToken)
	return nil
}
