package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// Professionals manages the staff roster from the manager area.
type Professionals struct {
	users  port.UserStore
	logger *zap.Logger
}

// NewProfessionals creates the roster service.
func NewProfessionals(users port.UserStore, logger *zap.Logger) *Professionals {
	return &Professionals{users: users, logger: logger}
}

// List returns all registered profiles.
func (p *Professionals) List(ctx context.Context) ([]domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Professionals.List")
	defer span.End()

	return p.users.ListUsers(ctx)
}

// UpdateRole changes a profile's role. Only canonical roles are accepted;
// the legacy Portuguese spelling normalizes before storage.
func (p *Professionals) UpdateRole(ctx context.Context, userID string, req domain.RoleUpdateRequest) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Professionals.UpdateRole")
	defer span.End()

	role := domain.ParseRole(req.Role)
	if role == domain.RoleNone {
		return nil, &domain.ErrValidation{Field: "role", Message: "unknown role"}
	}

	updated, err := p.users.UpdateUser(ctx, userID, map[string]any{"role": string(role)})
	if err != nil {
		return nil, err
	}

	p.logger.Info("professionals: role updated",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
	)
	return updated, nil
}

// UpdateStatus activates or deactivates a profile.
func (p *Professionals) UpdateStatus(ctx context.Context, userID string, req domain.StatusUpdateRequest) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Professionals.UpdateStatus")
	defer span.End()

	updated, err := p.users.UpdateUser(ctx, userID, map[string]any{"status": req.Status})
	if err != nil {
		return nil, err
	}

	p.logger.Info("professionals: status updated",
		zap.String("user_id", userID),
		zap.Bool("status", req.Status),
	)
	return updated, nil
}
