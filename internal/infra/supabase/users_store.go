package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
)

// ============================================================
// users_table: implements port.UserStore
// ============================================================

// GetUserByID fetches one profile row. Returns (nil, nil) when the row does
// not exist so the session resolver can treat a missing profile as RoleNone
// instead of an outage.
func (c *Client) GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "UserStore.GetUserByID")
	defer span.End()

	path := fmt.Sprintf("users_table?user_id=eq.%s&limit=1", url.QueryEscape(userID))
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	if body == nil {
		return nil, nil
	}

	var rows []domain.UserProfile
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode users_table row: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListUsers returns all profile rows ordered by name.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "UserStore.ListUsers")
	defer span.End()

	body, err := c.getWithRetry(ctx, "users_table?order=name.asc")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	if body == nil {
		return []domain.UserProfile{}, nil
	}

	var rows []domain.UserProfile
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode users_table rows: %w", err)
	}
	return rows, nil
}

// CreateUser inserts the profile row that mirrors a fresh auth user.
func (c *Client) CreateUser(ctx context.Context, profile *domain.UserProfile) error {
	ctx, span := tracer.Start(ctx, "UserStore.CreateUser")
	defer span.End()

	_, err := c.doPost(ctx, "users_table", map[string]any{
		"user_id": profile.UserID,
		"name":    profile.Name,
		"email":   profile.Email,
		"phone":   profile.Phone,
		"address": profile.Address,
		"role":    profile.Role,
		"status":  profile.Status,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	return nil
}

// UpdateUser patches a profile row and returns the fresh state.
func (c *Client) UpdateUser(ctx context.Context, userID string, updates map[string]any) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "UserStore.UpdateUser")
	defer span.End()

	path := fmt.Sprintf("users_table?user_id=eq.%s", url.QueryEscape(userID))
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}

	updated, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return updated, nil
}
