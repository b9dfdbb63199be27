package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
)

// ============================================================
// GoTrue Auth API: implements port.AuthProvider
// ============================================================

// doAuthRequest executes a request against the GoTrue API. The bearer token
// is the caller's access token for user-scoped calls, or the anon key for
// public flows (login, signup, recover).
func (c *Client) doAuthRequest(ctx context.Context, method, path, bearer string, payload any) (int, []byte, error) {
	u := fmt.Sprintf("%s/auth/v1/%s", c.baseURL, path)

	var reqBody *bytes.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(jsonBody)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, nil, err
	}

	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", bearer))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gotrue: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// SignIn performs the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	ctx, span := tracer.Start(ctx, "GoTrue.SignIn")
	defer span.End()

	status, body, err := c.doAuthRequest(ctx, http.MethodPost, "token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity {
		return nil, &domain.ErrUnauthorized{Message: "Credenciais inválidas. Verifique seu email e senha."}
	}
	if status < 200 || status >= 300 {
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: fmt.Errorf("gotrue returned %d: %s", status, string(body))}
	}

	var grant struct {
		AccessToken  string          `json:"access_token"`
		RefreshToken string          `json:"refresh_token"`
		ExpiresIn    int             `json:"expires_in"`
		User         domain.AuthUser `json:"user"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("decode token grant: %w", err)
	}

	return &domain.AuthSession{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresIn:    grant.ExpiresIn,
		User:         grant.User,
	}, nil
}

// SignUp registers a new auth user carrying the default role in its metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, role domain.Role) (*domain.AuthUser, error) {
	ctx, span := tracer.Start(ctx, "GoTrue.SignUp")
	defer span.End()

	status, body, err := c.doAuthRequest(ctx, http.MethodPost, "signup", "", map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"role": string(role)},
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	if status == http.StatusUnprocessableEntity || status == http.StatusConflict {
		return nil, &domain.ErrConflict{Message: "Email já cadastrado"}
	}
	if status < 200 || status >= 300 {
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: fmt.Errorf("gotrue returned %d: %s", status, string(body))}
	}

	// GoTrue returns either the bare user or a session wrapping it,
	// depending on whether email confirmation is enabled.
	var wrapped struct {
		User *domain.AuthUser `json:"user"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.User != nil && wrapped.User.ID != "" {
		return wrapped.User, nil
	}

	var user domain.AuthUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode signup response: %w", err)
	}
	return &user, nil
}

// SignOut revokes the caller's session.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	ctx, span := tracer.Start(ctx, "GoTrue.SignOut")
	defer span.End()

	status, body, err := c.doAuthRequest(ctx, http.MethodPost, "logout", accessToken, nil)
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	if status < 200 || status >= 300 {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: fmt.Errorf("gotrue returned %d: %s", status, string(body))}
	}
	return nil
}

// SendPasswordReset asks GoTrue to email a recovery link.
func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	ctx, span := tracer.Start(ctx, "GoTrue.SendPasswordReset")
	defer span.End()

	path := "recover"
	if redirectTo != "" {
		path = fmt.Sprintf("recover?redirect_to=%s", url.QueryEscape(redirectTo))
	}

	status, body, err := c.doAuthRequest(ctx, http.MethodPost, path, "", map[string]string{"email": email})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	if status < 200 || status >= 300 {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: fmt.Errorf("gotrue returned %d: %s", status, string(body))}
	}
	return nil
}

// UpdatePassword sets a new password for the caller identified by accessToken
// (a regular session or the recovery-link token).
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	ctx, span := tracer.Start(ctx, "GoTrue.UpdatePassword")
	defer span.End()

	status, body, err := c.doAuthRequest(ctx, http.MethodPut, "user", accessToken, map[string]string{
		"password": newPassword,
	})
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	if status == http.StatusUnauthorized {
		return &domain.ErrUnauthorized{Message: "Token de redefinição de senha inválido."}
	}
	if status < 200 || status >= 300 {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: fmt.Errorf("gotrue returned %d: %s", status, string(body))}
	}
	return nil
}
