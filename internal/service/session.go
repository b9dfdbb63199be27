// Package service contains the business logic of the BFA, orchestrating the
// Supabase ports behind the HTTP handlers.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/infra/observability"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

var tracer = otel.Tracer("service/salao")

// SessionResolver turns a bearer token into a Session: local HS256
// validation against the Supabase JWT secret, then a users_table lookup for
// the role. Resolution is fail-safe: any doubt about the credential yields
// an unauthenticated session, and a failed role lookup yields an
// authenticated role-less one. Never an error that could leak access.
type SessionResolver struct {
	users     port.UserStore
	cache     port.Cache[domain.Session]
	jwtSecret []byte
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewSessionResolver creates the resolver with all dependencies injected.
func NewSessionResolver(
	users port.UserStore,
	cache port.Cache[domain.Session],
	jwtSecret []byte,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SessionResolver {
	return &SessionResolver{
		users:     users,
		cache:     cache,
		jwtSecret: jwtSecret,
		metrics:   metrics,
		logger:    logger,
	}
}

// Resolve validates token and loads the caller's profile. The result is
// cached keyed by a hash of the token so one page load resolves once.
func (r *SessionResolver) Resolve(ctx context.Context, token string) domain.Session {
	ctx, span := tracer.Start(ctx, "SessionResolver.Resolve")
	defer span.End()

	if token == "" {
		return domain.Session{}
	}

	cacheKey := sessionCacheKey(token)
	if cached, ok := r.cache.Get(cacheKey); ok {
		r.metrics.IncrCacheHit("session")
		return cached
	}
	r.metrics.IncrCacheMiss("session")

	userID, err := r.validateToken(token)
	if err != nil {
		r.logger.Debug("session: token rejected", zap.Error(err))
		return domain.Session{}
	}

	sess := domain.Session{
		Authenticated: true,
		UserID:        userID,
		Role:          domain.RoleNone,
	}

	profile, err := r.users.GetUserByID(ctx, userID)
	if err != nil {
		// The credential itself checked out; only the role lookup failed.
		// The caller stays authenticated with no role, which grants nothing
		// beyond the neutral area. Not cached so the next resolve retries.
		r.logger.Warn("session: profile fetch failed, resolving without role",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		r.metrics.IncrExternalError("supabase/rest")
		return sess
	}
	if profile != nil {
		sess.Role = domain.ParseRole(profile.Role)
		sess.Profile = profile
	}

	r.cache.Set(cacheKey, sess)
	return sess
}

// validateToken checks signature and registered claims, returning the
// subject (the Supabase auth user id).
func (r *SessionResolver) validateToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return r.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return sub, nil
}

// Invalidate drops the cached session for token, used on sign-out and
// password change so stale roles do not outlive the credential.
func (r *SessionResolver) Invalidate(token string) {
	if token == "" {
		return
	}
	r.cache.Delete(sessionCacheKey(token))
}

func sessionCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}
