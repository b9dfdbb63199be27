package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

type contextKey string

const (
	sessionKey contextKey = "session"
	tokenKey   contextKey = "accessToken"
)

// SessionMiddleware resolves the bearer token into a Session and injects it
// into the request context. It never rejects by itself: resolution is
// fail-safe and downstream guards decide what an unauthenticated session
// may do, so public and protected handlers share one resolution point.
func SessionMiddleware(resolver *service.SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			sess := resolver.Resolve(r.Context(), token)

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests whose session did not resolve.
func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess.State() != domain.GuardAuthenticated {
				logger.Warn("auth: unauthenticated request",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "Sessão inválida ou expirada")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireManager rejects sessions without manager-area access.
func RequireManager(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if !sess.Role.IsManager() {
				logger.Warn("auth: manager area denied",
					zap.String("path", r.URL.Path),
					zap.String("user_id", sess.UserID),
					zap.String("role", string(sess.Role)),
				)
				writeError(w, http.StatusForbidden, "Acesso restrito a gerentes")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext extracts the resolved session. The zero value is an
// unauthenticated session.
func SessionFromContext(ctx context.Context) domain.Session {
	v, _ := ctx.Value(sessionKey).(domain.Session)
	return v
}

// TokenFromContext extracts the raw bearer token for pass-through calls.
func TokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey).(string)
	return v
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
