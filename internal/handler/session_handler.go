package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/infra/observability"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

// ============================================================
// Sessão: GET /v1/session, GET /v1/session/route
// ============================================================

// sessionHandler returns the resolved session so the SPA can hydrate its
// auth state in one call. Unauthenticated is a valid 200 answer here, not
// an error: the guard decides what to do with it.
func sessionHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/session")
		defer span.End()

		sess := SessionFromContext(r.Context())

		resp := domain.SessionResponse{
			Authenticated: sess.State() == domain.GuardAuthenticated,
		}
		if resp.Authenticated {
			resp.Role = string(sess.Role)
			resp.Profile = sess.Profile
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// routeDecisionHandler answers "may this session land on ?path=" with the
// guard's pure decision.
func routeDecisionHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/session/route")
		defer span.End()

		path := r.URL.Query().Get("path")
		sess := SessionFromContext(r.Context())

		decision := service.ResolveRoute(sess, path)
		if !decision.Allowed {
			metrics.IncrGuardRedirect(decision.RedirectTo)
			logger.Debug("guard: redirect",
				zap.String("path", decision.Path),
				zap.String("redirect_to", decision.RedirectTo),
				zap.String("role", string(sess.Role)),
			)
		}
		writeJSON(w, http.StatusOK, decision)
	}
}
