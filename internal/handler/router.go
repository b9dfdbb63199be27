// Package handler exposes the HTTP surface of the BFA: session and route
// guarding, the performed-service history, the catalogs, and the GoTrue
// auth passthrough consumed by the salon SPA.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/infra/observability"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

var tracer = otel.Tracer("handler")

// Services groups everything the router needs injected.
type Services struct {
	Resolver      *service.SessionResolver
	Auth          *service.Auth
	History       *service.History
	Performed     *service.Performed
	Catalog       *service.Catalog
	Professionals *service.Professionals
	Profile       *service.Profile
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract of the salon SPA.
func NewRouter(svcs Services, metrics *observability.Metrics, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svcs.Catalog))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(svcs.Resolver))

		// =============================================
		// 1. Autenticação (public)
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(svcs.Auth, logger))
			r.Post("/signup", authSignUpHandler(svcs.Auth, logger))
			r.Post("/password-reset", authPasswordResetHandler(svcs.Auth, logger))

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(logger))
				r.Post("/logout", authLogoutHandler(svcs.Auth, logger))
				r.Put("/password", authUpdatePasswordHandler(svcs.Auth, logger))
			})
		})

		// =============================================
		// 2. Sessão e guarda de rotas
		// =============================================
		r.Get("/session", sessionHandler(logger))
		r.Get("/session/route", routeDecisionHandler(metrics, logger))

		// =============================================
		// 3. Área autenticada
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(logger))

			// Histórico de atendimentos
			r.Get("/performed-services", historyHandler(svcs.History, logger))
			r.Post("/performed-services", registerPerformedHandler(svcs.Performed, logger))

			// Catálogos (leitura)
			r.Get("/services", listServicesHandler(svcs.Catalog, logger))
			r.Get("/products", listProductsHandler(svcs.Catalog, logger))

			// Perfil do usuário
			r.Get("/profile", getProfileHandler(svcs.Profile, logger))
			r.Put("/profile", updateProfileHandler(svcs.Profile, logger))
			r.Post("/profile/photo", uploadPhotoHandler(svcs.Profile, logger))
		})

		// =============================================
		// 4. Área do gerente
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(logger))
			r.Use(RequireManager(logger))

			r.Delete("/performed-services/{performedId}", deletePerformedHandler(svcs.Performed, logger))

			r.Post("/services", createServiceHandler(svcs.Catalog, logger))
			r.Put("/services/{serviceId}", updateServiceHandler(svcs.Catalog, logger))
			r.Delete("/services/{serviceId}", deleteServiceHandler(svcs.Catalog, logger))

			r.Post("/products", createProductHandler(svcs.Catalog, logger))
			r.Put("/products/{productId}", updateProductHandler(svcs.Catalog, logger))
			r.Delete("/products/{productId}", deleteProductHandler(svcs.Catalog, logger))

			r.Get("/professionals", listProfessionalsHandler(svcs.Professionals, logger))
			r.Put("/professionals/{userId}/role", updateRoleHandler(svcs.Professionals, logger))
			r.Put("/professionals/{userId}/status", updateStatusHandler(svcs.Professionals, logger))

			r.Get("/metrics/usage", usageMetricsHandler(metrics, logger))
		})
	})

	return r
}

// ============================================================
// Operational endpoints
// ============================================================

func healthzHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "salao-bfa", Status: "healthy", LatencyMs: 0, LastChecked: now},
		}

		if catalog != nil {
			start := time.Now()
			_, err := catalog.ListServices(r.Context())
			status := "healthy"
			if err != nil {
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name:        "supabase",
				Status:      status,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			})
		}

		overall := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overall = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overall,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func usageMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetUsageSnapshot())
	}
}
