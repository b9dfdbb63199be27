package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

// ============================================================
// Histórico de atendimentos: /v1/performed-services
// ============================================================

// historyPage is the paginated body for GET /v1/performed-services.
type historyPage struct {
	Records    []performedView `json:"records"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalCount int             `json:"total_count"`
	TotalValue string          `json:"total_value"`
}

// performedView is one record as the history screen renders it.
type performedView struct {
	PerformedID      string                   `json:"performed_id"`
	ProfessionalName string                   `json:"professional_name"`
	Service          []domain.ServiceLineItem `json:"service"`
	ProductsSold     []domain.ProductLineItem `json:"products_sold"`
	Observations     string                   `json:"observations,omitempty"`
	ServiceType      string                   `json:"service_type"`
	Total            float64                  `json:"total"`
	TotalFormatted   string                   `json:"total_formatted"`
	CreatedAt        string                   `json:"created_at"`
}

func historyHandler(svc *service.History, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/performed-services")
		defer span.End()

		sess := SessionFromContext(r.Context())
		q := r.URL.Query()
		filter := domain.HistoryFilter{
			StartDate:      q.Get("start_date"),
			EndDate:        q.Get("end_date"),
			ProfessionalID: q.Get("professional_id"),
			ServiceType:    q.Get("service_type"),
		}
		page, pageSize := parsePagination(r)
		span.SetAttributes(attribute.Int("page", page))

		records, err := svc.Load(ctx, sess, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var totalValue float64
		for _, rec := range records {
			totalValue += rec.Total
		}

		window, page := service.Paginate(records, page, pageSize)
		views := make([]performedView, 0, len(window))
		for _, rec := range window {
			views = append(views, performedView{
				PerformedID:      rec.PerformedID,
				ProfessionalName: rec.ProfessionalName,
				Service:          rec.Service,
				ProductsSold:     rec.ProductsSold,
				Observations:     rec.Observations,
				ServiceType:      rec.ServiceType,
				Total:            rec.Total,
				TotalFormatted:   domain.FormatBRL(rec.Total),
				CreatedAt:        rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		writeJSON(w, http.StatusOK, historyPage{
			Records:    views,
			Page:       page,
			PageSize:   pageSize,
			TotalCount: len(records),
			TotalValue: domain.FormatBRL(totalValue),
		})
	}
}

func registerPerformedHandler(svc *service.Performed, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/performed-services")
		defer span.End()

		var req domain.PerformedCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := SessionFromContext(r.Context())
		created, err := svc.Register(ctx, sess, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func deletePerformedHandler(svc *service.Performed, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/performed-services/{performedId}")
		defer span.End()

		performedID := chi.URLParam(r, "performedId")
		if !validID(performedID) {
			writeError(w, http.StatusBadRequest, "performed_id must be a valid uuid")
			return
		}

		if err := svc.Delete(ctx, performedID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
