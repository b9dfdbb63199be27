package service

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/infra/observability"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// History aggregates performed-service records with the catalogs they
// reference into the history view: role-scoped, date-bounded, newest first.
type History struct {
	performed port.PerformedStore
	catalog   port.CatalogStore
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewHistory creates the history aggregator with all dependencies injected.
func NewHistory(
	performed port.PerformedStore,
	catalog port.CatalogStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *History {
	return &History{
		performed: performed,
		catalog:   catalog,
		metrics:   metrics,
		logger:    logger,
	}
}

// Load fetches the records visible to sess under filter. The professional
// filter always narrows to that professional; for non-managers it
// intersects with their own scope, so pointing it at anyone else yields an
// empty history rather than a peek at foreign records. The whole load fails
// if any of the three fetches fails: a history with silently missing rows
// or unnamed line items is worse than an error.
func (h *History) Load(ctx context.Context, sess domain.Session, filter domain.HistoryFilter) ([]domain.PerformedService, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !sess.Authenticated || sess.UserID == "" {
		return nil, &domain.ErrUnauthorized{Message: "Sessão inválida ou expirada"}
	}
	if !sess.Role.IsManager() && filter.ProfessionalID != "" && filter.ProfessionalID != sess.UserID {
		// Own scope intersected with someone else is empty; skip the fetch.
		return []domain.PerformedService{}, nil
	}

	ctx, span := tracer.Start(ctx, "History.Load")
	defer span.End()
	span.SetAttributes(attribute.String("role", string(sess.Role)))

	start := time.Now()
	defer func() {
		h.metrics.RecordRequestDuration("history", time.Since(start))
	}()

	query, err := buildPerformedQuery(sess, filter)
	if err != nil {
		return nil, err
	}

	var (
		records  []domain.PerformedService
		services []domain.Service
		products []domain.Product
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recs, err := h.performed.ListPerformed(gCtx, query)
		if err != nil {
			h.logger.Error("history: performed fetch failed", zap.Error(err))
			return err
		}
		records = recs
		return nil
	})

	g.Go(func() error {
		svcs, err := h.catalog.ListServices(gCtx)
		if err != nil {
			h.logger.Error("history: services fetch failed", zap.Error(err))
			return err
		}
		services = svcs
		return nil
	})

	g.Go(func() error {
		prods, err := h.catalog.ListProducts(gCtx)
		if err != nil {
			h.logger.Error("history: products fetch failed", zap.Error(err))
			return err
		}
		products = prods
		return nil
	})

	if err := g.Wait(); err != nil {
		h.metrics.IncrHistoryLoad("error")
		return nil, err
	}

	enrichLineItems(records, services, products)

	if filter.ServiceType != "" {
		filtered := records[:0]
		for _, rec := range records {
			if domain.ServiceTypeOf(rec) == filter.ServiceType {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	h.metrics.IncrHistoryLoad("success")
	return records, nil
}

// buildPerformedQuery translates the caller-facing filter into store bounds.
// The end date is inclusive by calendar day, so the store bound is the
// start of the following day, exclusive.
func buildPerformedQuery(sess domain.Session, filter domain.HistoryFilter) (port.PerformedQuery, error) {
	q := port.PerformedQuery{}

	if sess.Role.IsManager() {
		q.UserID = filter.ProfessionalID
	} else {
		q.UserID = sess.UserID
	}

	if filter.StartDate != "" {
		if _, err := time.Parse("2006-01-02", filter.StartDate); err != nil {
			return q, &domain.ErrValidation{Field: "start_date", Message: "expected YYYY-MM-DD"}
		}
		q.Start = filter.StartDate
	}
	if filter.EndDate != "" {
		end, err := time.Parse("2006-01-02", filter.EndDate)
		if err != nil {
			return q, &domain.ErrValidation{Field: "end_date", Message: "expected YYYY-MM-DD"}
		}
		q.EndExclusive = end.AddDate(0, 0, 1).Format("2006-01-02")
	}

	return q, nil
}

// enrichLineItems fills in names and unit values from the catalogs so the
// view does not depend on what was denormalized at write time.
func enrichLineItems(records []domain.PerformedService, services []domain.Service, products []domain.Product) {
	serviceByID := make(map[string]domain.Service, len(services))
	for _, s := range services {
		serviceByID[s.ServiceID] = s
	}
	productByID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productByID[p.ProductID] = p
	}

	for ri := range records {
		rec := &records[ri]
		for i := range rec.Service {
			if s, ok := serviceByID[rec.Service[i].ServiceID]; ok {
				if rec.Service[i].Name == "" {
					rec.Service[i].Name = s.Name
				}
				if rec.Service[i].Value == 0 {
					rec.Service[i].Value = s.Value
				}
			}
		}
		for i := range rec.ProductsSold {
			if p, ok := productByID[rec.ProductsSold[i].ProductID]; ok {
				if rec.ProductsSold[i].Name == "" {
					rec.ProductsSold[i].Name = p.Name
				}
				if rec.ProductsSold[i].Value == 0 {
					rec.ProductsSold[i].Value = p.Value
				}
			}
		}
		if rec.ServiceType == "" {
			rec.ServiceType = domain.ServiceTypeOf(*rec)
		}
	}
}

// Paginate cuts one page out of records using the shared page-reset
// normalization: an out-of-range page snaps back to the first.
func Paginate(records []domain.PerformedService, page, pageSize int) ([]domain.PerformedService, int) {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	page = domain.NormalizePage(page, pageSize, len(records))
	start, end := domain.PageWindow(page, pageSize, len(records))
	return records[start:end], page
}
