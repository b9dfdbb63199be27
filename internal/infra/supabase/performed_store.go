package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// ============================================================
// services_performed_table: implements port.PerformedStore
// ============================================================

// performedRow mirrors a services_performed_table row. created_at arrives
// as a Postgres timestamp string and is normalized here so the rest of the
// code works with time.Time.
type performedRow struct {
	PerformedID      string                   `json:"performed_id"`
	UserID           string                   `json:"user_id"`
	ProfessionalName string                   `json:"professional_name"`
	Service          []domain.ServiceLineItem `json:"service"`
	ProductsSold     []domain.ProductLineItem `json:"products_sold"`
	Observations     string                   `json:"observations"`
	ServiceType      string                   `json:"service_type"`
	Total            float64                  `json:"total"`
	CreatedAt        string                   `json:"created_at"`
}

func (r performedRow) toDomain() domain.PerformedService {
	return domain.PerformedService{
		PerformedID:      r.PerformedID,
		UserID:           r.UserID,
		ProfessionalName: r.ProfessionalName,
		Service:          r.Service,
		ProductsSold:     r.ProductsSold,
		Observations:     r.Observations,
		ServiceType:      r.ServiceType,
		Total:            r.Total,
		CreatedAt:        parseTimestamp(r.CreatedAt),
	}
}

// parseTimestamp accepts the timestamp formats Postgres emits over
// PostgREST. A value that parses as none of them becomes the zero time,
// which sorts last and never matches a date filter.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ListPerformed fetches performed-service rows matching q, newest first.
// Date bounds translate to created_at=gte.<start> and created_at=lt.<end>
// so the end day is included whole.
func (c *Client) ListPerformed(ctx context.Context, q port.PerformedQuery) ([]domain.PerformedService, error) {
	ctx, span := tracer.Start(ctx, "PerformedStore.ListPerformed")
	defer span.End()

	path := "services_performed_table?order=created_at.desc"
	if q.UserID != "" {
		path += fmt.Sprintf("&user_id=eq.%s", url.QueryEscape(q.UserID))
	}
	if q.Start != "" {
		path += fmt.Sprintf("&created_at=gte.%s", url.QueryEscape(q.Start))
	}
	if q.EndExclusive != "" {
		path += fmt.Sprintf("&created_at=lt.%s", url.QueryEscape(q.EndExclusive))
	}

	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	if body == nil {
		return []domain.PerformedService{}, nil
	}

	var rows []performedRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode services_performed_table rows: %w", err)
	}

	out := make([]domain.PerformedService, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// CreatePerformed inserts a record and returns the stored row.
func (c *Client) CreatePerformed(ctx context.Context, rec *domain.PerformedService) (*domain.PerformedService, error) {
	ctx, span := tracer.Start(ctx, "PerformedStore.CreatePerformed")
	defer span.End()

	body, err := c.doPost(ctx, "services_performed_table", map[string]any{
		"user_id":           rec.UserID,
		"professional_name": rec.ProfessionalName,
		"service":           rec.Service,
		"products_sold":     rec.ProductsSold,
		"observations":      rec.Observations,
		"service_type":      rec.ServiceType,
		"total":             rec.Total,
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}

	var rows []performedRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode created performed-service: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: fmt.Errorf("insert returned no representation")}
	}
	created := rows[0].toDomain()
	return &created, nil
}

// DeletePerformed removes a record.
func (c *Client) DeletePerformed(ctx context.Context, performedID string) error {
	ctx, span := tracer.Start(ctx, "PerformedStore.DeletePerformed")
	defer span.End()

	path := fmt.Sprintf("services_performed_table?performed_id=eq.%s", url.QueryEscape(performedID))
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	return nil
}
