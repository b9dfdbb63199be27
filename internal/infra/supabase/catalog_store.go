package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
)

// ============================================================
// services_table / products_table: implements port.CatalogStore
// ============================================================

// ListServices returns the service catalog, newest first.
func (c *Client) ListServices(ctx context.Context) ([]domain.Service, error) {
	ctx, span := tracer.Start(ctx, "CatalogStore.ListServices")
	defer span.End()

	body, err := c.getWithRetry(ctx, "services_table?order=created_at.desc")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	if body == nil {
		return []domain.Service{}, nil
	}

	var rows []domain.Service
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode services_table rows: %w", err)
	}
	return rows, nil
}

// GetServiceByName fetches one catalog entry by exact name.
// Returns (nil, nil) when no entry matches.
func (c *Client) GetServiceByName(ctx context.Context, name string) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "CatalogStore.GetServiceByName")
	defer span.End()

	path := fmt.Sprintf("services_table?name=eq.%s&limit=1", url.QueryEscape(name))
	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	if body == nil {
		return nil, nil
	}

	var rows []domain.Service
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode services_table row: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateService inserts a catalog entry and returns the stored row.
func (c *Client) CreateService(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "CatalogStore.CreateService")
	defer span.End()

	body, err := c.doPost(ctx, "services_table", map[string]any{
		"name":        svc.Name,
		"value":       svc.Value,
		"description": svc.Description,
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}

	var rows []domain.Service
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode created service: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: fmt.Errorf("insert returned no representation")}
	}
	return &rows[0], nil
}

// UpdateService patches a catalog entry.
func (c *Client) UpdateService(ctx context.Context, serviceID string, updates map[string]any) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "CatalogStore.UpdateService")
	defer span.End()

	path := fmt.Sprintf("services_table?service_id=eq.%s", url.QueryEscape(serviceID))
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}

	body, err := c.getWithRetry(ctx, fmt.Sprintf("services_table?service_id=eq.%s&limit=1", url.QueryEscape(serviceID)))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	var rows []domain.Service
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode services_table row: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "service", ID: serviceID}
	}
	return &rows[0], nil
}

// DeleteService removes a catalog entry.
func (c *Client) DeleteService(ctx context.Context, serviceID string) error {
	ctx, span := tracer.Start(ctx, "CatalogStore.DeleteService")
	defer span.End()

	path := fmt.Sprintf("services_table?service_id=eq.%s", url.QueryEscape(serviceID))
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	return nil
}

// ListProducts returns the product catalog, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "CatalogStore.ListProducts")
	defer span.End()

	body, err := c.getWithRetry(ctx, "products_table?order=created_at.desc")
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	if body == nil {
		return []domain.Product{}, nil
	}

	var rows []domain.Product
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode products_table rows: %w", err)
	}
	return rows, nil
}

// CreateProduct inserts a product and returns the stored row.
func (c *Client) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "CatalogStore.CreateProduct")
	defer span.End()

	body, err := c.doPost(ctx, "products_table", map[string]any{
		"name":         p.Name,
		"description":  p.Description,
		"value":        p.Value,
		"quantity":     p.Quantity,
		"min_quantity": p.MinQuantity,
		"image":        p.Image,
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}

	var rows []domain.Product
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode created product: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: fmt.Errorf("insert returned no representation")}
	}
	return &rows[0], nil
}

// UpdateProduct patches a product row.
func (c *Client) UpdateProduct(ctx context.Context, productID string, updates map[string]any) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "CatalogStore.UpdateProduct")
	defer span.End()

	path := fmt.Sprintf("products_table?product_id=eq.%s", url.QueryEscape(productID))
	if err := c.doPatch(ctx, path, updates); err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}

	body, err := c.getWithRetry(ctx, fmt.Sprintf("products_table?product_id=eq.%s&limit=1", url.QueryEscape(productID)))
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	var rows []domain.Product
	if body != nil {
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode products_table row: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "product", ID: productID}
	}
	return &rows[0], nil
}

// DeleteProduct removes a product row.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	ctx, span := tracer.Start(ctx, "CatalogStore.DeleteProduct")
	defer span.End()

	path := fmt.Sprintf("products_table?product_id=eq.%s", url.QueryEscape(productID))
	if err := c.doDelete(ctx, path); err != nil {
		return &domain.ErrExternalService{Service: "supabase/rest", Err: err}
	}
	return nil
}
