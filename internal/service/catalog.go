package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// Catalog manages the service and product reference tables.
type Catalog struct {
	store  port.CatalogStore
	logger *zap.Logger
}

// NewCatalog creates the catalog service.
func NewCatalog(store port.CatalogStore, logger *zap.Logger) *Catalog {
	return &Catalog{store: store, logger: logger}
}

// ListServices returns the service catalog.
func (c *Catalog) ListServices(ctx context.Context) ([]domain.Service, error) {
	ctx, span := tracer.Start(ctx, "Catalog.ListServices")
	defer span.End()

	return c.store.ListServices(ctx)
}

// CreateService adds a catalog entry. Names are unique within the catalog.
func (c *Catalog) CreateService(ctx context.Context, req domain.ServiceCreateRequest) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "Catalog.CreateService")
	defer span.End()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if req.Value <= 0 {
		return nil, &domain.ErrValidation{Field: "value", Message: "must be greater than zero"}
	}

	existing, err := c.store.GetServiceByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ErrConflict{Message: "Já existe um serviço com esse nome"}
	}

	created, err := c.store.CreateService(ctx, &domain.Service{
		Name:        name,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("catalog: service created",
		zap.String("service_id", created.ServiceID),
		zap.String("name", created.Name),
	)
	return created, nil
}

// UpdateService patches the fields present in req.
func (c *Catalog) UpdateService(ctx context.Context, serviceID string, req domain.ServiceUpdateRequest) (*domain.Service, error) {
	ctx, span := tracer.Start(ctx, "Catalog.UpdateService")
	defer span.End()

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
		}
		updates["name"] = name
	}
	if req.Value != nil {
		if *req.Value <= 0 {
			return nil, &domain.ErrValidation{Field: "value", Message: "must be greater than zero"}
		}
		updates["value"] = *req.Value
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	return c.store.UpdateService(ctx, serviceID, updates)
}

// DeleteService removes a catalog entry.
func (c *Catalog) DeleteService(ctx context.Context, serviceID string) error {
	ctx, span := tracer.Start(ctx, "Catalog.DeleteService")
	defer span.End()

	if err := c.store.DeleteService(ctx, serviceID); err != nil {
		return err
	}
	c.logger.Info("catalog: service deleted", zap.String("service_id", serviceID))
	return nil
}

// ListProducts returns the product catalog.
func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Catalog.ListProducts")
	defer span.End()

	return c.store.ListProducts(ctx)
}

// CreateProduct adds a product row.
func (c *Catalog) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Catalog.CreateProduct")
	defer span.End()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
	}
	if req.Value <= 0 {
		return nil, &domain.ErrValidation{Field: "value", Message: "must be greater than zero"}
	}
	if req.Quantity < 0 {
		return nil, &domain.ErrValidation{Field: "quantity", Message: "must not be negative"}
	}
	if req.MinQuantity < 0 {
		return nil, &domain.ErrValidation{Field: "min_quantity", Message: "must not be negative"}
	}

	created, err := c.store.CreateProduct(ctx, &domain.Product{
		Name:        name,
		Description: req.Description,
		Value:       req.Value,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Image:       req.Image,
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("catalog: product created",
		zap.String("product_id", created.ProductID),
		zap.String("name", created.Name),
	)
	return created, nil
}

// UpdateProduct patches the fields present in req.
func (c *Catalog) UpdateProduct(ctx context.Context, productID string, req domain.ProductUpdateRequest) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "Catalog.UpdateProduct")
	defer span.End()

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &domain.ErrValidation{Field: "name", Message: "must not be empty"}
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Value != nil {
		if *req.Value <= 0 {
			return nil, &domain.ErrValidation{Field: "value", Message: "must be greater than zero"}
		}
		updates["value"] = *req.Value
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, &domain.ErrValidation{Field: "quantity", Message: "must not be negative"}
		}
		updates["quantity"] = *req.Quantity
	}
	if req.MinQuantity != nil {
		if *req.MinQuantity < 0 {
			return nil, &domain.ErrValidation{Field: "min_quantity", Message: "must not be negative"}
		}
		updates["min_quantity"] = *req.MinQuantity
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	return c.store.UpdateProduct(ctx, productID, updates)
}

// DeleteProduct removes a product row.
func (c *Catalog) DeleteProduct(ctx context.Context, productID string) error {
	ctx, span := tracer.Start(ctx, "Catalog.DeleteProduct")
	defer span.End()

	if err := c.store.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	c.logger.Info("catalog: product deleted", zap.String("product_id", productID))
	return nil
}
