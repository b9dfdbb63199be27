package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// totalTolerance absorbs float rounding between the SPA and this layer.
const totalTolerance = 0.005

// Performed handles registration and removal of performed-service records.
type Performed struct {
	store   port.PerformedStore
	catalog port.CatalogStore
	users   port.UserStore
	logger  *zap.Logger
}

// NewPerformed creates the performed-service registrar.
func NewPerformed(
	store port.PerformedStore,
	catalog port.CatalogStore,
	users port.UserStore,
	logger *zap.Logger,
) *Performed {
	return &Performed{
		store:   store,
		catalog: catalog,
		users:   users,
		logger:  logger,
	}
}

// Register validates and stores one performed-service record for sess's
// user. The service type is classified from both line-item arrays and the
// stored total must match the line-item sum; the record denormalizes the
// professional's display name so the history view never joins for it.
func (p *Performed) Register(ctx context.Context, sess domain.Session, req domain.PerformedCreateRequest) (*domain.PerformedService, error) {
	ctx, span := tracer.Start(ctx, "Performed.Register")
	defer span.End()

	if len(req.Service) == 0 && len(req.ProductsSold) == 0 {
		return nil, &domain.ErrValidation{Field: "service", Message: "at least one service or product is required"}
	}
	for _, s := range req.Service {
		if s.Quantity <= 0 {
			return nil, &domain.ErrValidation{Field: "service.quantity", Message: "must be greater than zero"}
		}
	}
	for _, ps := range req.ProductsSold {
		if ps.Quantity <= 0 {
			return nil, &domain.ErrValidation{Field: "products_sold.quantity", Message: "must be greater than zero"}
		}
	}

	rec := domain.PerformedService{
		UserID:       sess.UserID,
		Service:      req.Service,
		ProductsSold: req.ProductsSold,
		Observations: req.Observations,
		Total:        req.Total,
	}
	rec.ServiceType = domain.ServiceTypeOf(rec)

	if math.Abs(domain.LineItemTotal(rec)-req.Total) > totalTolerance {
		return nil, &domain.ErrValidation{Field: "total", Message: "does not match the line item sum"}
	}

	if sess.Profile != nil {
		rec.ProfessionalName = sess.Profile.Name
	}

	if err := p.checkStock(ctx, req.ProductsSold); err != nil {
		return nil, err
	}

	created, err := p.store.CreatePerformed(ctx, &rec)
	if err != nil {
		return nil, err
	}

	if err := p.decrementStock(ctx, req.ProductsSold); err != nil {
		// The record exists; a failed stock adjustment must not undo the
		// sale. Surface it loudly and leave reconciliation to the manager.
		p.logger.Error("performed: stock decrement failed after sale",
			zap.String("performed_id", created.PerformedID),
			zap.Error(err),
		)
	}

	p.logger.Info("performed: record created",
		zap.String("performed_id", created.PerformedID),
		zap.String("user_id", created.UserID),
		zap.String("service_type", created.ServiceType),
	)
	return created, nil
}

// Delete removes a record, manager-area operation.
func (p *Performed) Delete(ctx context.Context, performedID string) error {
	ctx, span := tracer.Start(ctx, "Performed.Delete")
	defer span.End()

	if err := p.store.DeletePerformed(ctx, performedID); err != nil {
		return err
	}
	p.logger.Info("performed: record deleted", zap.String("performed_id", performedID))
	return nil
}

// checkStock verifies every sold product exists and has enough units.
func (p *Performed) checkStock(ctx context.Context, sold []domain.ProductLineItem) error {
	if len(sold) == 0 {
		return nil
	}

	products, err := p.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, prod := range products {
		byID[prod.ProductID] = prod
	}

	for _, item := range sold {
		prod, ok := byID[item.ProductID]
		if !ok {
			return &domain.ErrNotFound{Resource: "product", ID: item.ProductID}
		}
		if prod.Quantity < item.Quantity {
			return &domain.ErrValidation{Field: "products_sold", Message: "insufficient stock for " + prod.Name}
		}
	}
	return nil
}

// decrementStock subtracts the sold quantities from the product catalog.
func (p *Performed) decrementStock(ctx context.Context, sold []domain.ProductLineItem) error {
	if len(sold) == 0 {
		return nil
	}

	products, err := p.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, prod := range products {
		byID[prod.ProductID] = prod
	}

	for _, item := range sold {
		prod, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		remaining := prod.Quantity - item.Quantity
		if remaining < 0 {
			remaining = 0
		}
		if _, err := p.catalog.UpdateProduct(ctx, item.ProductID, map[string]any{"quantity": remaining}); err != nil {
			return err
		}
		if remaining <= prod.MinQuantity {
			p.logger.Warn("performed: product at restock threshold",
				zap.String("product_id", prod.ProductID),
				zap.String("name", prod.Name),
				zap.Int("quantity", remaining),
				zap.Int("min_quantity", prod.MinQuantity),
			)
		}
	}
	return nil
}
