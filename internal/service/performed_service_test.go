package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

func newPerformed(store *mockPerformedStore, catalog *mockCatalogStore) *service.Performed {
	return service.NewPerformed(store, catalog, &mockUserStore{}, zap.NewNop())
}

func professionalWithProfile() domain.Session {
	return domain.Session{
		Authenticated: true,
		UserID:        "u1",
		Role:          domain.RoleProfessional,
		Profile:       &domain.UserProfile{UserID: "u1", Name: "Maria"},
	}
}

func TestRegister_Success(t *testing.T) {
	catalog := &mockCatalogStore{
		products: []domain.Product{{ProductID: "p1", Name: "Shampoo", Quantity: 10, MinQuantity: 2}},
	}
	p := newPerformed(&mockPerformedStore{}, catalog)

	created, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{
		Service:      []domain.ServiceLineItem{{ServiceID: "s1", Name: "Corte", Quantity: 1, Value: 60}},
		ProductsSold: []domain.ProductLineItem{{ProductID: "p1", Name: "Shampoo", Quantity: 2, Value: 25}},
		Total:        110,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created.UserID != "u1" {
		t.Errorf("expected record owned by u1, got %q", created.UserID)
	}
	if created.ProfessionalName != "Maria" {
		t.Errorf("expected denormalized professional name, got %q", created.ProfessionalName)
	}
	if created.ServiceType != domain.ServiceTypeBoth {
		t.Errorf("expected %q, got %q", domain.ServiceTypeBoth, created.ServiceType)
	}

	// Stock was decremented: 10 - 2 = 8.
	if got := catalog.updates["p1"]["quantity"]; got != 8 {
		t.Errorf("expected quantity 8 after sale, got %v", got)
	}
}

func TestRegister_ClassifiesServiceOnly(t *testing.T) {
	p := newPerformed(&mockPerformedStore{}, &mockCatalogStore{})

	created, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{
		Service: []domain.ServiceLineItem{{ServiceID: "s1", Quantity: 1, Value: 60}},
		Total:   60,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ServiceType != domain.ServiceTypeService {
		t.Errorf("expected %q, got %q", domain.ServiceTypeService, created.ServiceType)
	}
}

func TestRegister_RejectsEmptyRecord(t *testing.T) {
	p := newPerformed(&mockPerformedStore{}, &mockCatalogStore{})

	_, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegister_RejectsTotalMismatch(t *testing.T) {
	p := newPerformed(&mockPerformedStore{}, &mockCatalogStore{})

	_, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{
		Service: []domain.ServiceLineItem{{ServiceID: "s1", Quantity: 1, Value: 60}},
		Total:   100,
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validation.Field != "total" {
		t.Errorf("expected total field flagged, got %q", validation.Field)
	}
}

func TestRegister_RejectsNonPositiveQuantity(t *testing.T) {
	p := newPerformed(&mockPerformedStore{}, &mockCatalogStore{})

	_, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{
		Service: []domain.ServiceLineItem{{ServiceID: "s1", Quantity: 0, Value: 60}},
		Total:   0,
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegister_RejectsInsufficientStock(t *testing.T) {
	catalog := &mockCatalogStore{
		products: []domain.Product{{ProductID: "p1", Name: "Shampoo", Quantity: 1}},
	}
	p := newPerformed(&mockPerformedStore{}, catalog)

	_, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{
		ProductsSold: []domain.ProductLineItem{{ProductID: "p1", Quantity: 5, Value: 25}},
		Total:        125,
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegister_RejectsUnknownProduct(t *testing.T) {
	p := newPerformed(&mockPerformedStore{}, &mockCatalogStore{})

	_, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{
		ProductsSold: []domain.ProductLineItem{{ProductID: "ghost", Quantity: 1, Value: 25}},
		Total:        25,
	})
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRegister_StoreFailureIsTerminal(t *testing.T) {
	// Mutations are never retried; the store error surfaces as-is.
	p := newPerformed(&mockPerformedStore{err: errors.New("insert failed")}, &mockCatalogStore{})

	_, err := p.Register(context.Background(), professionalWithProfile(), domain.PerformedCreateRequest{
		Service: []domain.ServiceLineItem{{ServiceID: "s1", Quantity: 1, Value: 60}},
		Total:   60,
	})
	if err == nil {
		t.Fatal("expected store error to surface")
	}
}
