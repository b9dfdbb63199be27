package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
)

func TestServiceTypeOf(t *testing.T) {
	services := []domain.ServiceLineItem{{ServiceID: "s1", Quantity: 1, Value: 60}}
	products := []domain.ProductLineItem{{ProductID: "p1", Quantity: 2, Value: 25}}

	tests := []struct {
		name string
		rec  domain.PerformedService
		want string
	}{
		{
			name: "services and products",
			rec:  domain.PerformedService{Service: services, ProductsSold: products},
			want: domain.ServiceTypeBoth,
		},
		{
			name: "services only",
			rec:  domain.PerformedService{Service: services},
			want: domain.ServiceTypeService,
		},
		{
			name: "products only",
			rec:  domain.PerformedService{ProductsSold: products},
			want: domain.ServiceTypeProduct,
		},
		{
			name: "empty record",
			rec:  domain.PerformedService{},
			want: domain.ServiceTypeNone,
		},
		{
			name: "non-nil empty slices count as empty",
			rec: domain.PerformedService{
				Service:      []domain.ServiceLineItem{},
				ProductsSold: []domain.ProductLineItem{},
			},
			want: domain.ServiceTypeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ServiceTypeOf(tt.rec))
		})
	}
}

func TestLineItemTotal(t *testing.T) {
	rec := domain.PerformedService{
		Service: []domain.ServiceLineItem{
			{ServiceID: "s1", Name: "Corte", Quantity: 1, Value: 60},
			{ServiceID: "s2", Name: "Escova", Quantity: 2, Value: 40},
		},
		ProductsSold: []domain.ProductLineItem{
			{ProductID: "p1", Name: "Shampoo", Quantity: 3, Value: 25.5},
		},
	}

	assert.InDelta(t, 216.5, domain.LineItemTotal(rec), 0.001)
	assert.Zero(t, domain.LineItemTotal(domain.PerformedService{}))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 60.00", domain.FormatBRL(60))
	assert.Equal(t, "R$ 216.50", domain.FormatBRL(216.5))
	assert.Equal(t, "R$ 0.00", domain.FormatBRL(0))
}
