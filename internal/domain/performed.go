package domain

import "time"

// Service type labels shown in the history view. The label is a pure
// function of which line-item arrays are non-empty.
const (
	ServiceTypeBoth    = "Serviço e Produto"
	ServiceTypeService = "Serviço"
	ServiceTypeProduct = "Produto"
	ServiceTypeNone    = ""
)

// ServiceLineItem is one service entry of a performed-service record
// (stored as JSONB in services_performed_table).
type ServiceLineItem struct {
	ServiceID string  `json:"service_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Value     float64 `json:"value"`
}

// ProductLineItem is one sold-product entry of a performed-service record.
type ProductLineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Value     float64 `json:"value"`
}

// PerformedService is a row of services_performed_table: one customer
// interaction capturing services rendered and/or products sold.
type PerformedService struct {
	PerformedID      string            `json:"performed_id"`
	UserID           string            `json:"user_id"`
	ProfessionalName string            `json:"professional_name,omitempty"`
	Service          []ServiceLineItem `json:"service"`
	ProductsSold     []ProductLineItem `json:"products_sold"`
	Observations     string            `json:"observations,omitempty"`
	ServiceType      string            `json:"service_type,omitempty"`
	Total            float64           `json:"total"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ServiceTypeOf classifies a record by which line-item arrays are non-empty.
func ServiceTypeOf(rec PerformedService) string {
	switch {
	case len(rec.Service) > 0 && len(rec.ProductsSold) > 0:
		return ServiceTypeBoth
	case len(rec.Service) > 0:
		return ServiceTypeService
	case len(rec.ProductsSold) > 0:
		return ServiceTypeProduct
	default:
		return ServiceTypeNone
	}
}

// LineItemTotal sums value*quantity over both arrays. The stored total must
// equal this at creation time; reads trust it.
func LineItemTotal(rec PerformedService) float64 {
	var sum float64
	for _, s := range rec.Service {
		sum += s.Value * float64(s.Quantity)
	}
	for _, p := range rec.ProductsSold {
		sum += p.Value * float64(p.Quantity)
	}
	return sum
}

// HistoryFilter drives which performed-service records the aggregator
// requests and retains. Zero values mean "no filter".
type HistoryFilter struct {
	StartDate      string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        string `json:"end_date,omitempty"`   // YYYY-MM-DD, inclusive by calendar day
	ProfessionalID string `json:"professional_id,omitempty"`
	ServiceType    string `json:"service_type,omitempty"` // applied as a local post-filter
}

// IsZero reports whether no filter field is set.
func (f HistoryFilter) IsZero() bool {
	return f == HistoryFilter{}
}

// PerformedCreateRequest is the body for POST /v1/performed-services.
type PerformedCreateRequest struct {
	Service      []ServiceLineItem `json:"service"`
	ProductsSold []ProductLineItem `json:"products_sold"`
	Observations string            `json:"observations,omitempty"`
	Total        float64           `json:"total"`
}
