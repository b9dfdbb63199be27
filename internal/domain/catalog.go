package domain

// Catalog reference data: services_table and products_table rows.
// Immutable for the duration of a request; refreshed on every aggregation.

// Service is a row of services_table.
type Service struct {
	ServiceID   string  `json:"service_id"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// Product is a row of products_table.
type Product struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Value       float64 `json:"value"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
	Image       string  `json:"image,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// LowStock reports whether the product is at or below its restock threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// ServiceCreateRequest is the body for POST /v1/services.
type ServiceCreateRequest struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Description string  `json:"description,omitempty"`
}

// ServiceUpdateRequest is the body for PUT /v1/services/{serviceId}.
// Pointer fields distinguish "not sent" from zero values.
type ServiceUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Value       *float64 `json:"value,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// ProductCreateRequest is the body for POST /v1/products.
type ProductCreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Value       float64 `json:"value"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
	Image       string  `json:"image,omitempty"`
}

// ProductUpdateRequest is the body for PUT /v1/products/{productId}.
type ProductUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Value       *float64 `json:"value,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	MinQuantity *int     `json:"min_quantity,omitempty"`
	Image       *string  `json:"image,omitempty"`
}
