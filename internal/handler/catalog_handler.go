package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

// ============================================================
// Catálogo de serviços: /v1/services
// ============================================================

func listServicesHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/services")
		defer span.End()

		services, err := svc.ListServices(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, services)
	}
}

func createServiceHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/services")
		defer span.End()

		var req domain.ServiceCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateService(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateServiceHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/services/{serviceId}")
		defer span.End()

		serviceID := chi.URLParam(r, "serviceId")
		if !validID(serviceID) {
			writeError(w, http.StatusBadRequest, "service_id must be a valid uuid")
			return
		}

		var req domain.ServiceUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updated, err := svc.UpdateService(ctx, serviceID, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteServiceHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/services/{serviceId}")
		defer span.End()

		serviceID := chi.URLParam(r, "serviceId")
		if !validID(serviceID) {
			writeError(w, http.StatusBadRequest, "service_id must be a valid uuid")
			return
		}

		if err := svc.DeleteService(ctx, serviceID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Catálogo de produtos: /v1/products
// ============================================================

// productView adds the low-stock flag the manager dashboard highlights.
type productView struct {
	domain.Product
	LowStock bool `json:"low_stock"`
}

func listProductsHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/products")
		defer span.End()

		products, err := svc.ListProducts(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		views := make([]productView, 0, len(products))
		for _, p := range products {
			views = append(views, productView{Product: p, LowStock: p.LowStock()})
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func createProductHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/products")
		defer span.End()

		var req domain.ProductCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateProduct(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateProductHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/products/{productId}")
		defer span.End()

		productID := chi.URLParam(r, "productId")
		if !validID(productID) {
			writeError(w, http.StatusBadRequest, "product_id must be a valid uuid")
			return
		}

		var req domain.ProductUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updated, err := svc.UpdateProduct(ctx, productID, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteProductHandler(svc *service.Catalog, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/products/{productId}")
		defer span.End()

		productID := chi.URLParam(r, "productId")
		if !validID(productID) {
			writeError(w, http.StatusBadRequest, "product_id must be a valid uuid")
			return
		}

		if err := svc.DeleteProduct(ctx, productID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
