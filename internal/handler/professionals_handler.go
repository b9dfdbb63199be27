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
// Equipe: /v1/professionals (manager area)
// ============================================================

func listProfessionalsHandler(svc *service.Professionals, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/professionals")
		defer span.End()

		users, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func updateRoleHandler(svc *service.Professionals, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/professionals/{userId}/role")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if !validID(userID) {
			writeError(w, http.StatusBadRequest, "user_id must be a valid uuid")
			return
		}

		var req domain.RoleUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updated, err := svc.UpdateRole(ctx, userID, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func updateStatusHandler(svc *service.Professionals, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/professionals/{userId}/status")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if !validID(userID) {
			writeError(w, http.StatusBadRequest, "user_id must be a valid uuid")
			return
		}

		var req domain.StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		updated, err := svc.UpdateStatus(ctx, userID, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}
