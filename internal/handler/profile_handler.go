package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

// ============================================================
// Perfil: /v1/profile
// ============================================================

// maxPhotoFormBytes bounds the multipart form; slightly above the photo cap
// so the service layer produces the friendly error.
const maxPhotoFormBytes = 6 * 1024 * 1024

func getProfileHandler(svc *service.Profile, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/profile")
		defer span.End()

		sess := SessionFromContext(r.Context())
		profile, err := svc.Get(ctx, sess.UserID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func updateProfileHandler(svc *service.Profile, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/profile")
		defer span.End()

		var req domain.ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess := SessionFromContext(r.Context())
		updated, err := svc.Update(ctx, sess.UserID, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// uploadPhotoHandler accepts a multipart form with a "photo" field and
// replaces the caller's profile picture.
func uploadPhotoHandler(svc *service.Profile, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/profile/photo")
		defer span.End()

		r.Body = http.MaxBytesReader(w, r.Body, maxPhotoFormBytes)
		if err := r.ParseMultipartForm(maxPhotoFormBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("photo")
		if err != nil {
			writeError(w, http.StatusBadRequest, "photo field is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read photo")
			return
		}

		contentType := header.Header.Get("Content-Type")
		sess := SessionFromContext(r.Context())
		updated, err := svc.UploadPhoto(ctx, sess.UserID, data, contentType)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}
