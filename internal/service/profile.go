package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// maxPhotoBytes caps profile photo uploads at 5 MB.
const maxPhotoBytes = 5 * 1024 * 1024

// photoFolder is the prefix inside the storage bucket.
const photoFolder = "profile_pictures"

var photoExtByType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Profile handles the signed-in user's own profile: reads, field updates
// and the photo upload flow against Supabase Storage.
type Profile struct {
	users   port.UserStore
	storage port.ObjectStorage
	bucket  string
	logger  *zap.Logger
}

// NewProfile creates the profile service.
func NewProfile(users port.UserStore, storage port.ObjectStorage, bucket string, logger *zap.Logger) *Profile {
	return &Profile{
		users:   users,
		storage: storage,
		bucket:  bucket,
		logger:  logger,
	}
}

// Get returns the caller's profile row.
func (p *Profile) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Profile.Get")
	defer span.End()

	profile, err := p.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	return profile, nil
}

// Update patches the caller's editable fields.
func (p *Profile) Update(ctx context.Context, userID string, req domain.ProfileUpdateRequest) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Profile.Update")
	defer span.End()

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		updates["email"] = strings.TrimSpace(req.Email)
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no fields to update"}
	}

	return p.users.UpdateUser(ctx, userID, updates)
}

// UploadPhoto replaces the caller's profile picture: old objects for the
// user are removed, the new one is uploaded and its public URL stored on
// the profile row.
func (p *Profile) UploadPhoto(ctx context.Context, userID string, data []byte, contentType string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Profile.UploadPhoto")
	defer span.End()

	ext, ok := photoExtByType[contentType]
	if !ok {
		return nil, &domain.ErrValidation{Field: "photo", Message: "unsupported image type"}
	}
	if len(data) == 0 {
		return nil, &domain.ErrValidation{Field: "photo", Message: "empty file"}
	}
	if len(data) > maxPhotoBytes {
		return nil, &domain.ErrValidation{Field: "photo", Message: "file exceeds 5MB"}
	}

	// Drop previous pictures for this user before uploading the new one.
	entries, err := p.storage.List(ctx, p.bucket, photoFolder)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name, userID+"-") {
			stale = append(stale, path.Join(photoFolder, e.Name))
		}
	}
	if len(stale) > 0 {
		if err := p.storage.Remove(ctx, p.bucket, stale); err != nil {
			p.logger.Warn("profile: failed to remove old photos",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	objectPath := fmt.Sprintf("%s/%s-%d.%s", photoFolder, userID, time.Now().Unix(), ext)
	if err := p.storage.Upload(ctx, p.bucket, objectPath, data, contentType); err != nil {
		return nil, err
	}

	publicURL := p.storage.GetPublicURL(p.bucket, objectPath)
	updated, err := p.users.UpdateUser(ctx, userID, map[string]any{"profile_pictures": publicURL})
	if err != nil {
		return nil, err
	}

	p.logger.Info("profile: photo updated",
		zap.String("user_id", userID),
		zap.String("path", objectPath),
	)
	return updated, nil
}
