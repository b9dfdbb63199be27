package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/port"
)

// ============================================================
// Storage API: implements port.ObjectStorage
// ============================================================

// Upload stores an object under bucket/path, replacing any existing object.
// Uploads pass through the bulkhead so a burst of profile-photo updates
// cannot starve the shared HTTP client.
func (c *Client) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	ctx, span := tracer.Start(ctx, "Storage.Upload")
	defer span.End()

	return c.uploads.Execute(ctx, func() error {
		url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, path)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return err
		}

		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("x-upsert", "true")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("storage: upload failed",
				zap.String("bucket", bucket),
				zap.String("path", path),
				zap.Error(err),
			)
			return &domain.ErrExternalService{Service: "supabase/storage", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := readBody(resp)
			c.logger.Warn("storage: upload non-2xx",
				zap.String("bucket", bucket),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(body)),
			)
			return &domain.ErrExternalService{
				Service: "supabase/storage",
				Err:     fmt.Errorf("storage returned %d: %s", resp.StatusCode, string(body)),
			}
		}

		c.logger.Debug("storage: upload OK",
			zap.String("bucket", bucket),
			zap.String("path", path),
		)
		return nil
	})
}

// GetPublicURL builds the public URL for an object in a public bucket.
func (c *Client) GetPublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, path)
}

// List returns the objects stored under prefix in bucket.
func (c *Client) List(ctx context.Context, bucket, prefix string) ([]port.StorageEntry, error) {
	ctx, span := tracer.Start(ctx, "Storage.List")
	defer span.End()

	url := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, bucket)
	jsonBody, err := json.Marshal(map[string]any{"prefix": prefix})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/storage", Err: err}
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.ErrExternalService{
			Service: "supabase/storage",
			Err:     fmt.Errorf("storage returned %d: %s", resp.StatusCode, string(body)),
		}
	}

	var entries []port.StorageEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode storage listing: %w", err)
	}
	return entries, nil
}

// Remove deletes the given object paths from bucket.
func (c *Client) Remove(ctx context.Context, bucket string, paths []string) error {
	ctx, span := tracer.Start(ctx, "Storage.Remove")
	defer span.End()

	if len(paths) == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, bucket)
	jsonBody, err := json.Marshal(map[string]any{"prefixes": paths})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(jsonBody))
	if err != nil {
		return err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/storage", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := readBody(resp)
		return &domain.ErrExternalService{
			Service: "supabase/storage",
			Err:     fmt.Errorf("storage returned %d: %s", resp.StatusCode, string(body)),
		}
	}
	return nil
}
