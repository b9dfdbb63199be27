// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/salaoapp/salao-bfa-go/internal/domain"
)

// AuthProvider wraps the Supabase GoTrue auth API.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignUp(ctx context.Context, email, password string, role domain.Role) (*domain.AuthUser, error)
	SignOut(ctx context.Context, accessToken string) error
	SendPasswordReset(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}

// UserStore defines data operations on users_table.
// Lookups return (nil, nil) when the row does not exist: for session
// resolution a missing profile is a policy decision, not an error.
type UserStore interface {
	GetUserByID(ctx context.Context, userID string) (*domain.UserProfile, error)
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
	CreateUser(ctx context.Context, profile *domain.UserProfile) error
	UpdateUser(ctx context.Context, userID string, updates map[string]any) (*domain.UserProfile, error)
}

// CatalogStore defines data operations on the reference catalogs
// (services_table, products_table).
type CatalogStore interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	GetServiceByName(ctx context.Context, name string) (*domain.Service, error)
	CreateService(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, serviceID string, updates map[string]any) (*domain.Service, error)
	DeleteService(ctx context.Context, serviceID string) error

	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, updates map[string]any) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// PerformedQuery scopes a performed-service listing. An empty UserID means
// unscoped (manager/admin view). Date bounds are YYYY-MM-DD; EndExclusive is
// already advanced past the last included day.
type PerformedQuery struct {
	UserID       string
	Start        string
	EndExclusive string
}

// PerformedStore defines data operations on services_performed_table.
type PerformedStore interface {
	ListPerformed(ctx context.Context, q PerformedQuery) ([]domain.PerformedService, error)
	CreatePerformed(ctx context.Context, rec *domain.PerformedService) (*domain.PerformedService, error)
	DeletePerformed(ctx context.Context, performedID string) error
}

// StorageEntry is one object listed from a storage bucket.
type StorageEntry struct {
	Name string `json:"name"`
}

// ObjectStorage wraps the Supabase Storage API.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	GetPublicURL(bucket, path string) string
	List(ctx context.Context, bucket, prefix string) ([]StorageEntry, error)
	Remove(ctx context.Context, bucket string, paths []string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
