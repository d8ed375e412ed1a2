package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogClient defines the interface for the storefront backend API
type CatalogClient interface {
	SearchProducts(ctx context.Context, query ProductQuery) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	// GetSkinProfile returns ErrProfileIncomplete when the shopper has not finished their profile
	GetSkinProfile(ctx context.Context, token string) (*ShopperProfile, error)
}
