package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product cannot be found in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrProfileIncomplete is returned when a skin profile payload lacks a usable skin type or sensitivity
	ErrProfileIncomplete = errors.New("skin profile incomplete")

	// ErrUnauthorized is returned when the backend rejects the shopper token
	ErrUnauthorized = errors.New("shopper token rejected by catalog API")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrCatalogAPIFailure is returned when a catalog API request fails
	ErrCatalogAPIFailure = errors.New("catalog API request failed")

	// ErrCatalogNotConfigured is returned when no catalog API base URL is configured
	ErrCatalogNotConfigured = errors.New("catalog API not configured")

	// ErrUnsupportedFile is returned for catalog exports with an unknown extension
	ErrUnsupportedFile = errors.New("unsupported catalog file")
)
