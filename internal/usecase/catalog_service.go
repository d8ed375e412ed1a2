package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glowmatch/backend/internal/domain"
	"github.com/rs/zerolog"
)

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL   time.Duration
	ProfileTTL time.Duration
	MinScore   int
}

// CatalogService serves ranked catalog listings with caching
type CatalogService struct {
	cache      domain.CacheRepository
	client     domain.CatalogClient
	ranking    *RankingService
	normalizer *QueryNormalizer
	cacheTTL   time.Duration
	profileTTL time.Duration
	logger     zerolog.Logger
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	cache domain.CacheRepository,
	client domain.CatalogClient,
	config CatalogServiceConfig,
	logger zerolog.Logger,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	profileTTL := config.ProfileTTL
	if profileTTL <= 0 {
		profileTTL = time.Minute
	}

	return &CatalogService{
		cache:      cache,
		client:     client,
		ranking:    NewRankingService(RankingConfig{MinScore: config.MinScore}),
		normalizer: NewQueryNormalizer(logger),
		cacheTTL:   cacheTTL,
		profileTTL: profileTTL,
		logger:     logger,
	}
}

// ListProducts returns the catalog matching query ranked for the shopper
// owning token. Without a token, or with an incomplete profile, items keep
// catalog order and carry nil scores.
// Flow: normalize query -> cache -> catalog API -> cache -> profile -> rank
func (s *CatalogService) ListProducts(ctx context.Context, query domain.ProductQuery, token string) (*domain.RankedCatalog, error) {
	query.Search = s.normalizer.Normalize(query.Search)
	query.Category = strings.ToLower(strings.TrimSpace(query.Category))

	products, err := s.products(ctx, query)
	if err != nil {
		return nil, err
	}

	profile, err := s.Profile(ctx, token)
	if err != nil {
		return nil, err
	}

	return &domain.RankedCatalog{
		Items:           s.ranking.Rank(products, profile),
		ProfileComplete: profile != nil,
	}, nil
}

// GetProduct returns one product scored for the shopper owning token
func (s *CatalogService) GetProduct(ctx context.Context, id, token string) (*domain.ScoredProduct, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := "catalog:product:" + id
	var product *domain.Product
	if err := s.getFromCache(ctx, cacheKey, &product); err != nil || product == nil {
		product, err = s.client.GetProduct(ctx, id)
		if err != nil {
			return nil, wrapCatalogError(err)
		}
		s.setInCache(ctx, cacheKey, product, s.cacheTTL)
	}

	profile, err := s.Profile(ctx, token)
	if err != nil {
		return nil, err
	}

	scored := s.ranking.Score(*product, profile)
	return &scored, nil
}

// Profile resolves the shopper profile for token. An empty token or an
// incomplete profile yields a nil profile and no error.
func (s *CatalogService) Profile(ctx context.Context, token string) (*domain.ShopperProfile, error) {
	if token == "" {
		return nil, nil
	}

	cacheKey := "catalog:profile:" + hashToken(token)
	var profile *domain.ShopperProfile
	if err := s.getFromCache(ctx, cacheKey, &profile); err == nil && profile != nil {
		return profile, nil
	}

	profile, err := s.client.GetSkinProfile(ctx, token)
	if errors.Is(err, domain.ErrProfileIncomplete) {
		s.logger.Debug().Msg("shopper profile incomplete, serving unpersonalized results")
		return nil, nil
	}
	if err != nil {
		return nil, wrapCatalogError(err)
	}

	s.setInCache(ctx, cacheKey, profile, s.profileTTL)
	return profile, nil
}

func (s *CatalogService) products(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	cacheKey := fmt.Sprintf("catalog:products:%s:%s", query.Search, query.Category)

	var products []domain.Product
	if err := s.getFromCache(ctx, cacheKey, &products); err == nil && products != nil {
		return products, nil
	}

	products, err := s.client.SearchProducts(ctx, query)
	if err != nil {
		return nil, wrapCatalogError(err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	s.setInCache(ctx, cacheKey, products, s.cacheTTL)
	return products, nil
}

// getFromCache decodes a cached value into dst. Cached values come back as
// JSON-shaped maps from both cache backends, so they are re-encoded first.
// Entries that no longer decode are evicted.
func (s *CatalogService) getFromCache(ctx context.Context, key string, dst interface{}) error {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return err
	}

	raw, err := json.Marshal(value)
	if err == nil {
		err = json.Unmarshal(raw, dst)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("evicting undecodable cache entry")
		if delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", key).Msg("cache delete failed")
		}
		return err
	}
	return nil
}

// setInCache stores value; failures are logged and never fail the request
func (s *CatalogService) setInCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// wrapCatalogError keeps known sentinels and wraps everything else as an API failure
func wrapCatalogError(err error) error {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrCatalogAPIFailure):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
