package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/glowmatch/backend/internal/domain"
	"github.com/rs/zerolog"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository.
// Values round-trip through JSON like the real caches.
type MockCacheRepository struct {
	data      map[string]interface{}
	getError  error
	setError  error
	setCalled int
	deleted   []string
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return err
	}
	m.data[key] = stored
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

// MockCatalogClient is a mock implementation of domain.CatalogClient
type MockCatalogClient struct {
	products     []domain.Product
	searchError  error
	searchCalls  int
	lastQuery    domain.ProductQuery
	product      *domain.Product
	productError error
	productCalls int
	profile      *domain.ShopperProfile
	profileError error
	profileCalls int
}

func (m *MockCatalogClient) SearchProducts(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	m.searchCalls++
	m.lastQuery = query
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.products, nil
}

func (m *MockCatalogClient) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	m.productCalls++
	if m.productError != nil {
		return nil, m.productError
	}
	return m.product, nil
}

func (m *MockCatalogClient) GetSkinProfile(ctx context.Context, token string) (*domain.ShopperProfile, error) {
	m.profileCalls++
	if m.profileError != nil {
		return nil, m.profileError
	}
	return m.profile, nil
}

func oilyProfile() *domain.ShopperProfile {
	return &domain.ShopperProfile{
		SkinType:    domain.SkinTypeOily,
		Sensitivity: domain.SensitivityMedium,
		Goals:       []domain.Goal{domain.GoalBrightening},
	}
}

func TestNewCatalogService(t *testing.T) {
	t.Run("applies default ttls", func(t *testing.T) {
		svc := NewCatalogService(NewMockCacheRepository(), &MockCatalogClient{}, CatalogServiceConfig{}, zerolog.Nop())
		if svc.cacheTTL != 10*time.Minute {
			t.Errorf("cacheTTL = %v, want 10m", svc.cacheTTL)
		}
		if svc.profileTTL != time.Minute {
			t.Errorf("profileTTL = %v, want 1m", svc.profileTTL)
		}
	})

	t.Run("keeps custom values", func(t *testing.T) {
		svc := NewCatalogService(NewMockCacheRepository(), &MockCatalogClient{}, CatalogServiceConfig{
			CacheTTL:   time.Hour,
			ProfileTTL: 5 * time.Minute,
			MinScore:   20,
		}, zerolog.Nop())
		if svc.cacheTTL != time.Hour || svc.profileTTL != 5*time.Minute {
			t.Errorf("ttls = %v/%v, want 1h/5m", svc.cacheTTL, svc.profileTTL)
		}
		if svc.ranking.minScore != 20 {
			t.Errorf("minScore = %d, want 20", svc.ranking.minScore)
		}
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks for a shopper with a profile", func(t *testing.T) {
		client := &MockCatalogClient{products: rankingFixtures(), profile: oilyProfile()}
		svc := NewCatalogService(NewMockCacheRepository(), client, CatalogServiceConfig{}, zerolog.Nop())

		result, err := svc.ListProducts(ctx, domain.ProductQuery{Search: "Serum 30 ml", Category: " Serum "}, "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.ProfileComplete {
			t.Error("ProfileComplete = false, want true")
		}
		if result.Items[0].Product.ID != "serum" {
			t.Errorf("first item = %s, want serum", result.Items[0].Product.ID)
		}
		if client.lastQuery.Search != "serum" || client.lastQuery.Category != "serum" {
			t.Errorf("query = %+v, want normalized search and category", client.lastQuery)
		}
	})

	t.Run("returns unscored catalog without token", func(t *testing.T) {
		client := &MockCatalogClient{products: rankingFixtures()}
		svc := NewCatalogService(NewMockCacheRepository(), client, CatalogServiceConfig{}, zerolog.Nop())

		result, err := svc.ListProducts(ctx, domain.ProductQuery{}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ProfileComplete {
			t.Error("ProfileComplete = true, want false")
		}
		if client.profileCalls != 0 {
			t.Errorf("profileCalls = %d, want 0", client.profileCalls)
		}
		for _, item := range result.Items {
			if item.Score != nil {
				t.Errorf("item %s score = %d, want nil", item.Product.ID, *item.Score)
			}
		}
	})

	t.Run("incomplete profile is not an error", func(t *testing.T) {
		client := &MockCatalogClient{products: rankingFixtures(), profileError: domain.ErrProfileIncomplete}
		svc := NewCatalogService(NewMockCacheRepository(), client, CatalogServiceConfig{}, zerolog.Nop())

		result, err := svc.ListProducts(ctx, domain.ProductQuery{}, "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ProfileComplete {
			t.Error("ProfileComplete = true, want false")
		}
	})

	t.Run("serves products from cache on second call", func(t *testing.T) {
		cache := NewMockCacheRepository()
		client := &MockCatalogClient{products: rankingFixtures(), profile: oilyProfile()}
		svc := NewCatalogService(cache, client, CatalogServiceConfig{}, zerolog.Nop())

		first, err := svc.ListProducts(ctx, domain.ProductQuery{Search: "toner"}, "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.ListProducts(ctx, domain.ProductQuery{Search: "TONER"}, "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if client.searchCalls != 1 {
			t.Errorf("searchCalls = %d, want 1", client.searchCalls)
		}
		if client.profileCalls != 1 {
			t.Errorf("profileCalls = %d, want 1", client.profileCalls)
		}
		for i := range first.Items {
			if *first.Items[i].Score != *second.Items[i].Score {
				t.Errorf("item %d score changed after cache hit: %d vs %d", i, *first.Items[i].Score, *second.Items[i].Score)
			}
		}
	})

	t.Run("continues when caching fails", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = domain.ErrCacheUnavailable
		cache.setError = errors.New("cache write failed")
		client := &MockCatalogClient{products: rankingFixtures()}
		svc := NewCatalogService(cache, client, CatalogServiceConfig{}, zerolog.Nop())

		result, err := svc.ListProducts(ctx, domain.ProductQuery{}, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Items) != 4 {
			t.Errorf("len = %d, want 4", len(result.Items))
		}
		if cache.setCalled == 0 {
			t.Error("expected cache.Set to be called")
		}
	})

	t.Run("wraps catalog failures", func(t *testing.T) {
		client := &MockCatalogClient{searchError: errors.New("connection reset")}
		svc := NewCatalogService(NewMockCacheRepository(), client, CatalogServiceConfig{}, zerolog.Nop())

		_, err := svc.ListProducts(ctx, domain.ProductQuery{}, "")
		if !errors.Is(err, domain.ErrCatalogAPIFailure) {
			t.Errorf("error = %v, want ErrCatalogAPIFailure", err)
		}
	})

	t.Run("propagates rejected token", func(t *testing.T) {
		client := &MockCatalogClient{products: rankingFixtures(), profileError: domain.ErrUnauthorized}
		svc := NewCatalogService(NewMockCacheRepository(), client, CatalogServiceConfig{}, zerolog.Nop())

		_, err := svc.ListProducts(ctx, domain.ProductQuery{}, "expired")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestProfile_EvictsUndecodableEntry(t *testing.T) {
	ctx := context.Background()
	cache := NewMockCacheRepository()
	key := "catalog:profile:" + hashToken("token")
	cache.data[key] = "not a profile"

	client := &MockCatalogClient{profile: oilyProfile()}
	svc := NewCatalogService(cache, client, CatalogServiceConfig{}, zerolog.Nop())

	profile, err := svc.Profile(ctx, "token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile == nil || profile.SkinType != domain.SkinTypeOily {
		t.Errorf("profile = %+v, want oily profile from the backend", profile)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != key {
		t.Errorf("deleted = %v, want [%s]", cache.deleted, key)
	}
	if client.profileCalls != 1 {
		t.Errorf("profileCalls = %d, want 1", client.profileCalls)
	}

	// the fresh profile replaced the bad entry
	if _, err := svc.Profile(ctx, "token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.profileCalls != 1 {
		t.Errorf("profileCalls = %d after refill, want 1", client.profileCalls)
	}
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for empty id", func(t *testing.T) {
		svc := NewCatalogService(NewMockCacheRepository(), &MockCatalogClient{}, CatalogServiceConfig{}, zerolog.Nop())
		_, err := svc.GetProduct(ctx, "  ", "")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("scores the product", func(t *testing.T) {
		fixtures := rankingFixtures()
		client := &MockCatalogClient{product: &fixtures[1], profile: oilyProfile()}
		cache := NewMockCacheRepository()
		svc := NewCatalogService(cache, client, CatalogServiceConfig{}, zerolog.Nop())

		item, err := svc.GetProduct(ctx, "serum", "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.Score == nil || *item.Score != 61 {
			t.Errorf("Score = %v, want 61", item.Score)
		}

		if _, err := svc.GetProduct(ctx, "serum", "token"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.productCalls != 1 {
			t.Errorf("productCalls = %d, want 1", client.productCalls)
		}
	})

	t.Run("passes not found through", func(t *testing.T) {
		client := &MockCatalogClient{productError: domain.ErrProductNotFound}
		svc := NewCatalogService(NewMockCacheRepository(), client, CatalogServiceConfig{}, zerolog.Nop())

		_, err := svc.GetProduct(ctx, "missing", "")
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})
}

func TestHashToken(t *testing.T) {
	a := hashToken("secret-token")
	if a == "secret-token" || len(a) != 64 {
		t.Errorf("hashToken() = %q, want 64 hex chars", a)
	}
	if a != hashToken("secret-token") {
		t.Error("hashToken() is not deterministic")
	}
}
