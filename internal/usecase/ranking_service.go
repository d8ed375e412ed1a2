package usecase

import (
	"sort"

	"github.com/glowmatch/backend/internal/domain"
)

// RankingConfig holds configuration for the ranking service
type RankingConfig struct {
	// MinScore drops personalized results scoring below it. Ignored without a profile.
	MinScore int
}

// RankingService orders products by their match score for a shopper
type RankingService struct {
	minScore int
}

// NewRankingService creates a new ranking service with the given configuration
func NewRankingService(config RankingConfig) *RankingService {
	return &RankingService{
		minScore: clamp(config.MinScore, 0, 100),
	}
}

// Rank scores every product once and returns them best match first.
// Equal scores keep catalog order. Without a profile all scores are nil
// and the catalog order is returned unchanged.
func (s *RankingService) Rank(products []domain.Product, profile *domain.ShopperProfile) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, 0, len(products))
	for i := range products {
		score := MatchScore(&products[i], profile)
		if score != nil && *score < s.minScore {
			continue
		}
		scored = append(scored, domain.ScoredProduct{
			Product: products[i],
			Score:   score,
		})
	}

	if profile == nil {
		return scored
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})
	return scored
}

// Score wraps a single product with its score
func (s *RankingService) Score(product domain.Product, profile *domain.ShopperProfile) domain.ScoredProduct {
	return domain.ScoredProduct{
		Product: product,
		Score:   MatchScore(&product, profile),
	}
}
