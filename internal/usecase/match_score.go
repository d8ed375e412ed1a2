package usecase

import (
	"strings"

	"github.com/glowmatch/backend/internal/domain"
)

// Factor budgets. They always add up to 100 so scores stay comparable
// across products with different attribute completeness.
const (
	skinTypeBudget    = 40
	sensitivityBudget = 20
	goalBudget        = 30
	categoryBudget    = 10
)

// Points awarded per branch
const (
	skinTypeMatchPoints   = 32 // list present and contains the shopper type
	skinTypePartialPoints = 12 // list present without it, or no list at all

	irritantPoints       = 5  // high sensitivity, irritant tag present
	irritantFreePoints   = 18 // high sensitivity, no irritant tag
	lowSensitivityPoints = 15 // medium or low sensitivity

	goalHitPoints = 10

	cleanserAcnePoints = 6
	categoryBaseline   = 4
)

// GoalTags maps each goal to the upper-cased tags that satisfy it
var GoalTags = map[domain.Goal]map[string]bool{
	domain.GoalHydration: {
		"HYALURONIC ACID": true, "GLYCERIN": true, "CERAMIDE": true, "PANTHENOL": true,
	},
	domain.GoalBrightening: {
		"NIACINAMIDE": true, "VITAMIN C": true, "ALPHA ARBUTIN": true,
	},
	domain.GoalAntiAcne: {
		"SALICYLIC ACID": true, "BHA": true, "TEA TREE": true, "AZELAIC ACID": true,
	},
	domain.GoalAntiAging: {
		"RETINOL": true, "PEPTIDES": true, "CERAMIDE": true,
	},
	domain.GoalBarrierRepair: {
		"CERAMIDE": true, "PANTHENOL": true, "CENTELLA": true,
	},
	domain.GoalSoothing: {
		"CENTELLA": true, "ALOE VERA": true, "ALLANTOIN": true, "PANTHENOL": true,
	},
	domain.GoalOilControl: {
		"NIACINAMIDE": true, "ZINC": true, "CLAY": true,
	},
}

// IrritantTags are upper-cased tags penalized for highly sensitive skin
var IrritantTags = map[string]bool{
	"AHA":           true,
	"BHA":           true,
	"RETINOL":       true,
	"RETINAL":       true,
	"TRETINOIN":     true,
	"GLYCOLIC ACID": true,
	"LACTIC ACID":   true,
}

// MatchScore returns the compatibility of a product with a shopper profile
// as an integer in [0, 100], or nil when profile is nil.
// It never panics on absent product fields.
func MatchScore(product *domain.Product, profile *domain.ShopperProfile) *int {
	if profile == nil {
		return nil
	}
	if product == nil {
		product = &domain.Product{}
	}

	var earned, possible int

	earned += skinTypePoints(product.SuitableSkinTypes, profile.SkinType)
	possible += skinTypeBudget

	earned += sensitivityPoints(product.Tags, profile.Sensitivity)
	possible += sensitivityBudget

	earned += goalPoints(product.Tags, profile.Goals)
	possible += goalBudget

	earned += categoryPoints(product.Category, profile.Goals)
	possible += categoryBudget

	score := clamp(roundDiv(earned*100, possible), 0, 100)
	return &score
}

func skinTypePoints(suitable []domain.SkinType, skinType domain.SkinType) int {
	for _, t := range suitable {
		if strings.EqualFold(string(t), string(skinType)) {
			return skinTypeMatchPoints
		}
	}
	return skinTypePartialPoints
}

func sensitivityPoints(tags []string, sensitivity domain.Sensitivity) int {
	if !strings.EqualFold(string(sensitivity), string(domain.SensitivityHigh)) {
		return lowSensitivityPoints
	}
	for _, tag := range tags {
		if IrritantTags[normalizeTag(tag)] {
			return irritantPoints
		}
	}
	return irritantFreePoints
}

func goalPoints(tags []string, goals []domain.Goal) int {
	if len(goals) == 0 || len(tags) == 0 {
		return 0
	}

	hits := 0
	seen := make(map[domain.Goal]bool, len(goals))
	for _, goal := range goals {
		goal = domain.Goal(strings.ToLower(string(goal)))
		if seen[goal] {
			continue
		}
		seen[goal] = true

		expected := GoalTags[goal]
		for _, tag := range tags {
			if expected[normalizeTag(tag)] {
				hits++
				break
			}
		}
	}

	return min(hits*goalHitPoints, goalBudget)
}

func categoryPoints(category string, goals []domain.Goal) int {
	if !strings.EqualFold(strings.TrimSpace(category), domain.CategoryCleanser) {
		return categoryBaseline
	}
	for _, goal := range goals {
		if strings.EqualFold(string(goal), string(domain.GoalAntiAcne)) {
			return cleanserAcnePoints
		}
	}
	return categoryBaseline
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// roundDiv divides non-negative integers rounding half up
func roundDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a*2 + b) / (b * 2)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
