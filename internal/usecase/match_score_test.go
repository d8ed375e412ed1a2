package usecase

import (
	"strings"
	"testing"

	"github.com/glowmatch/backend/internal/domain"
)

func scoreValue(t *testing.T, got *int) int {
	t.Helper()
	if got == nil {
		t.Fatal("score = nil, want a value")
	}
	return *got
}

func TestMatchScore_Scenarios(t *testing.T) {
	serum := &domain.Product{
		SuitableSkinTypes: []domain.SkinType{domain.SkinTypeOily, domain.SkinTypeCombination},
		Tags:              []string{"niacinamide"},
		Category:          "serum",
	}

	tests := []struct {
		name    string
		product *domain.Product
		profile *domain.ShopperProfile
		want    int
	}{
		{
			name:    "full skin match with one goal hit",
			product: serum,
			profile: &domain.ShopperProfile{
				SkinType:    domain.SkinTypeOily,
				Sensitivity: domain.SensitivityMedium,
				Goals:       []domain.Goal{domain.GoalBrightening},
			},
			want: 61,
		},
		{
			name:    "skin type outside list with no goals",
			product: serum,
			profile: &domain.ShopperProfile{
				SkinType:    domain.SkinTypeDry,
				Sensitivity: domain.SensitivityMedium,
				Goals:       []domain.Goal{},
			},
			want: 31,
		},
		{
			name:    "irritant penalty with anti-aging hit and no skin list",
			product: &domain.Product{Tags: []string{"retinol"}, Category: "serum"},
			profile: &domain.ShopperProfile{
				SkinType:    domain.SkinTypeOily,
				Sensitivity: domain.SensitivityHigh,
				Goals:       []domain.Goal{domain.GoalAntiAging},
			},
			want: 31,
		},
		{
			name:    "cleanser bonus for anti-acne goal",
			product: &domain.Product{Category: "cleanser"},
			profile: &domain.ShopperProfile{
				SkinType:    domain.SkinTypeNormal,
				Sensitivity: domain.SensitivityLow,
				Goals:       []domain.Goal{domain.GoalAntiAcne},
			},
			want: 33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreValue(t, MatchScore(tt.product, tt.profile))
			if got != tt.want {
				t.Errorf("MatchScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatchScore_NilProfile(t *testing.T) {
	products := []*domain.Product{
		nil,
		{},
		{Tags: []string{"retinol"}, Category: "cleanser"},
	}
	for _, p := range products {
		if got := MatchScore(p, nil); got != nil {
			t.Errorf("MatchScore(%v, nil) = %d, want nil", p, *got)
		}
	}
}

func TestMatchScore_Bounds(t *testing.T) {
	profiles := []*domain.ShopperProfile{
		{},
		{SkinType: domain.SkinTypeDry, Sensitivity: domain.SensitivityHigh},
		{
			SkinType:    domain.SkinTypeOily,
			Sensitivity: domain.SensitivityLow,
			Goals: []domain.Goal{
				domain.GoalHydration, domain.GoalBrightening, domain.GoalAntiAcne,
				domain.GoalAntiAging, domain.GoalSoothing,
			},
		},
		{SkinType: "unknown", Sensitivity: "extreme", Goals: []domain.Goal{"glow", ""}},
	}
	products := []*domain.Product{
		nil,
		{},
		{
			SuitableSkinTypes: []domain.SkinType{domain.SkinTypeOily},
			Tags: []string{
				"hyaluronic acid", "niacinamide", "salicylic acid", "retinol", "centella",
			},
			Category: "cleanser",
		},
		{Tags: []string{"", "  ", "AHA"}},
	}

	for _, profile := range profiles {
		for _, product := range products {
			got := scoreValue(t, MatchScore(product, profile))
			if got < 0 || got > 100 {
				t.Errorf("MatchScore(%v, %v) = %d, want within [0, 100]", product, profile, got)
			}
		}
	}
}

func TestMatchScore_SkinTypeCredit(t *testing.T) {
	profile := &domain.ShopperProfile{SkinType: domain.SkinTypeOily, Sensitivity: domain.SensitivityMedium}
	matching := &domain.Product{SuitableSkinTypes: []domain.SkinType{domain.SkinTypeOily}, Category: "toner"}
	other := &domain.Product{SuitableSkinTypes: []domain.SkinType{domain.SkinTypeDry}, Category: "toner"}
	unlisted := &domain.Product{Category: "toner"}

	a := scoreValue(t, MatchScore(matching, profile))
	b := scoreValue(t, MatchScore(other, profile))
	c := scoreValue(t, MatchScore(unlisted, profile))

	if a <= b {
		t.Errorf("matching skin type score %d should exceed non-matching %d", a, b)
	}
	if b != c {
		t.Errorf("missing skin list score %d should equal non-matching list score %d", c, b)
	}
}

func TestMatchScore_SensitivityPenalty(t *testing.T) {
	profile := &domain.ShopperProfile{SkinType: domain.SkinTypeNormal, Sensitivity: domain.SensitivityHigh}
	withRetinol := &domain.Product{Tags: []string{"retinol"}, Category: "serum"}
	gentle := &domain.Product{Tags: []string{"glycerin"}, Category: "serum"}

	a := scoreValue(t, MatchScore(withRetinol, profile))
	b := scoreValue(t, MatchScore(gentle, profile))
	if b <= a {
		t.Errorf("irritant-free score %d should exceed irritant score %d", b, a)
	}

	t.Run("only high sensitivity penalizes", func(t *testing.T) {
		for _, s := range []domain.Sensitivity{domain.SensitivityLow, domain.SensitivityMedium} {
			p := &domain.ShopperProfile{SkinType: domain.SkinTypeNormal, Sensitivity: s}
			x := scoreValue(t, MatchScore(withRetinol, p))
			y := scoreValue(t, MatchScore(gentle, p))
			if x != y {
				t.Errorf("sensitivity %s: scores %d and %d, want equal", s, x, y)
			}
		}
	})
}

func TestMatchScore_GoalSaturation(t *testing.T) {
	profile := &domain.ShopperProfile{
		SkinType:    domain.SkinTypeNormal,
		Sensitivity: domain.SensitivityMedium,
		Goals: []domain.Goal{
			domain.GoalHydration, domain.GoalBrightening, domain.GoalAntiAcne, domain.GoalAntiAging,
		},
	}
	three := &domain.Product{Tags: []string{"glycerin", "niacinamide", "tea tree"}}
	four := &domain.Product{Tags: []string{"glycerin", "niacinamide", "tea tree", "peptides"}}
	none := &domain.Product{Tags: []string{"fragrance"}}

	if a, b := scoreValue(t, MatchScore(three, profile)), scoreValue(t, MatchScore(four, profile)); a != b {
		t.Errorf("three hits = %d, four hits = %d, want equal", a, b)
	}

	if got := goalPoints(four.Tags, profile.Goals); got != goalBudget {
		t.Errorf("goalPoints() = %d, want %d", got, goalBudget)
	}
	if got := goalPoints(none.Tags, profile.Goals); got != 0 {
		t.Errorf("goalPoints() = %d, want 0", got)
	}
	if got := goalPoints(four.Tags, nil); got != 0 {
		t.Errorf("goalPoints() with no goals = %d, want 0", got)
	}
	if got := goalPoints(nil, profile.Goals); got != 0 {
		t.Errorf("goalPoints() with no tags = %d, want 0", got)
	}
}

func TestMatchScore_DuplicateGoalsCountOnce(t *testing.T) {
	goals := []domain.Goal{domain.GoalBrightening, domain.GoalBrightening, "BRIGHTENING"}
	if got := goalPoints([]string{"niacinamide"}, goals); got != goalHitPoints {
		t.Errorf("goalPoints() = %d, want %d", got, goalHitPoints)
	}
}

func TestMatchScore_CaseInsensitiveTags(t *testing.T) {
	profile := &domain.ShopperProfile{
		SkinType:    domain.SkinTypeOily,
		Sensitivity: domain.SensitivityHigh,
		Goals:       []domain.Goal{domain.GoalBrightening},
	}

	variants := []string{"niacinamide", "NIACINAMIDE", "Niacinamide", "  niacinamide "}
	want := scoreValue(t, MatchScore(&domain.Product{Tags: []string{variants[0]}}, profile))
	for _, v := range variants[1:] {
		got := scoreValue(t, MatchScore(&domain.Product{Tags: []string{v}}, profile))
		if got != want {
			t.Errorf("tag %q scored %d, want %d", v, got, want)
		}
	}

	if got := sensitivityPoints([]string{"Retinol"}, domain.SensitivityHigh); got != irritantPoints {
		t.Errorf("sensitivityPoints(Retinol) = %d, want %d", got, irritantPoints)
	}
}

func TestMatchScore_Deterministic(t *testing.T) {
	product := &domain.Product{
		SuitableSkinTypes: []domain.SkinType{domain.SkinTypeCombination},
		Tags:              []string{"ceramide", "BHA"},
		Category:          "cleanser",
	}
	profile := &domain.ShopperProfile{
		SkinType:    domain.SkinTypeCombination,
		Sensitivity: domain.SensitivityHigh,
		Goals:       []domain.Goal{domain.GoalAntiAcne, domain.GoalHydration, domain.GoalAntiAging},
	}

	first := scoreValue(t, MatchScore(product, profile))
	for i := 0; i < 100; i++ {
		if got := scoreValue(t, MatchScore(product, profile)); got != first {
			t.Fatalf("call %d returned %d, want %d", i, got, first)
		}
	}
	// 32 + 5 + 30 + 6
	if first != 73 {
		t.Errorf("MatchScore() = %d, want 73", first)
	}
}

func TestGoalTags(t *testing.T) {
	t.Run("every goal has expected tags", func(t *testing.T) {
		goals := []domain.Goal{
			domain.GoalHydration, domain.GoalBrightening, domain.GoalAntiAcne, domain.GoalAntiAging,
			domain.GoalBarrierRepair, domain.GoalSoothing, domain.GoalOilControl,
		}
		for _, g := range goals {
			if len(GoalTags[g]) == 0 {
				t.Errorf("GoalTags[%s] is empty", g)
			}
		}
	})

	t.Run("tags are stored upper-cased", func(t *testing.T) {
		for goal, tags := range GoalTags {
			for tag := range tags {
				if tag != strings.ToUpper(tag) {
					t.Errorf("GoalTags[%s] has non upper-case tag %q", goal, tag)
				}
			}
		}
		for tag := range IrritantTags {
			if tag != strings.ToUpper(tag) {
				t.Errorf("IrritantTags has non upper-case tag %q", tag)
			}
		}
	})

	t.Run("reference mappings", func(t *testing.T) {
		cases := map[domain.Goal][]string{
			domain.GoalHydration:   {"HYALURONIC ACID", "GLYCERIN", "CERAMIDE", "PANTHENOL"},
			domain.GoalBrightening: {"NIACINAMIDE", "VITAMIN C", "ALPHA ARBUTIN"},
			domain.GoalAntiAcne:    {"SALICYLIC ACID", "BHA", "TEA TREE", "AZELAIC ACID"},
			domain.GoalAntiAging:   {"RETINOL", "PEPTIDES", "CERAMIDE"},
		}
		for goal, tags := range cases {
			for _, tag := range tags {
				if !GoalTags[goal][tag] {
					t.Errorf("GoalTags[%s] missing %q", goal, tag)
				}
			}
		}
	})
}

func TestRoundDiv(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{6100, 100, 61},
		{0, 100, 0},
		{149, 100, 1},
		{150, 100, 2},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := roundDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("roundDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
