package domain

// SkinType is a shopper skin type from the closed set below
type SkinType string

const (
	SkinTypeDry         SkinType = "dry"
	SkinTypeNormal      SkinType = "normal"
	SkinTypeCombination SkinType = "combination"
	SkinTypeOily        SkinType = "oily"
)

// Sensitivity is how reactive a shopper's skin is
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Goal is a shopper-declared skincare objective
type Goal string

const (
	GoalHydration     Goal = "hydration"
	GoalBrightening   Goal = "brightening"
	GoalAntiAcne      Goal = "anti-acne"
	GoalAntiAging     Goal = "anti-aging"
	GoalBarrierRepair Goal = "barrier-repair"
	GoalSoothing      Goal = "soothing"
	GoalOilControl    Goal = "oil-control"
)

// CategoryCleanser is the category label that earns the anti-acne format bonus
const CategoryCleanser = "cleanser"

// Product represents a catalog product with the attributes used for matching
type Product struct {
	ID                string     `json:"id,omitempty"`
	Name              string     `json:"name,omitempty"`
	Brand             string     `json:"brand,omitempty"`
	Category          string     `json:"category,omitempty"`
	Price             float64    `json:"price,omitempty"`
	SuitableSkinTypes []SkinType `json:"suitableSkinTypes,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
}

// ShopperProfile is the shopper's declared skin profile.
// A nil *ShopperProfile means no personalization is available.
type ShopperProfile struct {
	SkinType    SkinType    `json:"skinType"`
	Sensitivity Sensitivity `json:"sensitivity"`
	Goals       []Goal      `json:"goals"`
}

// ScoredProduct pairs a product with its match score.
// Score is nil when no profile was supplied, which serializes as null.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   *int    `json:"score"`
}

// ProductQuery filters a catalog listing
type ProductQuery struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
}

// RankedCatalog is a ranked product listing for one shopper
type RankedCatalog struct {
	Items           []ScoredProduct `json:"items"`
	ProfileComplete bool            `json:"profileComplete"`
}
