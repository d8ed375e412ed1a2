package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/glowmatch/backend/internal/domain"
)

// skinTypeLabels maps source labels (Indonesian and English) to canonical skin types
var skinTypeLabels = map[string]domain.SkinType{
	"kering":      domain.SkinTypeDry,
	"dry":         domain.SkinTypeDry,
	"normal":      domain.SkinTypeNormal,
	"kombinasi":   domain.SkinTypeCombination,
	"combination": domain.SkinTypeCombination,
	"berminyak":   domain.SkinTypeOily,
	"oily":        domain.SkinTypeOily,
}

// allSkinTypeLabels expand to every skin type on a product
var allSkinTypeLabels = map[string]bool{
	"all":               true,
	"semua":             true,
	"semua-jenis-kulit": true,
	"all-skin-types":    true,
}

var sensitivityLabels = map[string]domain.Sensitivity{
	"rendah": domain.SensitivityLow,
	"low":    domain.SensitivityLow,
	"sedang": domain.SensitivityMedium,
	"medium": domain.SensitivityMedium,
	"tinggi": domain.SensitivityHigh,
	"high":   domain.SensitivityHigh,
}

var goalLabels = map[string]domain.Goal{
	"hydration":      domain.GoalHydration,
	"hidrasi":        domain.GoalHydration,
	"melembapkan":    domain.GoalHydration,
	"brightening":    domain.GoalBrightening,
	"mencerahkan":    domain.GoalBrightening,
	"anti-acne":      domain.GoalAntiAcne,
	"acne":           domain.GoalAntiAcne,
	"jerawat":        domain.GoalAntiAcne,
	"anti-jerawat":   domain.GoalAntiAcne,
	"anti-aging":     domain.GoalAntiAging,
	"antiaging":      domain.GoalAntiAging,
	"anti-penuaan":   domain.GoalAntiAging,
	"barrier-repair": domain.GoalBarrierRepair,
	"skin-barrier":   domain.GoalBarrierRepair,
	"soothing":       domain.GoalSoothing,
	"menenangkan":    domain.GoalSoothing,
	"oil-control":    domain.GoalOilControl,
	"kontrol-minyak": domain.GoalOilControl,
}

var categoryLabels = map[string]string{
	"cleanser":        domain.CategoryCleanser,
	"cleansers":       domain.CategoryCleanser,
	"facial-wash":     domain.CategoryCleanser,
	"face-wash":       domain.CategoryCleanser,
	"pembersih":       domain.CategoryCleanser,
	"pembersih-wajah": domain.CategoryCleanser,
	"sabun-cuci-muka": domain.CategoryCleanser,
}

// labelList decodes a JSON array of strings, a comma-separated string,
// or an array of {"name": ...} objects. Absent or null decodes to nil.
type labelList []string

func (l *labelList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = splitLabels(s)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		// Anything else (numbers, objects) carries no labels
		*l = nil
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if label := labelOf(item); label != "" {
			out = append(out, label)
		}
	}
	*l = out
	return nil
}

// labelOf extracts a label from a string or an object with a name/label field
func labelOf(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Name != "" {
			return strings.TrimSpace(obj.Name)
		}
		return strings.TrimSpace(obj.Label)
	}
	return ""
}

func splitLabels(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ProductPayload is a product as sent by the catalog API or a storefront request.
// Field names are accepted in snake_case and camelCase.
type ProductPayload struct {
	ID                string
	Name              string
	Brand             string
	Category          string
	Price             float64
	SuitableSkinTypes labelList
	Tags              labelList
}

// UnmarshalJSON tolerates the loose shapes the catalog API produces
func (p *ProductPayload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = ProductPayload{
		ID:       scalarString(pick(fields, "id", "uuid", "slug")),
		Name:     labelOf(pick(fields, "name", "title")),
		Brand:    labelOf(pick(fields, "brand", "brand_name", "brandName")),
		Category: labelOf(pick(fields, "category", "category_name", "categoryName")),
		Price:    scalarFloat(pick(fields, "price")),
	}
	if raw := pick(fields, "suitable_skin_types", "suitableSkinTypes", "skin_types", "skinTypes", "skin_type"); raw != nil {
		if err := p.SuitableSkinTypes.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	if raw := pick(fields, "tags", "ingredients", "key_ingredients"); raw != nil {
		if err := p.Tags.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	return nil
}

// ProfilePayload is a skin profile as sent by the catalog API or a storefront request
type ProfilePayload struct {
	SkinType    string
	Sensitivity string
	Goals       labelList
}

// UnmarshalJSON tolerates snake_case, camelCase and string-or-array goals
func (p *ProfilePayload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = ProfilePayload{
		SkinType:    labelOf(pick(fields, "skin_type", "skinType", "jenis_kulit")),
		Sensitivity: labelOf(pick(fields, "sensitivity", "sensitivitas", "skin_sensitivity")),
	}
	if raw := pick(fields, "goals", "skin_goals", "skinGoals", "concerns"); raw != nil {
		if err := p.Goals.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	return nil
}

// MapProduct normalizes a payload into a domain product
func MapProduct(p ProductPayload) domain.Product {
	product := domain.Product{
		ID:                p.ID,
		Name:              p.Name,
		Brand:             p.Brand,
		Category:          NormalizeCategory(p.Category),
		Price:             p.Price,
		SuitableSkinTypes: mapSkinTypes(p.SuitableSkinTypes),
	}

	for _, tag := range p.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			product.Tags = append(product.Tags, tag)
		}
	}
	return product
}

// MapProducts normalizes a list of payloads
func MapProducts(payloads []ProductPayload) []domain.Product {
	products := make([]domain.Product, 0, len(payloads))
	for _, p := range payloads {
		products = append(products, MapProduct(p))
	}
	return products
}

// MapRecord normalizes a spreadsheet row keyed by header. Headers are
// matched case-insensitively; an empty skin-type cell means "not stated".
func MapRecord(record map[string]string) domain.Product {
	fields := make(map[string]string, len(record))
	for header, value := range record {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
		fields[key] = strings.TrimSpace(value)
	}
	cell := func(keys ...string) string {
		for _, k := range keys {
			if v := fields[k]; v != "" {
				return v
			}
		}
		return ""
	}

	payload := ProductPayload{
		ID:       cell("id", "sku", "slug"),
		Name:     cell("name", "title"),
		Brand:    cell("brand"),
		Category: cell("category"),
		Tags:     splitLabels(cell("tags", "ingredients", "key_ingredients")),
	}
	if price, err := strconv.ParseFloat(strings.ReplaceAll(cell("price"), ",", ""), 64); err == nil {
		payload.Price = price
	}
	if skin := cell("suitable_skin_types", "skin_types", "skin_type"); skin != "" {
		payload.SuitableSkinTypes = splitLabels(skin)
	}
	return MapProduct(payload)
}

// MapProfile normalizes a profile payload. A payload without a recognised
// skin type or sensitivity yields domain.ErrProfileIncomplete.
func MapProfile(p ProfilePayload) (*domain.ShopperProfile, error) {
	skinType, ok := skinTypeLabels[normalizeLabel(p.SkinType)]
	if !ok {
		return nil, domain.ErrProfileIncomplete
	}
	sensitivity, ok := sensitivityLabels[normalizeLabel(p.Sensitivity)]
	if !ok {
		return nil, domain.ErrProfileIncomplete
	}

	profile := &domain.ShopperProfile{
		SkinType:    skinType,
		Sensitivity: sensitivity,
		Goals:       []domain.Goal{},
	}

	seen := make(map[domain.Goal]bool)
	for _, label := range p.Goals {
		goal, ok := goalLabels[normalizeLabel(label)]
		if !ok || seen[goal] {
			continue
		}
		seen[goal] = true
		profile.Goals = append(profile.Goals, goal)
	}
	return profile, nil
}

// ParseGoals splits and translates a comma-separated goal list
func ParseGoals(s string) []domain.Goal {
	profile, _ := MapProfile(ProfilePayload{
		SkinType:    string(domain.SkinTypeNormal),
		Sensitivity: string(domain.SensitivityLow),
		Goals:       splitLabels(s),
	})
	return profile.Goals
}

// NormalizeCategory lower-cases a category label and folds known synonyms
func NormalizeCategory(category string) string {
	label := normalizeLabel(category)
	if canonical, ok := categoryLabels[label]; ok {
		return canonical
	}
	return strings.ToLower(strings.TrimSpace(category))
}

func mapSkinTypes(labels []string) []domain.SkinType {
	if labels == nil {
		return nil
	}

	types := make([]domain.SkinType, 0, len(labels))
	seen := make(map[domain.SkinType]bool)
	add := func(t domain.SkinType) {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	for _, label := range labels {
		key := normalizeLabel(label)
		if allSkinTypeLabels[key] {
			for _, t := range []domain.SkinType{
				domain.SkinTypeDry, domain.SkinTypeNormal, domain.SkinTypeCombination, domain.SkinTypeOily,
			} {
				add(t)
			}
			continue
		}
		if t, ok := skinTypeLabels[key]; ok {
			add(t)
		}
	}
	return types
}

// normalizeLabel lower-cases and joins words with hyphens: "Anti Aging" -> "anti-aging"
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), "-")
}

func pick(fields map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if raw, ok := fields[k]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return raw
		}
	}
	return nil
}

// scalarString renders a JSON string or number as a string
func scalarString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// scalarFloat reads a JSON number or numeric string ("125000.00")
func scalarFloat(raw json.RawMessage) float64 {
	v, err := strconv.ParseFloat(scalarString(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
