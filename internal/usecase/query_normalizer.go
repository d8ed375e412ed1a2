package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// maxQueryLength caps search input forwarded to the catalog API
const maxQueryLength = 100

// Compiled regex patterns for query normalization
var (
	// Matches size/volume patterns like "30 ml", "50g", "1.7 fl oz", "100 gr"
	sizeVolumePattern = regexp.MustCompile(`\b\d+[.,]?\d*\s*(fl\s*)?oz\b|\b\d+[.,]?\d*\s*(ml|l|liters?|gr?|grams?|kg|mg)\b`)

	// Matches pack/count patterns like "2 pack", "pack of 3", "3 pcs", "isi 2"
	packPattern = regexp.MustCompile(`\b\d+[-\s]*(pack|pk|pcs|pieces?|count|ct)\b|\bpack\s*of\s*\d+\b|\bisi\s*\d+\b`)

	// Everything that is not a letter, digit, space or hyphen
	queryPunctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords are marketing and packaging terms that never narrow a skincare search
var queryNoiseWords = map[string]bool{
	// Marketing terms
	"new":        true,
	"best":       true,
	"original":   true,
	"premium":    true,
	"limited":    true,
	"edition":    true,
	"bestseller": true,
	"promo":      true,
	"sale":       true,
	"free":       true,
	"gratis":     true,
	"baru":       true,

	// Packaging terms
	"bottle": true,
	"tube":   true,
	"jar":    true,
	"pump":   true,
	"refill": true,
	"sachet": true,
	"travel": true,
	"size":   true,
	"mini":   true,
}

// QueryNormalizer cleans free-text catalog searches
type QueryNormalizer struct {
	logger zerolog.Logger
}

// NewQueryNormalizer creates a new query normalizer
func NewQueryNormalizer(logger zerolog.Logger) *QueryNormalizer {
	return &QueryNormalizer{logger: logger}
}

// Normalize lower-cases a search query and strips sizes, pack counts,
// punctuation and noise words so equivalent searches share a cache entry.
func (n *QueryNormalizer) Normalize(query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}

	cleaned := strings.ToLower(query)
	cleaned = sizeVolumePattern.ReplaceAllString(cleaned, " ")
	cleaned = packPattern.ReplaceAllString(cleaned, " ")
	cleaned = queryPunctuationPattern.ReplaceAllString(cleaned, " ")

	words := strings.Fields(cleaned)
	kept := words[:0]
	for _, word := range words {
		word = strings.Trim(word, "-")
		if word == "" || queryNoiseWords[word] {
			continue
		}
		kept = append(kept, word)
	}
	cleaned = whitespacePattern.ReplaceAllString(strings.Join(kept, " "), " ")

	if len(cleaned) > maxQueryLength {
		cut := maxQueryLength
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	n.logger.Debug().Str("input", query).Str("output", cleaned).Msg("normalized search query")
	return cleaned
}
