package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/entity"
	"github.com/user/apartment-scraper/internal/repository"
)

// AmenityKeywords is the vocabulary checked against page text.
var AmenityKeywords = [...]string{
	"Pool", "Swimming Pool", "Fitness Center", "Gym", "Clubhouse",
	"Business Center", "Pet Play Area", "Dog Park", "Playground",
	"Garage", "Parking", "Balcony", "Patio", "Grill", "BBQ",
	"Laundry", "Washer", "Dryer", "Dishwasher", "Air Conditioning",
	"Heating", "Walk-in Closet", "Hardwood Floors", "Carpet",
	"Tile", "Granite Counters", "Stainless Steel", "Wi-Fi",
	"Internet", "Cable", "Trash Pickup", "Maintenance",
	"Security", "24 Hour", "Gated", "Recycling", "Package",
	"Concierge", "Valet", "Tennis", "Basketball", "Volleyball",
	"Refrigerator", "Microwave", "Oven", "Stove", "Fireplace",
	"Ceiling Fan", "Window Coverings", "Patio/Deck", "Garden Tub",
}

// Elements that commonly hold one amenity each. The bare `li` is deliberately broad.
var amenitySelectors = [...]string{
	`.amenity`,
	`.feature`,
	`[class*="amenity"]`,
	`[class*="feature"]`,
	`li`,
	`.list-item`,
	`.amenity-item`,
	`[data-testid*="amenity"]`,
}

// Element text must be strictly longer than minAmenityLen and strictly
// shorter than maxAmenityLen characters.
const (
	minAmenityLen = 3
	maxAmenityLen = 100
)

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

var keywordPatterns = compileKeywords(AmenityKeywords[:])

func compileKeywords(keywords []string) []keywordPattern {
	patterns := make([]keywordPattern, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, keywordPattern{
			keyword: kw,
			re:      regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`),
		})
	}
	return patterns
}

// MatchKeywords returns every keyword occurring in text as a whole word,
// in vocabulary order.
func MatchKeywords(text string) []string {
	var found []string
	for _, p := range keywordPatterns {
		if p.re.MatchString(text) {
			found = append(found, p.keyword)
		}
	}
	return found
}

// ContainsKeyword reports whether any keyword occurs in text as a whole word.
func ContainsKeyword(text string) bool {
	for _, p := range keywordPatterns {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractAmenities collects keyword hits from the page text plus the full text
// of amenity-like elements that mention a keyword.
func (e *Extractor) ExtractAmenities(page repository.PageContent) *entity.AmenitySet {
	set := entity.NewAmenitySet(MatchKeywords(page.FullText())...)

	for _, sel := range amenitySelectors {
		texts, err := page.QueryAll(sel)
		if err != nil {
			e.logger.Debug("skipping amenity selector", zap.String("selector", sel), zap.Error(err))
			continue
		}
		for _, text := range texts {
			text = strings.TrimSpace(text)
			if !amenitySized(text) {
				continue
			}
			if ContainsKeyword(text) {
				set.Add(text)
			}
		}
	}
	return set
}

func amenitySized(text string) bool {
	n := utf8.RuneCountInString(text)
	return n > minAmenityLen && n < maxAmenityLen
}
