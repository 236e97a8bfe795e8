package extractor

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/user/apartment-scraper/internal/entity"
)

type Category int

const (
	Interior Category = iota
	Exterior
	Community
	Services
)

func (c Category) String() string {
	switch c {
	case Interior:
		return "interior"
	case Exterior:
		return "exterior"
	case Community:
		return "community"
	default:
		return "services"
	}
}

type categoryRule struct {
	category Category
	terms    []string
}

// Checked in order; services is the catch-all and has no terms.
var categoryRules = [...]categoryRule{
	{Interior, []string{
		"kitchen", "bathroom", "bedroom", "closet", "appliance", "flooring",
		"dishwasher", "washer", "dryer", "granite", "stainless", "hardwood",
		"refrigerator", "microwave", "oven", "fireplace", "ceiling fan", "window",
	}},
	{Exterior, []string{
		"balcony", "patio", "parking", "garage", "entrance", "gated", "deck",
	}},
	{Community, []string{
		"pool", "gym", "fitness", "clubhouse", "playground", "court",
		"dog park", "grill", "tennis", "basketball",
	}},
}

// Classify returns the first category whose terms occur in amenity.
func Classify(amenity string) Category {
	folded := cases.Fold().String(amenity)
	for _, rule := range categoryRules {
		for _, term := range rule.terms {
			if strings.Contains(folded, term) {
				return rule.category
			}
		}
	}
	return Services
}

// Categorize partitions amenities into the four categories, keeping insertion order.
func Categorize(amenities *entity.AmenitySet) entity.CategoryMap {
	out := entity.NewCategoryMap()
	for _, a := range amenities.Items() {
		switch Classify(a) {
		case Interior:
			out.Interior = append(out.Interior, a)
		case Exterior:
			out.Exterior = append(out.Exterior, a)
		case Community:
			out.Community = append(out.Community, a)
		default:
			out.Services = append(out.Services, a)
		}
	}
	return out
}
