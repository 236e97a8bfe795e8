package extractor

import (
	"reflect"
	"testing"

	"github.com/user/apartment-scraper/internal/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		amenity string
		want    Category
	}{
		{"Swimming Pool", Community},
		{"Pool", Community},
		{"Fitness Center", Community},
		{"In-unit Washer and Dryer", Interior},
		{"Ceiling Fan", Interior},
		{"Window Coverings", Interior},
		{"Pool-side kitchen", Interior},
		{"BALCONY", Exterior},
		{"Patio/Deck", Exterior},
		{"Covered Parking", Exterior},
		{"Tennis Court", Community},
		{"24 Hour Maintenance", Services},
		{"Wi-Fi", Services},
	}
	for _, tt := range tests {
		t.Run(tt.amenity, func(t *testing.T) {
			if got := Classify(tt.amenity); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.amenity, got, tt.want)
			}
		})
	}
}

func TestCategorizePartitions(t *testing.T) {
	set := entity.NewAmenitySet(
		"Pool", "Dishwasher", "Garage", "Concierge", "Gym", "Microwave", "Gated", "Package",
	)

	got := Categorize(set)
	want := entity.CategoryMap{
		Interior:  []string{"Dishwasher", "Microwave"},
		Exterior:  []string{"Garage", "Gated"},
		Community: []string{"Pool", "Gym"},
		Services:  []string{"Concierge", "Package"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categorize() = %+v, want %+v", got, want)
	}
	if got.Len() != set.Len() {
		t.Errorf("categorised %d amenities, set has %d", got.Len(), set.Len())
	}
}

func TestCategorizeEmpty(t *testing.T) {
	got := Categorize(entity.NewAmenitySet())
	if got.Interior == nil || got.Exterior == nil || got.Community == nil || got.Services == nil {
		t.Fatalf("Categorize() of empty set has nil lists: %+v", got)
	}
	if got.Len() != 0 {
		t.Errorf("Len() = %d, want 0", got.Len())
	}
}

func TestCategoryString(t *testing.T) {
	for c, want := range map[Category]string{
		Interior: "interior", Exterior: "exterior", Community: "community", Services: "services",
	} {
		if c.String() != want {
			t.Errorf("%d.String() = %q, want %q", c, c.String(), want)
		}
	}
}
