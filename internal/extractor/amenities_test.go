package extractor

import (
	"reflect"
	"strings"
	"testing"
)

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Resort-style Swimming Pool", []string{"Pool", "Swimming Pool"}},
		{"Poolside cabanas", nil},
		{"open 24 hour gym", []string{"Gym", "24 Hour"}},
		{"Free Wi-Fi in lobby", []string{"Wi-Fi"}},
		{"Patio/Deck", []string{"Patio", "Patio/Deck"}},
		{"DISHWASHER included", []string{"Dishwasher"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := MatchKeywords(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractAmenities(t *testing.T) {
	page := &fakePage{
		fullText: "Sunset Villas\nSwimming Pool\nFitness Center",
		texts: map[string][]string{
			`.amenity`: {"  In-unit Washer and Dryer  "},
			`li`: {
				"Swimming Pool",
				"Poolside cabanas",
				"Gym",
				"Covered Parking " + strings.Repeat("x", 90),
				"In-unit Washer and Dryer",
				"Controlled access gate",
				"Garage",
			},
		},
		invalid: map[string]bool{`[data-testid*="amenity"]`: true},
	}

	got := New(nil).ExtractAmenities(page).Items()
	want := []string{
		"Pool", "Swimming Pool", "Fitness Center",
		"In-unit Washer and Dryer",
		"Garage",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAmenities() = %q, want %q", got, want)
	}
}

func TestAmenitySized(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Gym", false},
		{"Pool", true},
		{strings.Repeat("a", 99), true},
		{strings.Repeat("a", 100), false},
		{"Café", true},
		{"Caf", false},
	}
	for _, tt := range tests {
		if got := amenitySized(tt.text); got != tt.want {
			t.Errorf("amenitySized(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
