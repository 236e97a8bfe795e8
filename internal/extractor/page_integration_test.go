package extractor_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/user/apartment-scraper/internal/adapter/htmlpage"
	"github.com/user/apartment-scraper/internal/extractor"
)

const listingHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Sunset Villas | Apartments.com</title>
  <script>var hint = "Tennis";</script>
</head>
<body>
  <h1 class="property-title">  Sunset Villas  </h1>
  <div class="property-address">123 Main St, Austin, TX</div>
  <ul>
    <li class="amenity">Resort-style pool with cabanas</li>
    <li>Swimming Pool</li>
    <li>Dishwasher</li>
    <li>Poolside cabanas</li>
    <li>Gym</li>
  </ul>
</body>
</html>`

func TestExtractFromParsedPage(t *testing.T) {
	page, err := htmlpage.Parse("https://example.com/sunset", listingHTML)
	if err != nil {
		t.Fatal(err)
	}

	rec, err := extractor.New(nil).Extract(page, time.Unix(0, 0))
	if err != nil {
		t.Fatal(err)
	}

	if rec.Name != "Sunset Villas" {
		t.Errorf("Name = %q", rec.Name)
	}
	if rec.Address != "123 Main St, Austin, TX" {
		t.Errorf("Address = %q", rec.Address)
	}

	wantAmenities := []string{"Pool", "Swimming Pool", "Gym", "Dishwasher", "Resort-style pool with cabanas"}
	if !reflect.DeepEqual(rec.Amenities, wantAmenities) {
		t.Errorf("Amenities = %q, want %q", rec.Amenities, wantAmenities)
	}

	wantCommunity := []string{"Pool", "Swimming Pool", "Gym", "Resort-style pool with cabanas"}
	if !reflect.DeepEqual(rec.CategorizedAmenities.Community, wantCommunity) {
		t.Errorf("Community = %q, want %q", rec.CategorizedAmenities.Community, wantCommunity)
	}
	if !reflect.DeepEqual(rec.CategorizedAmenities.Interior, []string{"Dishwasher"}) {
		t.Errorf("Interior = %q", rec.CategorizedAmenities.Interior)
	}
}
