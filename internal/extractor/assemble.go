package extractor

import (
	"time"

	"github.com/user/apartment-scraper/internal/entity"
)

// Assemble packages extracted fields into an immutable PropertyRecord.
func Assemble(name, address string, amenities *entity.AmenitySet, url string, at time.Time) entity.PropertyRecord {
	return entity.PropertyRecord{
		Name:                 name,
		Address:              address,
		Amenities:            amenities.Items(),
		URL:                  url,
		ScrapedAt:            entity.NewTimestamp(at),
		CategorizedAmenities: Categorize(amenities),
		TotalAmenities:       amenities.Len(),
	}
}

// NewErrorRecord describes a URL that could not be scraped.
func NewErrorRecord(url string, err error, at time.Time) entity.ErrorRecord {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return entity.ErrorRecord{
		URL:       url,
		Error:     msg,
		ScrapedAt: entity.NewTimestamp(at),
		Success:   false,
	}
}
