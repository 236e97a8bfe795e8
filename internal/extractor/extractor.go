// Package extractor turns a rendered page snapshot into a categorised property record.
package extractor

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/entity"
	"github.com/user/apartment-scraper/internal/repository"
)

// Extractor holds no per-page state; one value can serve every page of a run.
type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract runs the field extractor and amenity matcher over page and assembles
// the record. A panic raised by the page is reported as ErrExtractionFailed.
func (e *Extractor) Extract(page repository.PageContent, at time.Time) (rec entity.PropertyRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", repository.ErrExtractionFailed, r)
		}
	}()

	name := e.ExtractName(page)
	address := e.ExtractAddress(page)
	amenities := e.ExtractAmenities(page)
	return Assemble(name, address, amenities, page.URL(), at), nil
}
