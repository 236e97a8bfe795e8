package entity

import (
	"encoding/json"
	"fmt"
)

// CategoryMap mirrors the `categorizedAmenities` object of a scraped property.
type CategoryMap struct {
	Interior  []string `json:"interior"`
	Exterior  []string `json:"exterior"`
	Community []string `json:"community"`
	Services  []string `json:"services"`
}

// NewCategoryMap returns a map whose lists serialise as [] rather than null.
func NewCategoryMap() CategoryMap {
	return CategoryMap{
		Interior:  []string{},
		Exterior:  []string{},
		Community: []string{},
		Services:  []string{},
	}
}

// Len is the number of amenities across all four categories.
func (c CategoryMap) Len() int {
	return len(c.Interior) + len(c.Exterior) + len(c.Community) + len(c.Services)
}

// PropertyRecord is the structured result of one successfully scraped page.
// Field order is the JSON key order of results.json.
type PropertyRecord struct {
	Name                 string      `json:"name"`
	Address              string      `json:"address"`
	Amenities            []string    `json:"amenities"`
	URL                  string      `json:"url"`
	ScrapedAt            Timestamp   `json:"scrapedAt"`
	CategorizedAmenities CategoryMap `json:"categorizedAmenities"`
	TotalAmenities       int         `json:"totalAmenities"`
}

// ErrorRecord replaces a PropertyRecord when a page could not be scraped.
type ErrorRecord struct {
	URL       string    `json:"url"`
	Error     string    `json:"error"`
	ScrapedAt Timestamp `json:"scrapedAt"`
	Success   bool      `json:"success"`
}

// ScrapeResult holds exactly one of Property or Failure.
type ScrapeResult struct {
	Property *PropertyRecord
	Failure  *ErrorRecord
}

func Succeeded(p PropertyRecord) ScrapeResult {
	return ScrapeResult{Property: &p}
}

func Failed(e ErrorRecord) ScrapeResult {
	return ScrapeResult{Failure: &e}
}

func (r ScrapeResult) OK() bool {
	return r.Property != nil
}

func (r ScrapeResult) URL() string {
	switch {
	case r.Property != nil:
		return r.Property.URL
	case r.Failure != nil:
		return r.Failure.URL
	}
	return ""
}

func (r ScrapeResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.Property != nil:
		return json.Marshal(r.Property)
	case r.Failure != nil:
		return json.Marshal(r.Failure)
	}
	return nil, fmt.Errorf("scrape result holds neither a property nor a failure")
}

func (r *ScrapeResult) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		var e ErrorRecord
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		*r = Failed(e)
		return nil
	}
	var p PropertyRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Succeeded(p)
	return nil
}
