package extractor

import (
	"strings"

	"github.com/user/apartment-scraper/internal/repository"
)

const (
	UnknownProperty = "Unknown Property"
	AddressNotFound = "Address not found"
)

// Site-specific guesses come first, generic catch-alls last.
var nameSelectors = [...]string{
	`h1[data-testid="property-name"]`,
	`.property-title`,
	`h1`,
	`.property-name`,
	`[class*="property"] h1`,
	`[class*="title"] h1`,
}

var addressSelectors = [...]string{
	`[data-testid="property-address"]`,
	`.property-address`,
	`.address`,
	`[class*="address"]`,
}

// ExtractName returns the property name, falling back to the document title
// and finally to UnknownProperty.
func (e *Extractor) ExtractName(page repository.PageContent) string {
	probes := append(e.selectorChain(page, nameSelectors[:]), titleProbe(page))
	if name, ok := FirstOf(probes...); ok {
		return name
	}
	return UnknownProperty
}

// ExtractAddress returns the property address or AddressNotFound.
func (e *Extractor) ExtractAddress(page repository.PageContent) string {
	if addr, ok := FirstOf(e.selectorChain(page, addressSelectors[:])...); ok {
		return addr
	}
	return AddressNotFound
}

// titleProbe uses the part of the title before the first '|', unless the title
// looks like an error page.
func titleProbe(page repository.PageContent) Probe {
	return func() (string, bool) {
		title := page.Title()
		if title == "" || strings.Contains(title, "404") || strings.Contains(title, "Error") {
			return "", false
		}
		name, _, _ := strings.Cut(title, "|")
		name = strings.TrimSpace(name)
		return name, name != ""
	}
}
