package repository

import "errors"

var (
	// ErrNavigationFailed is returned when a page could not be loaded.
	ErrNavigationFailed = errors.New("navigation failed")
	// ErrCrawlTimeout is returned when a page did not load within the configured timeout.
	ErrCrawlTimeout = errors.New("page load timed out")
	// ErrExtractionFailed is returned when a loaded page could not be turned into a record.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrInvalidSelector is returned by PageContent queries for selectors that cannot be compiled.
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrNotFound is returned by lookups that match no stored record.
	ErrNotFound = errors.New("record not found")
)
