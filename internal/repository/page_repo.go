package repository

import "context"

// PageContent is an immutable snapshot of a rendered page.
type PageContent interface {
	// QueryText returns the trimmed text of the first element matching selector,
	// or "" when nothing matches.
	QueryText(selector string) (string, error)
	// QueryAll returns the text of every element matching selector, in document order.
	QueryAll(selector string) ([]string, error)
	// FullText returns the visible text of the page body.
	FullText() string
	// Title returns the document title.
	Title() string
	// URL returns the final location of the page.
	URL() string
}

// PageFetcher defines the contract for the browser (or HTTP) collaborator that loads pages.
type PageFetcher interface {
	// Fetch navigates to url and returns a snapshot of the loaded page.
	Fetch(ctx context.Context, url string) (PageContent, error)
}
