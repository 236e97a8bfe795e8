package extractor

import (
	"fmt"

	"github.com/user/apartment-scraper/internal/repository"
)

// fakePage answers queries from canned data keyed by selector.
type fakePage struct {
	texts    map[string][]string
	invalid  map[string]bool
	fullText string
	title    string
	url      string
	panicMsg string
}

func (p *fakePage) QueryText(selector string) (string, error) {
	if p.invalid[selector] {
		return "", fmt.Errorf("%w %q", repository.ErrInvalidSelector, selector)
	}
	if texts := p.texts[selector]; len(texts) > 0 {
		return texts[0], nil
	}
	return "", nil
}

func (p *fakePage) QueryAll(selector string) ([]string, error) {
	if p.invalid[selector] {
		return nil, fmt.Errorf("%w %q", repository.ErrInvalidSelector, selector)
	}
	return p.texts[selector], nil
}

func (p *fakePage) FullText() string {
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	return p.fullText
}

func (p *fakePage) Title() string { return p.title }
func (p *fakePage) URL() string   { return p.url }
