// Package htmlpage implements repository.PageContent over a parsed HTML snapshot.
package htmlpage

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/user/apartment-scraper/internal/repository"
)

// Page is an immutable snapshot of one rendered document.
type Page struct {
	doc      *goquery.Document
	url      string
	title    string
	fullText string
}

type Option func(*Page)

// WithVisibleText overrides the computed body text, e.g. with the browser's innerText.
func WithVisibleText(text string) Option {
	return func(p *Page) {
		p.fullText = text
	}
}

// WithTitle overrides the title read from the <title> element.
func WithTitle(title string) Option {
	return func(p *Page) {
		p.title = collapseSpace(title)
	}
}

// Parse builds a Page from raw HTML served at url.
func Parse(url, html string, opts ...Option) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse HTML of %s: %v", repository.ErrExtractionFailed, url, err)
	}

	p := &Page{
		doc:   doc,
		url:   url,
		title: collapseSpace(doc.Find("title").First().Text()),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fullText == "" {
		p.fullText = VisibleText(doc.Find("body"))
	}
	return p, nil
}

func (p *Page) QueryText(selector string) (string, error) {
	m, err := compile(selector)
	if err != nil {
		return "", err
	}
	sel := p.doc.FindMatcher(m).First()
	if sel.Length() == 0 {
		return "", nil
	}
	return strings.TrimSpace(sel.Text()), nil
}

func (p *Page) QueryAll(selector string) ([]string, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	var texts []string
	p.doc.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts, nil
}

func (p *Page) FullText() string { return p.fullText }
func (p *Page) Title() string    { return p.title }
func (p *Page) URL() string      { return p.url }

// compile surfaces selector errors that goquery.Find would swallow.
func compile(selector string) (goquery.Matcher, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", repository.ErrInvalidSelector, selector, err)
	}
	return m, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
