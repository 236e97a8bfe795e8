package extractor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/repository"
)

// Probe tries one way of locating a value. ok is false when nothing usable was found.
type Probe func() (value string, ok bool)

// FirstOf evaluates probes in order and returns the first value produced.
func FirstOf(probes ...Probe) (string, bool) {
	for _, probe := range probes {
		if v, ok := probe(); ok {
			return v, true
		}
	}
	return "", false
}

// selectorProbe yields the trimmed text of the first element matching selector.
// Invalid selectors are logged and treated as a miss.
func (e *Extractor) selectorProbe(page repository.PageContent, selector string) Probe {
	return func() (string, bool) {
		text, err := page.QueryText(selector)
		if err != nil {
			e.logger.Debug("skipping selector", zap.String("selector", selector), zap.Error(err))
			return "", false
		}
		text = strings.TrimSpace(text)
		return text, text != ""
	}
}

func (e *Extractor) selectorChain(page repository.PageContent, selectors []string) []Probe {
	probes := make([]Probe, 0, len(selectors)+1)
	for _, sel := range selectors {
		probes = append(probes, e.selectorProbe(page, sel))
	}
	return probes
}
