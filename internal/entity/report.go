package entity

import "time"

const ReportVersion = "1.0"

// ReportMetadata summarises one scrape run.
type ReportMetadata struct {
	TotalProperties   int       `json:"totalProperties"`
	SuccessfulScrapes int       `json:"successfulScrapes"`
	FailedScrapes     int       `json:"failedScrapes"`
	ScrapedAt         Timestamp `json:"scrapedAt"`
	Version           string    `json:"version"`
}

// Report is the document written to results.json.
type Report struct {
	Metadata   ReportMetadata `json:"metadata"`
	Properties []ScrapeResult `json:"properties"`
}

func NewReport(results []ScrapeResult, at time.Time) *Report {
	if results == nil {
		results = []ScrapeResult{}
	}
	meta := ReportMetadata{
		TotalProperties: len(results),
		ScrapedAt:       NewTimestamp(at),
		Version:         ReportVersion,
	}
	for _, r := range results {
		if r.OK() {
			meta.SuccessfulScrapes++
		} else {
			meta.FailedScrapes++
		}
	}
	return &Report{Metadata: meta, Properties: results}
}

// ExitCode is the process status for a finished run: non-zero when nothing succeeded.
func (r *Report) ExitCode() int {
	if r.Metadata.SuccessfulScrapes == 0 {
		return 1
	}
	return 0
}
