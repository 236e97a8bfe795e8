package entity

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

var at = time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("EST", -5*3600))

func TestTimestampFormat(t *testing.T) {
	ts := NewTimestamp(at)
	if got := ts.String(); got != "2024-01-02T08:04:05.006Z" {
		t.Errorf("String() = %q", got)
	}

	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}
	var back Timestamp
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(at) {
		t.Errorf("round trip = %v, want %v", back.Time, at)
	}
}

func TestAmenitySet(t *testing.T) {
	s := NewAmenitySet("Pool", " Gym ", "", "Pool")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Add("Gym") {
		t.Error("Add() of existing member reported true")
	}
	if !s.Add("Sauna") || !s.Contains("  Sauna") {
		t.Error("Sauna not added")
	}

	items := s.Items()
	if strings.Join(items, ",") != "Pool,Gym,Sauna" {
		t.Errorf("Items() = %q", items)
	}
	items[0] = "changed"
	if s.Items()[0] != "Pool" {
		t.Error("Items() exposes internal storage")
	}
}

func TestScrapeResultJSON(t *testing.T) {
	ok := Succeeded(PropertyRecord{
		Name:                 "A",
		Amenities:            []string{},
		URL:                  "https://example.com/a",
		ScrapedAt:            NewTimestamp(at),
		CategorizedAmenities: NewCategoryMap(),
	})
	failed := Failed(ErrorRecord{URL: "https://example.com/b", Error: "timeout", ScrapedAt: NewTimestamp(at)})

	data, err := json.Marshal([]ScrapeResult{ok, failed})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"interior":[]`) {
		t.Errorf("empty category should encode as []: %s", s)
	}
	if !strings.Contains(s, `"success":false`) {
		t.Errorf("failure lacks success flag: %s", s)
	}

	var back []ScrapeResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || !back[0].OK() || back[1].OK() {
		t.Fatalf("decoded %+v", back)
	}
	if back[0].URL() != "https://example.com/a" || back[1].Failure.Error != "timeout" {
		t.Errorf("decoded %+v / %+v", back[0].Property, back[1].Failure)
	}

	if _, err := json.Marshal(ScrapeResult{}); err == nil {
		t.Error("empty ScrapeResult should not encode")
	}
}

func TestNewReport(t *testing.T) {
	tests := []struct {
		name                     string
		results                  []ScrapeResult
		wantOK, wantFail, wantRC int
	}{
		{"mixed", []ScrapeResult{Succeeded(PropertyRecord{}), Failed(ErrorRecord{}), Succeeded(PropertyRecord{})}, 2, 1, 0},
		{"all failed", []ScrapeResult{Failed(ErrorRecord{}), Failed(ErrorRecord{})}, 0, 2, 1},
		{"none", nil, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReport(tt.results, at)
			m := r.Metadata
			if m.TotalProperties != len(tt.results) || m.SuccessfulScrapes != tt.wantOK || m.FailedScrapes != tt.wantFail {
				t.Errorf("metadata = %+v", m)
			}
			if m.SuccessfulScrapes+m.FailedScrapes != m.TotalProperties {
				t.Error("counts do not add up")
			}
			if m.Version != ReportVersion {
				t.Errorf("Version = %q", m.Version)
			}
			if r.Properties == nil {
				t.Error("Properties is nil")
			}
			if got := r.ExitCode(); got != tt.wantRC {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantRC)
			}
		})
	}
}
