package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/user/apartment-scraper/internal/entity"
)

var at = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

func sampleReport() *entity.Report {
	set := entity.NewAmenitySet("Pool", "Dishwasher")
	return entity.NewReport([]entity.ScrapeResult{
		entity.Succeeded(entity.PropertyRecord{
			Name:      "Sunset Villas",
			Address:   "123 Main St",
			Amenities: set.Items(),
			URL:       "https://example.com/a?x=1&y=<2>",
			ScrapedAt: entity.NewTimestamp(at),
			CategorizedAmenities: entity.CategoryMap{
				Interior:  []string{"Dishwasher"},
				Exterior:  []string{},
				Community: []string{"Pool"},
				Services:  []string{},
			},
			TotalAmenities: 2,
		}),
		entity.Failed(entity.ErrorRecord{
			URL:       "https://example.com/b",
			Error:     "navigation failed",
			ScrapedAt: entity.NewTimestamp(at),
		}),
	}, at)
}

func TestEncode(t *testing.T) {
	data, err := Encode(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)

	if strings.HasSuffix(s, "\n") {
		t.Error("encoded report ends with a newline")
	}
	if !strings.Contains(s, "\n  \"metadata\": {") {
		t.Error("expected two-space indentation")
	}
	if !strings.Contains(s, "y=<2>") {
		t.Error("HTML characters should not be escaped")
	}

	record := s[strings.Index(s, `"properties"`):]
	keys := []string{`"name"`, `"address"`, `"amenities"`, `"url"`, `"scrapedAt"`, `"categorizedAmenities"`, `"totalAmenities"`}
	last := -1
	for _, k := range keys {
		i := strings.Index(record, k)
		if i <= last {
			t.Fatalf("key %s out of order in:\n%s", k, record)
		}
		last = i
	}
	if !strings.Contains(s, `"scrapedAt": "2024-05-01T08:30:00.000Z"`) {
		t.Error("timestamp not in millisecond ISO form")
	}
	if !strings.Contains(s, `"success": false`) {
		t.Error("error record lacks success flag")
	}
}

func TestValidate(t *testing.T) {
	data, err := Encode(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(data); err != nil {
		t.Fatalf("Validate() of encoded report: %v", err)
	}

	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing metadata", `{"properties": []}`},
		{"wrong version", `{"metadata":{"totalProperties":0,"successfulScrapes":0,"failedScrapes":0,"scrapedAt":"2024-05-01T08:30:00.000Z","version":"2.0"},"properties":[]}`},
		{"error record claiming success", `{"metadata":{"totalProperties":1,"successfulScrapes":0,"failedScrapes":1,"scrapedAt":"2024-05-01T08:30:00.000Z","version":"1.0"},"properties":[{"url":"u","error":"e","scrapedAt":"2024-05-01T08:30:00.000Z","success":true}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate([]byte(tt.doc)); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.json")
	w := NewReportWriter(path, zap.NewNop())

	report := sampleReport()
	if err := w.Write(context.Background(), report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got entity.Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	gm, wm := got.Metadata, report.Metadata
	if gm.TotalProperties != wm.TotalProperties || gm.SuccessfulScrapes != wm.SuccessfulScrapes ||
		gm.FailedScrapes != wm.FailedScrapes || gm.Version != wm.Version || !gm.ScrapedAt.Equal(wm.ScrapedAt.Time) {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, report.Metadata)
	}
	if len(got.Properties) != 2 || !got.Properties[0].OK() || got.Properties[1].OK() {
		t.Errorf("properties decoded as %+v", got.Properties)
	}

	// A second run overwrites the file.
	if err := w.Write(context.Background(), entity.NewReport(nil, at)); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), `"properties": []`) {
		t.Errorf("file not overwritten:\n%s", data)
	}
}

func TestWriteKeepsResultsFailingSchema(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	path := filepath.Join(t.TempDir(), "results.json")
	w := NewReportWriter(path, zap.New(core))

	// nil lists encode as null, which the schema rejects.
	report := entity.NewReport([]entity.ScrapeResult{
		entity.Succeeded(entity.PropertyRecord{Name: "Harbor Lofts", URL: "https://example.com/h", ScrapedAt: entity.NewTimestamp(at)}),
	}, at)

	if err := w.Write(context.Background(), report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("results not written: %v", err)
	}
	if !strings.Contains(string(data), `"name": "Harbor Lofts"`) {
		t.Errorf("file content:\n%s", data)
	}
	if logs.FilterMessage("Report does not match schema, saving anyway").Len() != 1 {
		t.Errorf("schema warning not logged: %v", logs.All())
	}
}
