package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ScrapesTotal        *prometheus.CounterVec
	ScrapeDuration      *prometheus.HistogramVec
	AmenitiesFound      prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the metrics on reg. Pass prometheus.DefaultRegisterer in main.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ScrapesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apartment_scrapes_total",
				Help: "Total number of page scrape attempts.",
			},
			[]string{"status", "error_type"}, // status: success, cached, failure
		),
		ScrapeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apartment_scrape_duration_seconds",
				Help:    "Duration of a single page scrape.",
				Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
			},
			[]string{"domain"},
		),
		AmenitiesFound: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "apartment_amenities_found",
				Help:    "Number of amenities found per scraped property.",
				Buckets: []float64{0, 5, 10, 20, 40, 80},
			},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
}
