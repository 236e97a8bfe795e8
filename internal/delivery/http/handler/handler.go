package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/user/apartment-scraper/internal/delivery/http/request"
	"github.com/user/apartment-scraper/internal/delivery/http/response"
	"github.com/user/apartment-scraper/internal/repository"
	"github.com/user/apartment-scraper/internal/usecase"
)

// Upper bound on a single request body.
const maxBodyBytes = 1 << 20

type Handler struct {
	scraper      usecase.Scraper
	lookup       usecase.PropertyLookup
	healthChecks map[string]func(ctx context.Context) error
	logger       *zap.Logger
}

func NewHandler(scraper usecase.Scraper, lookup usecase.PropertyLookup, checks map[string]func(ctx context.Context) error, logger *zap.Logger) *Handler {
	return &Handler{
		scraper:      scraper,
		lookup:       lookup,
		healthChecks: checks,
		logger:       logger,
	}
}

// HandleScrape runs a synchronous scrape and answers with the report. Nothing is written to disk.
func (h *Handler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	var req request.ScrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.URLs) == 0 {
		h.writeJSONError(w, "URLs list cannot be empty", http.StatusBadRequest)
		return
	}
	for _, u := range req.URLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			h.writeJSONError(w, "Invalid URL in list: "+u, http.StatusBadRequest)
			return
		}
	}

	report, err := h.scraper.Run(r.Context(), req.URLs)
	if err != nil {
		if errors.Is(err, usecase.ErrNoURLs) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Scrape run failed", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// HandleGetProperty returns the latest stored result for the url query parameter.
func (h *Handler) HandleGetProperty(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		h.writeJSONError(w, "Invalid URL format in query parameter", http.StatusBadRequest)
		return
	}

	result, err := h.lookup.FindByURL(r.Context(), rawURL)
	switch {
	case errors.Is(err, usecase.ErrStorageDisabled):
		h.writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
		return
	case errors.Is(err, repository.ErrNotFound):
		h.writeJSONError(w, "No result stored for the given URL", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("Failed to look up property", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok"}
	if len(h.healthChecks) > 0 {
		resp.Services = make(map[string]string, len(h.healthChecks))
	}

	names := make([]string, 0, len(h.healthChecks))
	for name := range h.healthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.healthChecks[name](ctx); err != nil {
			h.logger.Error("Health check failed", zap.String("service", name), zap.Error(err))
			resp.Services[name] = "unhealthy"
			resp.Status = "degraded"
			continue
		}
		resp.Services[name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
