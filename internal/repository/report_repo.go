package repository

import (
	"context"

	"github.com/user/apartment-scraper/internal/entity"
)

// ReportWriter persists the summary document of a finished run.
type ReportWriter interface {
	Write(ctx context.Context, report *entity.Report) error
}
