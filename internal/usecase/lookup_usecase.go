package usecase

import (
	"context"
	"errors"

	"github.com/user/apartment-scraper/internal/entity"
	"github.com/user/apartment-scraper/internal/repository"
)

var ErrStorageDisabled = errors.New("result storage is not configured")

// PropertyLookup answers queries about previously scraped URLs.
type PropertyLookup interface {
	FindByURL(ctx context.Context, url string) (*entity.ScrapeResult, error)
}

type lookupUseCase struct {
	propertyRepo repository.PropertyRepository
}

// NewPropertyLookup creates a lookup backed by repo. A nil repo yields ErrStorageDisabled.
func NewPropertyLookup(repo repository.PropertyRepository) PropertyLookup {
	return &lookupUseCase{propertyRepo: repo}
}

func (uc *lookupUseCase) FindByURL(ctx context.Context, url string) (*entity.ScrapeResult, error) {
	if uc.propertyRepo == nil {
		return nil, ErrStorageDisabled
	}
	return uc.propertyRepo.FindByURL(ctx, url)
}
