package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/apartment-scraper/internal/entity"
	"github.com/user/apartment-scraper/internal/repository"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		run_id UUID NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		amenities TEXT[] NOT NULL,
		categorized_amenities JSONB NOT NULL,
		total_amenities INT NOT NULL,
		scraped_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scrape_failures (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		run_id UUID NOT NULL,
		failure_reason TEXT NOT NULL,
		attempt_count INT NOT NULL DEFAULT 1,
		scraped_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_properties_scraped_at ON properties(scraped_at);
`

// PropertyRepoImpl provides a concrete implementation for the PropertyRepository interface using PostgreSQL.
type PropertyRepoImpl struct {
	db *pgxpool.Pool
}

// NewPropertyRepo creates a new instance of PropertyRepoImpl.
func NewPropertyRepo(db *pgxpool.Pool) *PropertyRepoImpl {
	return &PropertyRepoImpl{db: db}
}

// EnsureSchema creates the tables if they do not exist yet.
func (r *PropertyRepoImpl) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Save stores a property or a failure within a single transaction.
func (r *PropertyRepoImpl) Save(ctx context.Context, runID string, result entity.ScrapeResult) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	switch {
	case result.Property != nil:
		err = saveProperty(ctx, tx, runID, result.Property)
	case result.Failure != nil:
		err = saveFailure(ctx, tx, runID, result.Failure)
	default:
		return fmt.Errorf("empty scrape result")
	}
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func saveProperty(ctx context.Context, tx pgx.Tx, runID string, p *entity.PropertyRecord) error {
	categorized, err := json.Marshal(p.CategorizedAmenities)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO properties (url, run_id, name, address, amenities, categorized_amenities, total_amenities, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			amenities = EXCLUDED.amenities,
			categorized_amenities = EXCLUDED.categorized_amenities,
			total_amenities = EXCLUDED.total_amenities,
			scraped_at = EXCLUDED.scraped_at;
	`
	if _, err := tx.Exec(ctx, query,
		p.URL,
		runID,
		p.Name,
		p.Address,
		p.Amenities,
		categorized,
		p.TotalAmenities,
		p.ScrapedAt.Time,
	); err != nil {
		return fmt.Errorf("failed to save property %s: %w", p.URL, err)
	}

	// A successful scrape clears any earlier failure for the URL.
	if _, err := tx.Exec(ctx, `DELETE FROM scrape_failures WHERE url = $1;`, p.URL); err != nil {
		return fmt.Errorf("failed to clear failure for %s: %w", p.URL, err)
	}
	return nil
}

// saveFailure increments attempt_count on conflict.
func saveFailure(ctx context.Context, tx pgx.Tx, runID string, f *entity.ErrorRecord) error {
	query := `
		INSERT INTO scrape_failures (url, run_id, failure_reason, attempt_count, scraped_at)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (url) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			failure_reason = EXCLUDED.failure_reason,
			attempt_count = scrape_failures.attempt_count + 1,
			scraped_at = EXCLUDED.scraped_at;
	`
	if _, err := tx.Exec(ctx, query, f.URL, runID, f.Error, f.ScrapedAt.Time); err != nil {
		return fmt.Errorf("failed to save failure for %s: %w", f.URL, err)
	}
	return nil
}

// FindByURL returns whichever of the stored property or failure is more recent.
func (r *PropertyRepoImpl) FindByURL(ctx context.Context, url string) (*entity.ScrapeResult, error) {
	property, err := r.findProperty(ctx, url)
	if err != nil {
		return nil, err
	}
	failure, err := r.findFailure(ctx, url)
	if err != nil {
		return nil, err
	}

	switch {
	case property != nil && (failure == nil || !failure.ScrapedAt.After(property.ScrapedAt.Time)):
		result := entity.Succeeded(*property)
		return &result, nil
	case failure != nil:
		result := entity.Failed(*failure)
		return &result, nil
	}
	return nil, repository.ErrNotFound
}

func (r *PropertyRepoImpl) findProperty(ctx context.Context, url string) (*entity.PropertyRecord, error) {
	query := `
		SELECT url, name, address, amenities, categorized_amenities, total_amenities, scraped_at
		FROM properties
		WHERE url = $1;
	`
	var (
		p           entity.PropertyRecord
		categorized []byte
	)
	err := r.db.QueryRow(ctx, query, url).Scan(
		&p.URL,
		&p.Name,
		&p.Address,
		&p.Amenities,
		&categorized,
		&p.TotalAmenities,
		&p.ScrapedAt.Time,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(categorized, &p.CategorizedAmenities); err != nil {
		return nil, err
	}
	p.ScrapedAt = entity.NewTimestamp(p.ScrapedAt.Time)
	return &p, nil
}

func (r *PropertyRepoImpl) findFailure(ctx context.Context, url string) (*entity.ErrorRecord, error) {
	query := `SELECT url, failure_reason, scraped_at FROM scrape_failures WHERE url = $1;`
	var f entity.ErrorRecord
	err := r.db.QueryRow(ctx, query, url).Scan(&f.URL, &f.Error, &f.ScrapedAt.Time)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.ScrapedAt = entity.NewTimestamp(f.ScrapedAt.Time)
	return &f, nil
}
