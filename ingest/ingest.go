package ingest

import (
	"context"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/logger"
	"github.com/Neverdecel/VacAI/scraper"
	"github.com/Neverdecel/VacAI/store"
)

// Summary reports the outcome of one ingestion batch. Every input
// posting is accounted for in exactly one counter.
type Summary struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// Total returns the number of postings processed
func (s Summary) Total() int {
	return s.Created + s.Duplicates + s.Invalid
}

// Ingestor validates, normalizes, and persists raw postings
type Ingestor struct {
	store *store.Store
}

// New creates an ingestor over the record store
func New(s *store.Store) *Ingestor {
	return &Ingestor{store: s}
}

// Ingest processes a batch of raw postings. Invalid postings (missing
// url/title/company, unnormalizable URL) are logged and skipped, never
// fatal. Duplicate URLs are counted, not re-written: the first sighting
// wins. The error return is reserved for store failures.
func (ing *Ingestor) Ingest(ctx context.Context, batch []scraper.RawPosting) (Summary, error) {
	var sum Summary
	for i := range batch {
		if err := ctx.Err(); err != nil {
			return sum, errors.Wrap(err, "ingestion interrupted")
		}

		raw := &batch[i]
		posting, err := validate(raw)
		if err != nil {
			sum.Invalid++
			logger.Warnw("skipping invalid posting",
				"url", raw.URL, "title", raw.Title, "error", err)
			continue
		}

		_, created, err := ing.store.InsertPosting(posting)
		if err != nil {
			return sum, errors.Wrap(err, "persist posting")
		}
		if created {
			sum.Created++
		} else {
			sum.Duplicates++
			logger.Debugw("duplicate posting", "url", posting.URL)
		}
	}
	return sum, nil
}

// validate turns a raw posting into a store record or a validation error
func validate(raw *scraper.RawPosting) (*store.Posting, error) {
	if raw.Title == "" {
		return nil, errors.NewValidationError("missing title")
	}
	if raw.Company == "" {
		return nil, errors.NewValidationError("missing company")
	}
	normalized, err := NormalizeURL(raw.URL)
	if err != nil {
		return nil, err
	}
	return &store.Posting{
		URL:            normalized,
		Title:          raw.Title,
		Company:        raw.Company,
		Location:       raw.Location,
		Description:    raw.Description,
		SourcePlatform: raw.SourcePlatform,
		MinSalary:      raw.MinSalary,
		MaxSalary:      raw.MaxSalary,
		SalaryCurrency: raw.SalaryCurrency,
		PostedAt:       raw.PostedAt,
	}, nil
}
