// Package scraper defines the job-feed collaborator boundary. Sources
// fetch raw postings from external platforms; everything downstream of
// ingestion works only with deduplicated store records.
package scraper

import (
	"context"
	"time"
)

// RawPosting is an unvalidated posting as delivered by a source. URL,
// Title, and Company are required downstream; everything else is
// best-effort.
type RawPosting struct {
	URL            string     `json:"url"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location,omitempty"`
	Description    string     `json:"description,omitempty"`
	SourcePlatform string     `json:"source_platform,omitempty"`
	MinSalary      *float64   `json:"min_salary,omitempty"`
	MaxSalary      *float64   `json:"max_salary,omitempty"`
	SalaryCurrency string     `json:"salary_currency,omitempty"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
}

// Source fetches postings from one external platform
type Source interface {
	// Name identifies the platform (stamped into SourcePlatform and logs)
	Name() string

	// Fetch retrieves the current batch of postings. A source failure is
	// transient from the pipeline's point of view: the run degrades, it
	// does not abort.
	Fetch(ctx context.Context) ([]RawPosting, error)
}
