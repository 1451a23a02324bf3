// Package report builds the ranked match report from scored postings.
// Ordering is deterministic: overall score descending, then ingestion
// time descending, then id ascending. Two runs over the same data always
// produce the same report.
package report

import (
	"time"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/store"
)

// Bucket thresholds. A posting scoring 59 with a low minScore is
// selected and counted but lands in neither bucket.
const (
	StrongThreshold    = 80
	PotentialThreshold = 60
)

// Report is the ranked output of one build
type Report struct {
	Strong      []store.ScoredPosting `json:"strong"`
	Potential   []store.ScoredPosting `json:"potential"`
	TotalCount  int                   `json:"total_count"`
	MinScore    int                   `json:"min_score"`
	Window      time.Duration         `json:"window"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Builder assembles reports from the record store
type Builder struct {
	store   *store.Store
	timeNow func() time.Time
}

// NewBuilder creates a report builder
func NewBuilder(s *store.Store) *Builder {
	return &Builder{store: s, timeNow: time.Now}
}

// Build selects postings scored within the window (window <= 0 means all
// time) with overall >= minScore, buckets them, and truncates each
// bucket to limit entries after sorting (limit <= 0 means no truncation).
func (b *Builder) Build(minScore int, window time.Duration, limit int) (*Report, error) {
	if minScore < 0 || minScore > 100 {
		return nil, errors.NewValidationError("min score must be 0-100, got %d", minScore)
	}

	scored, err := b.store.GetScoredSince(window)
	if err != nil {
		return nil, errors.Wrap(err, "select scored postings")
	}

	r := &Report{
		MinScore:    minScore,
		Window:      window,
		GeneratedAt: b.timeNow().UTC(),
	}

	// GetScoredSince returns canonical order; bucketing preserves it
	for _, sp := range scored {
		overall := sp.Score.OverallScore
		if overall < minScore {
			continue
		}
		r.TotalCount++
		switch {
		case overall >= StrongThreshold:
			r.Strong = append(r.Strong, sp)
		case overall >= PotentialThreshold:
			r.Potential = append(r.Potential, sp)
		}
	}

	if limit > 0 {
		if len(r.Strong) > limit {
			r.Strong = r.Strong[:limit]
		}
		if len(r.Potential) > limit {
			r.Potential = r.Potential[:limit]
		}
	}
	return r, nil
}

// Empty reports whether the report has nothing to show
func (r *Report) Empty() bool {
	return r.TotalCount == 0
}
