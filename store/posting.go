package store

import "time"

// Posting is one deduplicated job listing. The normalized URL is the dedup
// key: exactly one row per distinct normalized URL, ever. A posting is
// created once by ingestion, mutated only to flip bookmarked/applied, and
// deleted only by retention cleanup (never while protected).
type Posting struct {
	ID             int64      `json:"id"`
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
	IngestedAt     time.Time  `json:"ingested_at"`
	Bookmarked     bool       `json:"bookmarked"`
	Applied        bool       `json:"applied"`
}

// Protected reports whether retention cleanup must never delete this posting
func (p *Posting) Protected() bool {
	return p.Bookmarked || p.Applied
}

// Score is the five-dimension evaluation of one posting against the
// candidate profile, plus the declared aggregate. At most one per posting;
// replaced wholesale on re-score, never partially updated.
type Score struct {
	PostingID       int64     `json:"posting_id"`
	SkillsMatch     int       `json:"skills_match"`
	ExperienceFit   int       `json:"experience_fit"`
	SalaryAlignment int       `json:"salary_alignment"`
	CultureFit      int       `json:"culture_fit"`
	GrowthPotential int       `json:"growth_potential"`
	OverallScore    int       `json:"overall_score"`
	Reasoning       string    `json:"reasoning"`
	ScoredAt        time.Time `json:"scored_at"`
}

// ScoredPosting pairs a posting with its score for reporting
type ScoredPosting struct {
	Posting Posting `json:"posting"`
	Score   Score   `json:"score"`
}

// ScanRun records one scan/daily invocation for the stats command
type ScanRun struct {
	ID                int64      `json:"id"`
	RunID             string     `json:"run_id"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
	PostingsFound     int        `json:"postings_found"`
	PostingsCreated   int        `json:"postings_created"`
	PostingsDuplicate int        `json:"postings_duplicate"`
	PostingsScored    int        `json:"postings_scored"`
	PostingsFailed    int        `json:"postings_failed"`
	Criteria          string     `json:"criteria,omitempty"`
}

// Stats summarizes the store for the stats command
type Stats struct {
	TotalPostings    int `json:"total_postings"`
	ScoredPostings   int `json:"scored_postings"`
	PendingPostings  int `json:"pending_postings"`
	StrongMatches    int `json:"strong_matches"`
	PotentialMatches int `json:"potential_matches"`
	Bookmarked       int `json:"bookmarked"`
	Applied          int `json:"applied"`
}
