package store

import (
	"database/sql"

	"github.com/Neverdecel/VacAI/errors"
)

const scoredColumns = `p.id, p.url, p.title, p.company, p.location, p.description,
	p.source_platform, p.min_salary, p.max_salary, p.salary_currency,
	p.posted_at, p.ingested_at, p.bookmarked, p.applied,
	sc.posting_id, sc.skills_match, sc.experience_fit, sc.salary_alignment,
	sc.culture_fit, sc.growth_potential, sc.overall_score, sc.reasoning, sc.scored_at`

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosting(row rowScanner) (*Posting, error) {
	var p Posting
	var location, description, sourcePlatform, salaryCurrency sql.NullString
	err := row.Scan(
		&p.ID, &p.URL, &p.Title, &p.Company,
		&location, &description, &sourcePlatform,
		&p.MinSalary, &p.MaxSalary, &salaryCurrency,
		&p.PostedAt, &p.IngestedAt, &p.Bookmarked, &p.Applied,
	)
	if err != nil {
		return nil, err
	}
	p.Location = location.String
	p.Description = description.String
	p.SourcePlatform = sourcePlatform.String
	p.SalaryCurrency = salaryCurrency.String
	return &p, nil
}

func scanPostings(rows *sql.Rows) ([]Posting, error) {
	var postings []Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan posting")
		}
		postings = append(postings, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate postings")
	}
	return postings, nil
}

func scanScoredPosting(row rowScanner) (*ScoredPosting, error) {
	var sp ScoredPosting
	var location, description, sourcePlatform, salaryCurrency sql.NullString
	err := row.Scan(
		&sp.Posting.ID, &sp.Posting.URL, &sp.Posting.Title, &sp.Posting.Company,
		&location, &description, &sourcePlatform,
		&sp.Posting.MinSalary, &sp.Posting.MaxSalary, &salaryCurrency,
		&sp.Posting.PostedAt, &sp.Posting.IngestedAt,
		&sp.Posting.Bookmarked, &sp.Posting.Applied,
		&sp.Score.PostingID, &sp.Score.SkillsMatch, &sp.Score.ExperienceFit,
		&sp.Score.SalaryAlignment, &sp.Score.CultureFit, &sp.Score.GrowthPotential,
		&sp.Score.OverallScore, &sp.Score.Reasoning, &sp.Score.ScoredAt,
	)
	if err != nil {
		return nil, err
	}
	sp.Posting.Location = location.String
	sp.Posting.Description = description.String
	sp.Posting.SourcePlatform = sourcePlatform.String
	sp.Posting.SalaryCurrency = salaryCurrency.String
	return &sp, nil
}

func scanScoredPostings(rows *sql.Rows) ([]ScoredPosting, error) {
	var scored []ScoredPosting
	for rows.Next() {
		sp, err := scanScoredPosting(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan scored posting")
		}
		scored = append(scored, *sp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate scored postings")
	}
	return scored, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
