// Package store implements the durable record store for postings and
// scores over SQLite. All mutating operations are transactional; a
// concurrent read never observes a half-written posting/score pair.
package store

import (
	"database/sql"
	"time"

	"github.com/Neverdecel/VacAI/errors"
)

// Store handles persistence of postings, scores, and scan history
type Store struct {
	db      *sql.DB
	timeNow func() time.Time // Injectable for testing
}

// New creates a store over an opened, migrated database handle
func New(db *sql.DB) *Store {
	return &Store{db: db, timeNow: time.Now}
}

// NewWithClock creates a store with an injectable clock (for testing)
func NewWithClock(db *sql.DB, timeNow func() time.Time) *Store {
	return &Store{db: db, timeNow: timeNow}
}

// DB exposes the underlying handle for collaborators that track their own
// tables (usage tracker, migrations)
func (s *Store) DB() *sql.DB {
	return s.db
}

const postingColumns = `id, url, title, company, location, description, source_platform,
	min_salary, max_salary, salary_currency, posted_at, ingested_at, bookmarked, applied`

// InsertPosting inserts a posting keyed by its normalized URL.
// On a URL collision it returns the existing row's id and created=false
// without writing anything: duplicates are the expected steady-state
// outcome of incremental scanning, not an error.
func (s *Store) InsertPosting(p *Posting) (int64, bool, error) {
	ingestedAt := p.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = s.timeNow().UTC()
	}

	res, err := s.db.Exec(`
		INSERT INTO postings (
			url, title, company, location, description, source_platform,
			min_salary, max_salary, salary_currency, posted_at, ingested_at,
			bookmarked, applied
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0)
		ON CONFLICT(url) DO NOTHING`,
		p.URL, p.Title, p.Company,
		nullString(p.Location), nullString(p.Description), nullString(p.SourcePlatform),
		p.MinSalary, p.MaxSalary, nullString(p.SalaryCurrency),
		p.PostedAt, ingestedAt,
	)
	if err != nil {
		return 0, false, errors.Wrap(err, "insert posting")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, errors.Wrap(err, "rows affected")
	}

	if affected == 0 {
		// Duplicate URL: fetch the existing id
		var id int64
		if err := s.db.QueryRow(`SELECT id FROM postings WHERE url = ?`, p.URL).Scan(&id); err != nil {
			return 0, false, errors.Wrap(err, "lookup existing posting")
		}
		return id, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, errors.Wrap(err, "last insert id")
	}
	p.ID = id
	p.IngestedAt = ingestedAt
	return id, true, nil
}

// GetPending returns up to limit postings with no score, oldest ingested
// first (id ascending as tiebreak) so every run makes fair progress.
// limit <= 0 means no limit.
func (s *Store) GetPending(limit int) ([]Posting, error) {
	query := `
		SELECT ` + postingColumns + `
		FROM postings
		WHERE id NOT IN (SELECT posting_id FROM scores)
		ORDER BY ingested_at ASC, id ASC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query pending postings")
	}
	defer rows.Close()

	return scanPostings(rows)
}

// GetPosting retrieves a posting by id
func (s *Store) GetPosting(id int64) (*Posting, error) {
	row := s.db.QueryRow(`SELECT `+postingColumns+` FROM postings WHERE id = ?`, id)
	p, err := scanPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "posting %d", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get posting")
	}
	return p, nil
}

// PutScore persists a score for a posting, replacing any existing score
// wholesale. The delete+insert happens in one transaction so a concurrent
// reader never sees a posting between scores.
func (s *Store) PutScore(postingID int64, score *Score) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.WrapStoreUnavailable(err, "begin put score")
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM postings WHERE id = ?)`, postingID).Scan(&exists); err != nil {
		return errors.Wrap(err, "check posting exists")
	}
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "posting %d", postingID)
	}

	if _, err := tx.Exec(`DELETE FROM scores WHERE posting_id = ?`, postingID); err != nil {
		return errors.Wrap(err, "clear previous score")
	}

	scoredAt := score.ScoredAt
	if scoredAt.IsZero() {
		scoredAt = s.timeNow().UTC()
	}

	_, err = tx.Exec(`
		INSERT INTO scores (
			posting_id, skills_match, experience_fit, salary_alignment,
			culture_fit, growth_potential, overall_score, reasoning, scored_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		postingID, score.SkillsMatch, score.ExperienceFit, score.SalaryAlignment,
		score.CultureFit, score.GrowthPotential, score.OverallScore,
		score.Reasoning, scoredAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert score")
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapStoreUnavailable(err, "commit put score")
	}
	score.PostingID = postingID
	score.ScoredAt = scoredAt
	return nil
}

// GetScoredSince returns scored postings whose score was recorded within
// the window, in the canonical report order: overall score descending,
// then ingested_at descending, then id ascending. window <= 0 means no
// window restriction (comprehensive mode).
func (s *Store) GetScoredSince(window time.Duration) ([]ScoredPosting, error) {
	query := `
		SELECT ` + scoredColumns + `
		FROM postings p
		JOIN scores sc ON sc.posting_id = p.id`
	args := []interface{}{}
	if window > 0 {
		query += ` WHERE sc.scored_at >= ?`
		args = append(args, s.timeNow().UTC().Add(-window))
	}
	query += ` ORDER BY sc.overall_score DESC, p.ingested_at DESC, p.id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query scored postings")
	}
	defer rows.Close()

	return scanScoredPostings(rows)
}

// GetScoredByRank returns the posting at 1-based rank in the canonical
// report order over all scored postings.
func (s *Store) GetScoredByRank(rank int) (*ScoredPosting, error) {
	if rank < 1 {
		return nil, errors.NewValidationError("rank must be >= 1, got %d", rank)
	}
	row := s.db.QueryRow(`
		SELECT `+scoredColumns+`
		FROM postings p
		JOIN scores sc ON sc.posting_id = p.id
		ORDER BY sc.overall_score DESC, p.ingested_at DESC, p.id ASC
		LIMIT 1 OFFSET ?`, rank-1)

	sp, err := scanScoredPosting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(errors.ErrNotFound, "no scored posting at rank %d", rank)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get scored posting by rank")
	}
	return sp, nil
}

// SetBookmarked flips the bookmarked flag on a posting
func (s *Store) SetBookmarked(id int64, value bool) error {
	return s.setFlag(id, "bookmarked", value)
}

// SetApplied flips the applied flag on a posting
func (s *Store) SetApplied(id int64, value bool) error {
	return s.setFlag(id, "applied", value)
}

func (s *Store) setFlag(id int64, column string, value bool) error {
	// column is one of two compile-time constants, never user input
	res, err := s.db.Exec(`UPDATE postings SET `+column+` = ? WHERE id = ?`, value, id)
	if err != nil {
		return errors.Wrapf(err, "set %s", column)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrapf(errors.ErrNotFound, "posting %d", id)
	}
	return nil
}

// Cleanup deletes postings that are older than olderThanDays, scored below
// minScore, and not bookmarked or applied. Pending postings never match
// (they have no score row). Runs as a single transactional DELETE; the
// returned count equals exactly the rows removed. Scores cascade.
func (s *Store) Cleanup(olderThanDays int, minScore int) (int64, error) {
	cutoff := s.timeNow().UTC().AddDate(0, 0, -olderThanDays)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.WrapStoreUnavailable(err, "begin cleanup")
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM postings
		WHERE ingested_at < ?
		  AND bookmarked = 0
		  AND applied = 0
		  AND id IN (SELECT posting_id FROM scores WHERE overall_score < ?)`,
		cutoff, minScore,
	)
	if err != nil {
		return 0, errors.Wrap(err, "delete old low-scoring postings")
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.WrapStoreUnavailable(err, "commit cleanup")
	}
	return deleted, nil
}

// CleanupStalePending deletes never-scored postings older than
// olderThanDays. This is a separate, explicitly-invoked policy: the
// standard Cleanup predicate can never touch pending postings.
func (s *Store) CleanupStalePending(olderThanDays int) (int64, error) {
	cutoff := s.timeNow().UTC().AddDate(0, 0, -olderThanDays)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, errors.WrapStoreUnavailable(err, "begin stale-pending cleanup")
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM postings
		WHERE ingested_at < ?
		  AND bookmarked = 0
		  AND applied = 0
		  AND id NOT IN (SELECT posting_id FROM scores)`,
		cutoff,
	)
	if err != nil {
		return 0, errors.Wrap(err, "delete stale pending postings")
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.WrapStoreUnavailable(err, "commit stale-pending cleanup")
	}
	return deleted, nil
}

// Stats returns store-wide counters for the stats command
func (s *Store) Stats() (*Stats, error) {
	var st Stats
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM postings),
			(SELECT COUNT(*) FROM scores),
			(SELECT COUNT(*) FROM postings WHERE id NOT IN (SELECT posting_id FROM scores)),
			(SELECT COUNT(*) FROM scores WHERE overall_score >= 80),
			(SELECT COUNT(*) FROM scores WHERE overall_score >= 60 AND overall_score < 80),
			(SELECT COUNT(*) FROM postings WHERE bookmarked = 1),
			(SELECT COUNT(*) FROM postings WHERE applied = 1)`,
	).Scan(
		&st.TotalPostings, &st.ScoredPostings, &st.PendingPostings,
		&st.StrongMatches, &st.PotentialMatches, &st.Bookmarked, &st.Applied,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query stats")
	}
	return &st, nil
}

// RecordScan inserts a scan history row at the start of a run
func (s *Store) RecordScan(run *ScanRun) error {
	res, err := s.db.Exec(`
		INSERT INTO scan_history (
			run_id, started_at, postings_found, postings_created,
			postings_duplicate, postings_scored, postings_failed, criteria
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt,
		run.PostingsFound, run.PostingsCreated, run.PostingsDuplicate,
		run.PostingsScored, run.PostingsFailed, nullString(run.Criteria),
	)
	if err != nil {
		return errors.Wrap(err, "record scan")
	}
	run.ID, _ = res.LastInsertId()
	return nil
}

// FinishScan updates the scan history row with final counts
func (s *Store) FinishScan(run *ScanRun) error {
	finishedAt := s.timeNow().UTC()
	_, err := s.db.Exec(`
		UPDATE scan_history
		SET finished_at = ?,
		    postings_found = ?,
		    postings_created = ?,
		    postings_duplicate = ?,
		    postings_scored = ?,
		    postings_failed = ?
		WHERE run_id = ?`,
		finishedAt,
		run.PostingsFound, run.PostingsCreated, run.PostingsDuplicate,
		run.PostingsScored, run.PostingsFailed,
		run.RunID,
	)
	if err != nil {
		return errors.Wrap(err, "finish scan")
	}
	run.FinishedAt = &finishedAt
	return nil
}

// RecentScans returns the most recent scan runs, newest first
func (s *Store) RecentScans(limit int) ([]ScanRun, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, started_at, finished_at, postings_found,
		       postings_created, postings_duplicate, postings_scored,
		       postings_failed, criteria
		FROM scan_history
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query recent scans")
	}
	defer rows.Close()

	var runs []ScanRun
	for rows.Next() {
		var r ScanRun
		var criteria sql.NullString
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.StartedAt, &r.FinishedAt,
			&r.PostingsFound, &r.PostingsCreated, &r.PostingsDuplicate,
			&r.PostingsScored, &r.PostingsFailed, &criteria,
		); err != nil {
			return nil, errors.Wrap(err, "scan history row")
		}
		r.Criteria = criteria.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate scan history")
	}
	return runs, nil
}
