package store

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Neverdecel/VacAI/db"
	"github.com/Neverdecel/VacAI/errors"
)

// PipelineLock is the lock name shared by all commands that mutate the
// store. Taking it prevents a cleanup from racing a scoring run.
const PipelineLock = "pipeline"

// AcquireLock takes the named advisory lock for at most ttl. It returns a
// release func that must be called (deferred) when the invocation finishes.
// A lock left behind by a killed process is stolen once its ttl expires.
// Returns ErrLockHeld if another live invocation holds the lock.
func (s *Store) AcquireLock(name string, ttl time.Duration) (func() error, error) {
	holder := uuid.NewString() + "@pid:" + strconv.Itoa(os.Getpid())
	now := s.timeNow().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errors.WrapStoreUnavailable(err, "begin lock acquire")
	}
	defer tx.Rollback()

	// Steal expired locks before trying to insert
	if _, err := tx.Exec(`DELETE FROM run_locks WHERE name = ? AND expires_at <= ?`, name, now); err != nil {
		return nil, errors.Wrap(err, "reap expired lock")
	}

	_, err = tx.Exec(`
		INSERT INTO run_locks (name, holder, acquired_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		name, holder, now, now.Add(ttl),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, errors.Wrapf(errors.ErrLockHeld, "lock %q", name)
		}
		return nil, errors.Wrap(err, "acquire lock")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.WrapStoreUnavailable(err, "commit lock acquire")
	}

	release := func() error {
		_, err := s.db.Exec(`DELETE FROM run_locks WHERE name = ? AND holder = ?`, name, holder)
		if err != nil {
			return errors.Wrap(err, "release lock")
		}
		return nil
	}
	return release, nil
}
