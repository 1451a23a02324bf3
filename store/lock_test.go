package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/errors"
)

func TestAcquireLockExclusive(t *testing.T) {
	s := newTestStore(t)

	release, err := s.AcquireLock(PipelineLock, time.Minute)
	require.NoError(t, err)

	// Second acquire while held must fail
	_, err = s.AcquireLock(PipelineLock, time.Minute)
	assert.True(t, errors.Is(err, errors.ErrLockHeld))

	require.NoError(t, release())

	// Released lock can be re-acquired
	release2, err := s.AcquireLock(PipelineLock, time.Minute)
	require.NoError(t, err)
	require.NoError(t, release2())
}

func TestAcquireLockStealsExpired(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.timeNow = func() time.Time { return now }

	_, err := s.AcquireLock(PipelineLock, time.Minute)
	require.NoError(t, err)

	// Simulate a killed process: never released, ttl elapses
	now = now.Add(2 * time.Minute)

	release, err := s.AcquireLock(PipelineLock, time.Minute)
	require.NoError(t, err, "expired lock must be stolen")
	require.NoError(t, release())
}

func TestDifferentLockNamesIndependent(t *testing.T) {
	s := newTestStore(t)

	r1, err := s.AcquireLock("pipeline", time.Minute)
	require.NoError(t, err)
	defer r1()

	r2, err := s.AcquireLock("other", time.Minute)
	require.NoError(t, err)
	defer r2()
}
