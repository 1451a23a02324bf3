package score

import (
	"context"
	"time"

	"github.com/Neverdecel/VacAI/errors"
)

// RetryPolicy governs re-submission of a single scoring call. Transient
// failures (rate limits, timeouts, 5xx) get the full attempt budget with
// exponential backoff. A malformed response gets exactly one retry: the
// model occasionally returns broken JSON once, but a second malformed
// reply means the prompt or model is the problem. Everything else fails
// immediately.
type RetryPolicy struct {
	MaxAttempts    int           // total attempts for transient failures
	InitialBackoff time.Duration // doubled after each failed attempt
	MaxBackoff     time.Duration

	sleep func(ctx context.Context, d time.Duration) error // Injectable for testing
}

// DefaultRetryPolicy matches the scoring config defaults
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// Do runs op until it succeeds, exhausts its attempt budget, or hits a
// non-retryable error. The last error is returned unwrapped so callers
// can still classify it.
func (p RetryPolicy) Do(ctx context.Context, op func(context.Context) error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	backoff := p.InitialBackoff
	transientAttempts := 0
	validationAttempts := 0

	for {
		err := op(ctx)
		if err == nil {
			return nil
		}

		switch {
		case errors.IsTransient(err):
			transientAttempts++
			if transientAttempts >= p.MaxAttempts {
				return err
			}
		case errors.IsValidation(err):
			validationAttempts++
			if validationAttempts > 1 {
				return err
			}
		default:
			return err
		}

		if err := sleep(ctx, backoff); err != nil {
			return errors.Wrap(err, "retry interrupted")
		}
		backoff *= 2
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
