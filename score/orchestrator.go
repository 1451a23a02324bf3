// Package score implements the scoring orchestrator: it selects pending
// postings, evaluates each against the candidate profile via the model
// client, and persists validated scores. One posting failing never stops
// the batch; a posting that already has a score is never re-submitted.
package score

import (
	"context"
	"sync"
	"time"

	"github.com/Neverdecel/VacAI/ai"
	"github.com/Neverdecel/VacAI/ai/tracker"
	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/logger"
	"github.com/Neverdecel/VacAI/profile"
	"github.com/Neverdecel/VacAI/store"
)

// Summary reports the outcome of one scoring run
type Summary struct {
	Scored  int `json:"scored"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Options configures the orchestrator
type Options struct {
	Workers        int     // concurrent scoring calls, default 2
	CallsPerMinute int     // sliding-window rate limit, default 20
	DailyBudgetUSD float64 // 0 = unlimited
	Retry          RetryPolicy
	TimeNow        func() time.Time // Injectable for testing
}

// Orchestrator scores pending postings against the candidate profile
type Orchestrator struct {
	store   *store.Store
	client  ai.Client
	profile *profile.CandidateProfile
	tracker *tracker.UsageTracker // nil = no budget accounting
	limiter *Limiter
	retry   RetryPolicy
	opts    Options
	timeNow func() time.Time
}

// New creates an orchestrator. tracker may be nil, in which case the
// daily budget check is skipped.
func New(s *store.Store, client ai.Client, prof *profile.CandidateProfile, tr *tracker.UsageTracker, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.CallsPerMinute <= 0 {
		opts.CallsPerMinute = 20
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	timeNow := opts.TimeNow
	if timeNow == nil {
		timeNow = time.Now
	}
	return &Orchestrator{
		store:   s,
		client:  client,
		profile: prof,
		tracker: tr,
		limiter: NewLimiterWithClock(opts.CallsPerMinute, timeNow),
		retry:   opts.Retry,
		opts:    opts,
		timeNow: timeNow,
	}
}

// ScorePending scores up to maxJobs pending postings. maxJobs <= 0 means
// all pending. The returned summary accounts for every selected posting;
// the error return is reserved for store failures and an exhausted
// budget (ErrCapacityReached), never for individual posting failures.
func (o *Orchestrator) ScorePending(ctx context.Context, maxJobs int) (Summary, error) {
	var sum Summary

	if err := o.checkBudget(); err != nil {
		return sum, err
	}

	pending, err := o.store.GetPending(maxJobs)
	if err != nil {
		return sum, errors.Wrap(err, "select pending postings")
	}
	if len(pending) == 0 {
		logger.Info("no pending postings to score")
		return sum, nil
	}

	logger.Infow("scoring pending postings",
		"count", len(pending), "workers", o.opts.Workers, "model", o.client.Model())

	jobs := make(chan *store.Posting)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < o.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for posting := range jobs {
				outcome := o.scoreOne(ctx, posting)
				mu.Lock()
				switch outcome {
				case outcomeScored:
					sum.Scored++
				case outcomeSkipped:
					sum.Skipped++
				default:
					sum.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for i := range pending {
		select {
		case <-ctx.Done():
			// Stop feeding; in-flight workers finish their posting
			close(jobs)
			wg.Wait()
			return sum, errors.Wrap(ctx.Err(), "scoring interrupted")
		case jobs <- &pending[i]:
		}
	}
	close(jobs)
	wg.Wait()

	logger.Infow("scoring run finished",
		"scored", sum.Scored, "failed", sum.Failed, "skipped", sum.Skipped)
	return sum, nil
}

type outcome int

const (
	outcomeScored outcome = iota
	outcomeFailed
	outcomeSkipped
)

// scoreOne evaluates a single posting end to end
func (o *Orchestrator) scoreOne(ctx context.Context, posting *store.Posting) outcome {
	if posting.Description == "" {
		logger.Debugw("skipping posting without description",
			"posting_id", posting.ID, "url", posting.URL)
		return outcomeSkipped
	}

	userPrompt := buildUserPrompt(o.profile, posting)

	var result *store.Score
	err := o.retry.Do(ctx, func(ctx context.Context) error {
		if err := o.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limit wait")
		}
		resp, err := o.client.Chat(ctx, ai.ChatRequest{
			SystemPrompt: scoringSystemPrompt,
			UserPrompt:   userPrompt,
		})
		if err != nil {
			return err
		}
		result, err = parseScoreResponse(resp.Content)
		return err
	})
	if err != nil {
		logger.Warnw("failed to score posting",
			"posting_id", posting.ID, "title", posting.Title, "error", err)
		return outcomeFailed
	}

	if err := o.store.PutScore(posting.ID, result); err != nil {
		logger.Errorw("failed to persist score",
			"posting_id", posting.ID, "error", err)
		return outcomeFailed
	}

	logger.Infow("scored posting",
		"posting_id", posting.ID, "title", posting.Title,
		"company", posting.Company, "overall", result.OverallScore)
	return outcomeScored
}

// checkBudget compares spend since local midnight against the daily
// budget. Hitting the budget is a normal early stop, reported as
// ErrCapacityReached so the command layer can exit partial rather than
// fatal.
func (o *Orchestrator) checkBudget() error {
	if o.opts.DailyBudgetUSD <= 0 || o.tracker == nil {
		return nil
	}
	now := o.timeNow()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	spent, err := o.tracker.CostSince(midnight)
	if err != nil {
		return errors.Wrap(err, "check daily budget")
	}
	if spent >= o.opts.DailyBudgetUSD {
		logger.Warnw("daily scoring budget exhausted",
			"spent_usd", spent, "budget_usd", o.opts.DailyBudgetUSD)
		return errors.Wrapf(errors.ErrCapacityReached,
			"daily budget $%.2f spent ($%.4f)", o.opts.DailyBudgetUSD, spent)
	}
	return nil
}
