package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/ai/openai"
	"github.com/Neverdecel/VacAI/ai/tracker"
	"github.com/Neverdecel/VacAI/config"
	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/ingest"
	"github.com/Neverdecel/VacAI/logger"
	"github.com/Neverdecel/VacAI/profile"
	"github.com/Neverdecel/VacAI/scraper"
	"github.com/Neverdecel/VacAI/score"
	"github.com/Neverdecel/VacAI/store"
)

var scanMaxJobsFlag int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Fetch, ingest, and score new postings",
	Long: `Fetch postings from all configured sources, deduplicate them into
the store, and score everything pending against your profile.

Examples:
  vacai scan                 # full scan with config defaults
  vacai scan --max-jobs 10   # cap this run's scoring at 10 postings`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanMaxJobsFlag, "max-jobs", 0, "Max postings to score this run (0 = config default)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	st, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	release, err := st.AcquireLock(store.PipelineLock, lockTTL)
	if err != nil {
		return err
	}
	defer release()

	result, err := runPipeline(cmd.Context(), cfg, st, database, scanMaxJobsFlag)
	if err != nil {
		return err
	}

	printPipelineSummary(result)
	if result.partial() {
		return ErrPartial
	}
	return nil
}

// pipelineResult aggregates one scan's outcome across stages
type pipelineResult struct {
	fetched    int
	sourceErrs int
	ingested   ingest.Summary
	scored     score.Summary
	budgetHit  bool
}

func (r pipelineResult) partial() bool {
	return r.sourceErrs > 0 || r.ingested.Invalid > 0 || r.scored.Failed > 0 || r.budgetHit
}

// runPipeline executes fetch, ingest, and score, recording scan history.
// Source failures and individual posting failures degrade the run; only
// store failures abort it.
func runPipeline(ctx context.Context, cfg *config.Config, st *store.Store, database *sql.DB, maxJobsOverride int) (pipelineResult, error) {
	var result pipelineResult

	prof, err := profile.Load(cfg.ProfilePath())
	if err != nil {
		return result, err
	}

	criteria, _ := json.Marshal(map[string]interface{}{"sources": len(cfg.Sources)})
	run := &store.ScanRun{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Criteria:  string(criteria),
	}
	if err := st.RecordScan(run); err != nil {
		return result, err
	}

	// Fetch: every source gets a chance even if one is down
	var batch []scraper.RawPosting
	for _, src := range cfg.Sources {
		source := scraper.NewFeedSource(src.Name, src.Endpoint, scraper.FeedOptions{
			RequestsPerSecond: src.RequestsPerSecond,
			MaxPages:          src.MaxPages,
		})
		postings, err := source.Fetch(ctx)
		if err != nil {
			logger.Warnw("source fetch degraded", "source", src.Name, "error", err)
			result.sourceErrs++
		}
		batch = append(batch, postings...)
	}
	result.fetched = len(batch)

	result.ingested, err = ingest.New(st).Ingest(ctx, batch)
	if err != nil {
		return result, err
	}

	// Score everything pending, not just this batch
	maxJobs := cfg.Scoring.MaxJobsPerRun
	if maxJobsOverride > 0 {
		maxJobs = maxJobsOverride
	}

	usageTracker := tracker.New(database)
	temp := float32(cfg.OpenAI.Temperature)
	client := openai.New(openai.Config{
		APIKey:        cfg.OpenAI.APIKey,
		BaseURL:       cfg.OpenAI.BaseURL,
		Model:         cfg.OpenAI.Model,
		Temperature:   &temp,
		MaxTokens:     &cfg.OpenAI.MaxTokens,
		Logger:        logger.Logger,
		Tracker:       usageTracker,
		OperationType: "job-scoring",
		EntityType:    "posting",
	})

	orchestrator := score.New(st, client, prof, usageTracker, score.Options{
		Workers:        cfg.Scoring.Workers,
		CallsPerMinute: cfg.Scoring.CallsPerMinute,
		DailyBudgetUSD: cfg.Scoring.DailyBudgetUSD,
		Retry: score.RetryPolicy{
			MaxAttempts:    cfg.Scoring.MaxRetries,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
		},
	})

	result.scored, err = orchestrator.ScorePending(ctx, maxJobs)
	if err != nil {
		if errors.Is(err, errors.ErrCapacityReached) {
			// Normal early stop: everything else waits for tomorrow's budget
			result.budgetHit = true
		} else {
			return result, err
		}
	}

	run.PostingsFound = result.fetched
	run.PostingsCreated = result.ingested.Created
	run.PostingsDuplicate = result.ingested.Duplicates
	run.PostingsScored = result.scored.Scored
	run.PostingsFailed = result.scored.Failed
	if err := st.FinishScan(run); err != nil {
		return result, err
	}

	return result, nil
}

func printPipelineSummary(r pipelineResult) {
	pterm.Printf("Fetched:    %d postings", r.fetched)
	if r.sourceErrs > 0 {
		pterm.Printf(" (%s)", pterm.Yellow("some sources degraded"))
	}
	pterm.Println()
	pterm.Printf("Ingested:   %s new, %d duplicates, %d invalid\n",
		pterm.Green(r.ingested.Created), r.ingested.Duplicates, r.ingested.Invalid)
	pterm.Printf("Scored:     %s scored, %d failed, %d skipped\n",
		pterm.Green(r.scored.Scored), r.scored.Failed, r.scored.Skipped)
	if r.budgetHit {
		pterm.Warning.Println("Daily scoring budget exhausted; remaining postings stay pending")
	}
}
