package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/logger"
	"github.com/Neverdecel/VacAI/notify"
	"github.com/Neverdecel/VacAI/report"
	"github.com/Neverdecel/VacAI/store"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Run the daily digest: scan, score, report, notify",
	Long: `Run the full daily pipeline: fetch and ingest from all sources,
score pending postings, build the match report for the configured
window, and deliver it via Telegram when enabled.

A failed delivery never fails the pipeline; the data is already in the
store and the report can be re-sent with 'vacai send-report'.`,
	RunE: runDaily,
}

func runDaily(cmd *cobra.Command, args []string) error {
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

	result, err := runPipeline(cmd.Context(), cfg, st, database, 0)
	if err != nil {
		return err
	}
	printPipelineSummary(result)

	window := time.Duration(cfg.Report.WindowHours) * time.Hour
	r, err := report.NewBuilder(st).Build(cfg.Report.MinScore, window, cfg.Report.Limit)
	if err != nil {
		return err
	}

	pterm.Println()
	renderReport(r)

	notifyFailed := false
	if cfg.Telegram.Enabled && !r.Empty() {
		notifier, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, notify.TelegramOptions{})
		if err != nil {
			logger.Warnw("telegram not configured, skipping delivery", "error", err)
			notifyFailed = true
		} else if err := notifier.SendReport(cmd.Context(), r); err != nil {
			logger.Warnw("report delivery failed", "error", err)
			notifyFailed = true
		}
	}

	if result.partial() || notifyFailed {
		return ErrPartial
	}
	return nil
}
