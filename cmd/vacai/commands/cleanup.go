package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/store"
)

var (
	cleanupDaysFlag         int
	cleanupMinScoreFlag     int
	cleanupStalePendingFlag int
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old, low-scoring postings",
	Long: `Delete postings that are older than the cutoff AND scored below the
threshold. Bookmarked or applied postings are never deleted, and neither
are pending (unscored) ones.

Stale pending postings (never scored, older than N days) are a separate
opt-in policy via --stale-pending-days.

Examples:
  vacai cleanup                          # config defaults (30 days, score < 60)
  vacai cleanup --days 60 --min-score 70
  vacai cleanup --stale-pending-days 90  # also drop long-unscored postings`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDaysFlag, "days", 0, "Age cutoff in days (0 = config default)")
	cleanupCmd.Flags().IntVar(&cleanupMinScoreFlag, "min-score", -1, "Keep postings scoring at or above this (-1 = config default)")
	cleanupCmd.Flags().IntVar(&cleanupStalePendingFlag, "stale-pending-days", 0, "Also delete pending postings older than N days (0 = config default, usually off)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	days := cfg.Cleanup.OlderThanDays
	if cleanupDaysFlag > 0 {
		days = cleanupDaysFlag
	}
	minScore := cfg.Cleanup.MinScore
	if cleanupMinScoreFlag >= 0 {
		minScore = cleanupMinScoreFlag
	}
	stalePendingDays := cfg.Cleanup.StalePendingDays
	if cleanupStalePendingFlag > 0 {
		stalePendingDays = cleanupStalePendingFlag
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

	deleted, err := st.Cleanup(days, minScore)
	if err != nil {
		return err
	}
	pterm.Printf("Deleted %s postings older than %d days scoring below %d\n",
		pterm.Green(deleted), days, minScore)

	if stalePendingDays > 0 {
		stale, err := st.CleanupStalePending(stalePendingDays)
		if err != nil {
			return err
		}
		pterm.Printf("Deleted %s stale pending postings older than %d days\n",
			pterm.Green(stale), stalePendingDays)
	}
	return nil
}
