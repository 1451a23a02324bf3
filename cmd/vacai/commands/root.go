// Package commands implements the vacai command surface. Exit statuses:
// 0 everything succeeded, 2 the run completed but some items were
// skipped or failed (ErrPartial), 1 fatal (store unreachable, bad
// config, held lock).
package commands

import (
	"database/sql"
	"time"

	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/config"
	"github.com/Neverdecel/VacAI/db"
	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/logger"
	"github.com/Neverdecel/VacAI/store"
)

// ErrPartial marks a run that completed with skipped or failed items.
// main translates it to exit status 2.
var ErrPartial = errors.New("completed with failures")

// lockTTL bounds how long a crashed invocation can block the next one
const lockTTL = 30 * time.Minute

var configFileFlag string

var rootCmd = &cobra.Command{
	Use:   "vacai",
	Short: "VacAI - AI-powered job search pipeline",
	Long: `VacAI - job posting ingestion, AI scoring, and match reporting.

Postings are scraped from configured feeds, deduplicated by URL, scored
against your candidate profile by an LLM, and ranked into reports.

Typical flow:
  vacai init --resume resume.txt   # analyze resume into a profile
  vacai scan                       # fetch, ingest, and score postings
  vacai report                     # show ranked matches
  vacai daily                      # scan + score + report + notify
  vacai cleanup                    # retention: drop old low scorers`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFileFlag, "config", "", "Path to config file (default: merged vacai.toml chain)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sendReportCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig honors --config, otherwise the merged chain
func loadConfig() (*config.Config, error) {
	if configFileFlag != "" {
		return config.LoadFromFile(configFileFlag)
	}
	return config.Load()
}

// openStore opens and migrates the database, returning the store and the
// raw handle (for the usage tracker)
func openStore(cfg *config.Config) (*store.Store, *sql.DB, error) {
	database, err := db.Open(cfg.Database.Path, logger.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, nil, err
	}
	return store.New(database), database, nil
}
