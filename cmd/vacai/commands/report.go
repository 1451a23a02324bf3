package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/report"
	"github.com/Neverdecel/VacAI/store"
)

var (
	reportMinScoreFlag      int
	reportWindowHoursFlag   int
	reportLimitFlag         int
	reportComprehensiveFlag bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the ranked match report",
	Long: `Rank scored postings and bucket them into strong (80+) and
potential (60-79) matches. Output order is deterministic: overall score
descending, newest ingestion first on ties.

Examples:
  vacai report                      # last 24h, config defaults
  vacai report --comprehensive     # all scored postings ever
  vacai report --min-score 75      # raise the selection floor`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportMinScoreFlag, "min-score", -1, "Selection floor 0-100 (-1 = config default)")
	reportCmd.Flags().IntVar(&reportWindowHoursFlag, "window-hours", 0, "Only postings scored in the last N hours (0 = config default)")
	reportCmd.Flags().IntVar(&reportLimitFlag, "limit", 0, "Max postings per bucket (0 = config default)")
	reportCmd.Flags().BoolVar(&reportComprehensiveFlag, "comprehensive", false, "Ignore the window, rank everything ever scored")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	st, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	r, err := buildReport(st, cfg.Report.MinScore, cfg.Report.WindowHours, cfg.Report.Limit)
	if err != nil {
		return err
	}

	renderReport(r)
	return nil
}

// buildReport resolves flags against config defaults and builds
func buildReport(st *store.Store, defaultMinScore, defaultWindowHours, defaultLimit int) (*report.Report, error) {
	minScore := defaultMinScore
	if reportMinScoreFlag >= 0 {
		minScore = reportMinScoreFlag
	}
	windowHours := defaultWindowHours
	if reportWindowHoursFlag > 0 {
		windowHours = reportWindowHoursFlag
	}
	limit := defaultLimit
	if reportLimitFlag > 0 {
		limit = reportLimitFlag
	}

	window := time.Duration(windowHours) * time.Hour
	if reportComprehensiveFlag {
		window = 0
	}
	return report.NewBuilder(st).Build(minScore, window, limit)
}

// renderReport prints a report with pterm tables
func renderReport(r *report.Report) {
	if r.Empty() {
		pterm.Info.Println("No matches in this period")
		return
	}

	if len(r.Strong) > 0 {
		pterm.DefaultSection.Printf("Strong matches (%d)", len(r.Strong))
		renderBucket(r.Strong)
	}
	if len(r.Potential) > 0 {
		pterm.DefaultSection.Printf("Potential matches (%d)", len(r.Potential))
		renderBucket(r.Potential)
	}
	pterm.Printf("\n%d postings evaluated\n", r.TotalCount)
}

func renderBucket(bucket []store.ScoredPosting) {
	rows := pterm.TableData{{"Score", "Title", "Company", "Location", "URL"}}
	for _, sp := range bucket {
		rows = append(rows, []string{
			pterm.Sprintf("%d", sp.Score.OverallScore),
			sp.Posting.Title,
			sp.Posting.Company,
			sp.Posting.Location,
			sp.Posting.URL,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
