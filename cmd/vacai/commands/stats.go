package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/ai/tracker"
	"github.com/Neverdecel/VacAI/errors"
)

var statsScansFlag int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics, scan history, and model spend",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsScansFlag, "scans", 5, "Number of recent scan runs to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	st, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	stats, err := st.Stats()
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Postings")
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Total", pterm.Sprintf("%d", stats.TotalPostings)},
		{"Scored", pterm.Sprintf("%d", stats.ScoredPostings)},
		{"Pending", pterm.Sprintf("%d", stats.PendingPostings)},
		{"Strong matches (80+)", pterm.Sprintf("%d", stats.StrongMatches)},
		{"Potential matches (60-79)", pterm.Sprintf("%d", stats.PotentialMatches)},
		{"Bookmarked", pterm.Sprintf("%d", stats.Bookmarked)},
		{"Applied", pterm.Sprintf("%d", stats.Applied)},
	}).Render()

	runs, err := st.RecentScans(statsScansFlag)
	if err != nil {
		return err
	}
	if len(runs) > 0 {
		pterm.DefaultSection.Println("Recent scans")
		rows := pterm.TableData{{"Started", "Found", "New", "Dup", "Scored", "Failed"}}
		for _, run := range runs {
			rows = append(rows, []string{
				run.StartedAt.Local().Format("2006-01-02 15:04"),
				pterm.Sprintf("%d", run.PostingsFound),
				pterm.Sprintf("%d", run.PostingsCreated),
				pterm.Sprintf("%d", run.PostingsDuplicate),
				pterm.Sprintf("%d", run.PostingsScored),
				pterm.Sprintf("%d", run.PostingsFailed),
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	}

	// Model spend over the last 30 days
	usage, err := tracker.New(database).GetUsageStats(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return err
	}
	if usage.TotalRequests > 0 {
		pterm.DefaultSection.Println("Model usage (30 days)")
		pterm.DefaultTable.WithData(pterm.TableData{
			{"Requests", pterm.Sprintf("%d", usage.TotalRequests)},
			{"Success rate", pterm.Sprintf("%.0f%%", usage.SuccessRate*100)},
			{"Tokens", pterm.Sprintf("%d", usage.TotalTokens)},
			{"Cost", pterm.Sprintf("$%.4f", usage.TotalCost)},
		}).Render()
	}
	return nil
}
