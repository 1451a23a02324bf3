package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/errors"
)

var (
	showBookmarkFlag bool
	showAppliedFlag  bool
)

var showCmd = &cobra.Command{
	Use:   "show <rank>",
	Short: "Show the nth-ranked scored posting in detail",
	Long: `Show full details and per-dimension scores of the posting at the
given rank (1 = best overall). Ranks follow the report order over all
scored postings.

Examples:
  vacai show 1               # best match
  vacai show 3 --bookmark    # protect it from cleanup
  vacai show 1 --applied     # mark as applied`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showBookmarkFlag, "bookmark", false, "Bookmark this posting (protected from cleanup)")
	showCmd.Flags().BoolVar(&showAppliedFlag, "applied", false, "Mark this posting as applied (protected from cleanup)")
}

func runShow(cmd *cobra.Command, args []string) error {
	rank, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.NewValidationError("rank must be a number, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	st, database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	sp, err := st.GetScoredByRank(rank)
	if err != nil {
		return err
	}
	p := sp.Posting
	sc := sp.Score

	if showBookmarkFlag {
		if err := st.SetBookmarked(p.ID, true); err != nil {
			return err
		}
		p.Bookmarked = true
	}
	if showAppliedFlag {
		if err := st.SetApplied(p.ID, true); err != nil {
			return err
		}
		p.Applied = true
	}

	pterm.DefaultSection.Printf("#%d  %s", rank, p.Title)
	pterm.Printf("Company:   %s\n", p.Company)
	if p.Location != "" {
		pterm.Printf("Location:  %s\n", p.Location)
	}
	pterm.Printf("URL:       %s\n", p.URL)
	pterm.Printf("Ingested:  %s\n", p.IngestedAt.Local().Format("2006-01-02 15:04"))
	if p.Bookmarked {
		pterm.Printf("Status:    %s\n", pterm.Yellow("bookmarked"))
	}
	if p.Applied {
		pterm.Printf("Status:    %s\n", pterm.Green("applied"))
	}

	pterm.DefaultSection.Println("Scores")
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Overall", pterm.Sprintf("%d", sc.OverallScore)},
		{"Skills match", pterm.Sprintf("%d", sc.SkillsMatch)},
		{"Experience fit", pterm.Sprintf("%d", sc.ExperienceFit)},
		{"Salary alignment", pterm.Sprintf("%d", sc.SalaryAlignment)},
		{"Culture fit", pterm.Sprintf("%d", sc.CultureFit)},
		{"Growth potential", pterm.Sprintf("%d", sc.GrowthPotential)},
	}).Render()

	pterm.Println()
	pterm.Println(sc.Reasoning)
	return nil
}
