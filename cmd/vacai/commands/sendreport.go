package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/notify"
)

var sendReportCmd = &cobra.Command{
	Use:   "send-report",
	Short: "Deliver the match report via Telegram",
	Long: `Build the match report and send it to the configured Telegram chat.
Takes the same selection flags as 'vacai report'.

Examples:
  vacai send-report                    # last 24h
  vacai send-report --comprehensive   # everything ever scored`,
	RunE: runSendReport,
}

func init() {
	// Selection flags shared with the report command
	sendReportCmd.Flags().IntVar(&reportMinScoreFlag, "min-score", -1, "Selection floor 0-100 (-1 = config default)")
	sendReportCmd.Flags().IntVar(&reportWindowHoursFlag, "window-hours", 0, "Only postings scored in the last N hours (0 = config default)")
	sendReportCmd.Flags().IntVar(&reportLimitFlag, "limit", 0, "Max postings per bucket (0 = config default)")
	sendReportCmd.Flags().BoolVar(&reportComprehensiveFlag, "comprehensive", false, "Ignore the window, rank everything ever scored")
}

func runSendReport(cmd *cobra.Command, args []string) error {
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
	if r.Empty() {
		pterm.Info.Println("Nothing to send: no matches in this period")
		return nil
	}

	notifier, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, notify.TelegramOptions{})
	if err != nil {
		return err
	}
	if err := notifier.SendReport(cmd.Context(), r); err != nil {
		return err
	}

	pterm.Success.Printf("Report sent: %d strong, %d potential\n", len(r.Strong), len(r.Potential))
	return nil
}
