package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/toolutil"
)

var averageCmd = &cobra.Command{
	Use:   "average <channel>",
	Short: "Show one channel's trailing average views",
	Long: `Resolve a channel, fetch its subscriber and view counts and compute the
average views per video over the last N days.

Examples:
  scout average @mkbhd
  scout average UCX6OQ3DkcsbYNE6H8uQQuVA --window-days 7 --verify-order`,
	Args: cobra.ExactArgs(1),
	RunE: runAverage,
}

func init() {
	rootCmd.AddCommand(averageCmd)
	averageCmd.Flags().Int("window-days", scout.DefaultWindowDays, "trailing window in days (1-90)")
	averageCmd.Flags().Int("max-videos", scout.DefaultMaxVideosScan, "upload feed items inspected (20-500)")
	averageCmd.Flags().Bool("verify-order", false, "scan the feed fully instead of stopping at the first old video")
	averageCmd.Flags().Int("budget", 0, "quota units this command may spend (default QUOTA_BUDGET)")
}

func runAverage(cmd *cobra.Command, args []string) error {
	p := scout.DefaultParams()
	p.Keywords = args
	p.WindowDays, _ = cmd.Flags().GetInt("window-days")
	p.MaxVideosScan, _ = cmd.Flags().GetInt("max-videos")
	if err := p.Normalize(); err != nil {
		return err
	}
	if err := requireAPIKey(); err != nil {
		return err
	}
	verify, _ := cmd.Flags().GetBool("verify-order")
	budget, _ := cmd.Flags().GetInt("budget")

	run := toolutil.NewRun(toolutil.QuotaBudget(budget), logger)
	sum, err := newService().ChannelAverage(cmd.Context(), run, args[0], p.WindowDays, p.MaxVideosScan, verify)
	pr := newPrinter(cmd)
	if err != nil {
		pr.quota(run.Ledger.Used(), run.Ledger.Budget())
		return err
	}

	avg := "no videos in window"
	if v, ok := sum.Average.Value(); ok {
		avg = humanize.Comma(v)
	}
	m := sum.Metrics
	rows := [][]string{
		{"Channel", m.Title},
		{"Channel ID", m.ID},
		{"Handle", engine.OrNA(m.Handle)},
		{"Country", engine.OrNA(m.Country)},
		{"Subscribers", humanize.Comma(m.Subscribers)},
		{"Total views", humanize.Comma(m.Views)},
		{fmt.Sprintf("Avg views (%dd)", sum.WindowDays), avg},
		{"Videos counted", fmt.Sprintf("%d of %d inspected", sum.Average.Samples, sum.Average.Inspected)},
		{"Link", sum.Ref.Link},
	}
	if err := pr.table([]string{"Field", "Value"}, rows); err != nil {
		return err
	}
	if n := sum.Average.OrderViolations; n > 0 {
		pr.warn("upload feed was out of order %d times", n)
	}
	pr.quota(run.Ledger.Used(), run.Ledger.Budget())
	return nil
}
