package main

import (
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/toolutil"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <channel>...",
	Short: "Resolve channel IDs, URLs and @handles to canonical IDs",
	Long: `Resolve each argument to a canonical channel ID.

IDs and /channel/ URLs are free. A handle costs one channel search
(100 units) and is memoized for the rest of the command.

Examples:
  scout resolve @mkbhd
  scout resolve https://www.youtube.com/@veritasium UCX6OQ3DkcsbYNE6H8uQQuVA
  scout resolve somecreator --speculative`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("speculative", false, "accept the top search hit when no handle matches exactly")
	resolveCmd.Flags().Int("budget", 0, "quota units this command may spend (default QUOTA_BUDGET)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	speculative, _ := cmd.Flags().GetBool("speculative")
	budget, _ := cmd.Flags().GetInt("budget")

	for _, a := range args {
		if _, ok := scout.ExtractCanonicalID(a); !ok {
			if err := requireAPIKey(); err != nil {
				return err
			}
			break
		}
	}

	svc := newService()
	run := toolutil.NewRun(toolutil.QuotaBudget(budget), logger)
	pr := newPrinter(cmd)

	rows := make([][]string, 0, len(args))
	var lookupErr error
	for _, a := range args {
		ref, err := svc.LookupChannel(cmd.Context(), run, a, speculative)
		if err != nil {
			lookupErr = err
			break
		}
		if !ref.Found {
			rows = append(rows, []string{a, "", engine.OrNA(ref.Via), "not found"})
			continue
		}
		rows = append(rows, []string{a, ref.ChannelID, ref.Via, ref.Link})
	}
	if err := pr.table([]string{"Input", "Channel ID", "Via", "Link"}, rows); err != nil {
		return err
	}
	pr.quota(run.Ledger.Used(), run.Ledger.Budget())
	if lookupErr != nil {
		pr.fatal("%v", lookupErr)
		return lookupErr
	}
	return nil
}
