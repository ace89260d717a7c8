package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/tabular"
	"github.com/anatolykoptev/go_scout/internal/toolutil"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords...]",
	Short: "Discover creators by keyword",
	Long: `Search YouTube for each keyword, enrich the channels found, filter them by
subscribers and lifetime views, then rank the survivors by average views
over the trailing window.

Keywords may be given as separate arguments or comma/newline separated.
A search page costs 100 quota units; channel, feed and video lookups cost 1.

Examples:
  scout search unboxing
  scout search "asmr, mukbang" --mode channel --max-pages 2
  scout search asmr --min-subs 0 --max-subs 0     # No subscriber bounds
  scout search asmr --exclude @known --exclude-csv bloggers.csv
  scout search asmr --roster --save --out asmr.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.String("mode", string(scout.ModeVideo), "video (channels behind matching videos) or channel (match channel names)")
	f.Int("max-pages", scout.DefaultMaxPages, "search pages per keyword (1-10)")
	f.Int("max-candidates", scout.DefaultMaxCandidates, "max channels per keyword (1-5000)")
	f.Int64("min-subs", scout.DefaultMinSubs, "minimum subscribers")
	f.Int64("max-subs", scout.DefaultMaxSubs, "maximum subscribers, 0 = no limit")
	f.Int64("min-views", scout.DefaultMinTotalViews, "minimum lifetime views")
	f.Int64("min-avg-views", scout.DefaultMinAvgViews, "minimum average views per video in the window")
	f.Int("window-days", scout.DefaultWindowDays, "trailing window in days (1-90)")
	f.Int("max-videos", scout.DefaultMaxVideosScan, "upload feed items inspected per channel (20-500)")
	f.Int("budget", 0, "quota units this run may spend (default QUOTA_BUDGET)")
	f.StringSlice("exclude", nil, "channel ID, URL or @handle to skip (repeatable)")
	f.StringSlice("exclude-csv", nil, "CSV exclusion table (repeatable)")
	f.Bool("roster", false, "also exclude every channel saved in the roster")
	f.Bool("resolve-handles", false, "resolve excluded @handles to channel IDs (costs quota)")
	f.Int("resolve-limit", scout.DefaultResolveLimit, "max handles to resolve")
	f.Bool("bare-tokens", false, "treat lone words in exclusion tables as handles")
	f.Bool("match-titles", false, "also skip channels whose title matches an excluded title")
	f.Bool("no-speculative", false, "never accept the top search hit for an unmatched handle")
	f.Bool("verify-order", false, "scan upload feeds fully instead of stopping at the first old video")
	f.Bool("save", false, "save found channels to the roster")
	f.String("out", "", "write results to this CSV file")
	f.Bool("json", false, "print the run report as JSON")
}

// searchInput maps flags onto the shared tool input. Thresholds are only
// set when given so that defaults stay in one place.
func searchInput(cmd *cobra.Command, args []string) engine.CreatorSearchInput {
	f := cmd.Flags()
	in := engine.CreatorSearchInput{Keywords: strings.Join(args, "\n")}
	in.Mode, _ = f.GetString("mode")
	in.MaxPages, _ = f.GetInt("max-pages")
	in.MaxCandidates, _ = f.GetInt("max-candidates")
	in.WindowDays, _ = f.GetInt("window-days")
	in.MaxVideos, _ = f.GetInt("max-videos")
	in.QuotaBudget, _ = f.GetInt("budget")
	in.Resolve, _ = f.GetBool("resolve-handles")
	in.ResolveLimit, _ = f.GetInt("resolve-limit")
	in.BareTokens, _ = f.GetBool("bare-tokens")
	in.NoSpeculative, _ = f.GetBool("no-speculative")
	in.VerifyOrder, _ = f.GetBool("verify-order")
	in.MatchTitles, _ = f.GetBool("match-titles")
	in.MinSubs = changedInt64(cmd, "min-subs")
	in.MaxSubs = changedInt64(cmd, "max-subs")
	in.MinViews = changedInt64(cmd, "min-views")
	in.MinAvgViews = changedInt64(cmd, "min-avg-views")
	return in
}

func changedInt64(cmd *cobra.Command, name string) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt64(name)
	return &v
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p := toolutil.ParamsFromInput(searchInput(cmd, args))
	if len(p.Keywords) == 0 {
		return errors.New("no keywords given")
	}
	if err := p.Normalize(); err != nil {
		return err
	}
	if err := requireAPIKey(); err != nil {
		return err
	}

	useRoster, _ := cmd.Flags().GetBool("roster")
	save, _ := cmd.Flags().GetBool("save")
	var roster *scout.Roster
	if useRoster || save {
		r, err := openRoster()
		if err != nil {
			return err
		}
		defer r.Close()
		roster = r
	}

	src := toolutil.ExclusionSources{}
	src.Entries, _ = cmd.Flags().GetStringSlice("exclude")
	src.CSVPaths, _ = cmd.Flags().GetStringSlice("exclude-csv")
	if useRoster {
		src.Roster = roster
	}
	tables, err := toolutil.ExclusionTables(ctx, src)
	if err != nil {
		return err
	}

	run := toolutil.NewRun(p.QuotaBudget, logger)
	rep, err := newService().Run(ctx, run, p, tables...)
	if err != nil && !engine.IsQuotaExceeded(err) {
		return err
	}

	pr := newPrinter(cmd)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(pr.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		printSearchReport(pr, rep)
		if len(rep.Rows) > 0 {
			if err := pr.resultTable(rep.Rows); err != nil {
				return err
			}
		}
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" && len(rep.Rows) > 0 {
		if err := tabular.WriteCSVFile(out, rep.Rows); err != nil {
			return err
		}
		pr.success("wrote %d rows to %s", len(rep.Rows), out)
	}
	if save && len(rep.Rows) > 0 {
		n, err := roster.Save(ctx, rep.RunID, rep.Rows)
		if err != nil {
			return fmt.Errorf("save to roster: %w", err)
		}
		pr.success("saved %d channels to the roster", n)
	}

	if fatal, ok := rep.Fatal(); ok {
		return errors.New(fatal.Text)
	}
	return nil
}

func printSearchReport(pr *printer, rep *scout.Report) {
	c := rep.Counters
	pr.info("candidates %d, enriched %d, passed filters %d, scored %d", c.Candidates, c.Enriched, c.BasicPass, c.Scored)
	pr.messages(rep.Messages)
	pr.quota(rep.QuotaUsed, rep.QuotaBudget)
}
