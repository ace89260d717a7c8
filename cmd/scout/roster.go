package main

import (
	"encoding/json"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the local creator roster",
	Long: `The roster is a SQLite file (ROSTER_PATH, default ~/.go_scout/roster.db)
holding creators saved by "scout search --save". Searches run with --roster
skip every channel it holds.`,
}

var rosterListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved creators",
	Long: `List saved creators, most recently updated first.

Examples:
  scout roster list
  scout roster list --status contacted --limit 20
  scout roster list --json`,
	Args: cobra.NoArgs,
	RunE: runRosterList,
}

var rosterUpdateCmd = &cobra.Command{
	Use:   "update <channel_id>",
	Short: "Set a creator's status or notes",
	Long: `Set the status (new, contacted, partner, declined) and/or notes of a
saved creator.

Examples:
  scout roster update UCX6OQ3DkcsbYNE6H8uQQuVA --status contacted
  scout roster update UCX6OQ3DkcsbYNE6H8uQQuVA --notes "replied, wants rates"`,
	Args: cobra.ExactArgs(1),
	RunE: runRosterUpdate,
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterListCmd, rosterUpdateCmd)

	rosterListCmd.Flags().String("status", "", "filter by status")
	rosterListCmd.Flags().Int("limit", 50, "max entries")
	rosterListCmd.Flags().Bool("json", false, "output as JSON")

	rosterUpdateCmd.Flags().String("status", "", "new, contacted, partner or declined")
	rosterUpdateCmd.Flags().String("notes", "", "free-form notes")
}

func runRosterList(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	r, err := openRoster()
	if err != nil {
		return err
	}
	defer r.Close()

	entries, total, err := r.List(cmd.Context(), scout.RosterFilter{Status: status, Limit: limit})
	if err != nil {
		return err
	}

	pr := newPrinter(cmd)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(pr.out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ChannelID,
			engine.TruncateRunes(e.Title, titleWidth, "…"),
			humanize.Comma(e.Subscribers),
			humanize.Comma(e.AvgViews),
			string(e.Status),
			engine.TruncateRunes(e.Notes, titleWidth, "…"),
		})
	}
	if err := pr.table([]string{"Channel ID", "Channel", "Subscribers", "Avg views", "Status", "Notes"}, rows); err != nil {
		return err
	}
	pr.info("%d of %d creators", len(entries), total)
	return nil
}

func runRosterUpdate(cmd *cobra.Command, args []string) error {
	status, _ := cmd.Flags().GetString("status")
	notes, _ := cmd.Flags().GetString("notes")

	r, err := openRoster()
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.SetStatus(cmd.Context(), args[0], status, notes); err != nil {
		return err
	}
	newPrinter(cmd).success("creator %s updated", args[0])
	return nil
}
