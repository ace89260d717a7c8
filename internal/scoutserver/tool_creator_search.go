package scoutserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/toolutil"
)

// CreatorSearchOutput is the creator_search result.
type CreatorSearchOutput struct {
	Report *scout.Report `json:"report"`
	Saved  int           `json:"saved_to_roster,omitempty"`
}

func registerCreatorSearch(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "creator_search",
		Description: "Find YouTube creators by keyword. Searches videos (or channels), enriches candidates with subscriber and view counts, drops channels outside the subscriber/view range, then scores each survivor by average views over recent uploads. Skips channels in the exclusion list (IDs, URLs, @handles, CSV, roster). Every run has a quota budget; a search page costs 100 units, other calls 1. Returns rows sorted by average views, with stage counters and status messages.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.CreatorSearchInput) (*mcp.CallToolResult, CreatorSearchOutput, error) {
		p := toolutil.ParamsFromInput(input)
		if len(p.Keywords) == 0 {
			return nil, CreatorSearchOutput{}, errors.New("keywords are required")
		}
		if input.UseRoster && d.Roster == nil {
			return nil, CreatorSearchOutput{}, errors.New("use_roster: roster is not configured")
		}

		src := toolutil.ExclusionSources{Entries: input.Exclude}
		if input.ExcludeCSV != "" {
			src.CSVPaths = []string{input.ExcludeCSV}
		}
		if input.UseRoster {
			src.Roster = d.Roster
		}
		tables, err := toolutil.ExclusionTables(ctx, src)
		if err != nil {
			return nil, CreatorSearchOutput{}, err
		}

		run := toolutil.NewRun(p.QuotaBudget, d.Log)
		rep, err := d.Service.Run(ctx, run, p, tables...)
		if err != nil && !engine.IsQuotaExceeded(err) {
			return nil, CreatorSearchOutput{}, err
		}
		out := CreatorSearchOutput{Report: rep}

		if input.SaveToRoster && d.Roster != nil && len(rep.Rows) > 0 {
			n, err := d.Roster.Save(ctx, rep.RunID, rep.Rows)
			if err != nil {
				d.Log.Warn("creator_search: roster save failed", slog.Any("error", err))
			}
			out.Saved = n
		}
		return nil, out, nil
	})
}
