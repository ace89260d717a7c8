package scoutserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
)

// RosterListOutput is the creator_roster_list result.
type RosterListOutput struct {
	Creators []scout.RosterEntry `json:"creators"`
	Total    int                 `json:"total"`
}

func registerRosterList(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "creator_roster_list",
		Description: "List creators saved to the local roster (SQLite). Optionally filter by status: new, contacted, partner, declined. Sorted by most recently updated.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.RosterListInput) (*mcp.CallToolResult, RosterListOutput, error) {
		limit := input.Limit
		if limit > 500 {
			limit = 500
		}
		entries, total, err := d.Roster.List(ctx, scout.RosterFilter{Status: input.Status, Limit: limit})
		if err != nil {
			return nil, RosterListOutput{}, err
		}
		return nil, RosterListOutput{Creators: entries, Total: total}, nil
	})
}

func registerRosterUpdate(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "creator_roster_update",
		Description: "Update status or notes for a roster creator by channel ID. Status options: new, contacted, partner, declined. Get IDs from creator_roster_list.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.RosterUpdateInput) (*mcp.CallToolResult, engine.ToolMessage, error) {
		if input.ChannelID == "" {
			return nil, engine.ToolMessage{}, errors.New("channel_id is required")
		}
		if err := d.Roster.SetStatus(ctx, input.ChannelID, input.Status, input.Notes); err != nil {
			return nil, engine.ToolMessage{}, err
		}
		return nil, engine.ToolMessage{Message: fmt.Sprintf("Creator %s updated", input.ChannelID)}, nil
	})
}
