// Package scoutserver registers go_scout's MCP tools.
package scoutserver

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_scout/internal/engine/scout"
)

// Deps are the shared collaborators of every tool.
type Deps struct {
	Service *scout.Service
	Roster  *scout.Roster // nil disables roster tools and use_roster
	Log     *slog.Logger
}

// RegisterTools registers all tools on server and returns how many were added:
// creator_search, channel_resolve, channel_trailing_average and, with a
// roster, creator_roster_list / creator_roster_update.
func RegisterTools(server *mcp.Server, d Deps) int {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	n := 0
	registerCreatorSearch(server, d)
	registerChannelResolve(server, d)
	registerChannelAverage(server, d)
	n += 3
	if d.Roster != nil {
		registerRosterList(server, d)
		registerRosterUpdate(server, d)
		n += 2
	}
	return n
}
