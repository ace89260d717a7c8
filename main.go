// go_scout: YouTube creator discovery MCP server.
//
// Exposes creator_search, channel_resolve and channel_trailing_average, plus
// creator_roster_list / creator_roster_update when the roster opens.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
	"github.com/anatolykoptev/go_scout/internal/scoutserver"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", slog.Any("error", err))
	}
	mcpPort := env.Str("MCP_PORT", "8893")

	initEngine()
	if engine.Cfg.YouTubeAPIKey == "" {
		slog.Warn("YOUTUBE_API_KEY is not set, upstream calls will fail")
	}

	deps := scoutserver.Deps{
		Service: scout.NewService(sources.NewClientFromConfig(engine.Cfg)),
		Log:     slog.Default(),
	}
	roster, err := scout.OpenRoster(engine.Cfg.RosterPath)
	if err != nil {
		slog.Warn("roster unavailable, roster tools disabled", slog.Any("error", err))
	} else {
		defer roster.Close()
		deps.Roster = roster
	}

	slog.Info("starting go_scout",
		slog.String("port", mcpPort),
		slog.Int("quota_budget", engine.Cfg.QuotaBudget),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_scout",
		Version: version,
	}, nil)

	n := scoutserver.RegisterTools(server, deps)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_scout",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.ConfigFromEnv()
	c.Redis = engine.OpenRedis(context.Background(), c.RedisURL)
	engine.Init(c)
}
