package scoutserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/toolutil"
)

// ChannelResolveOutput is the channel_resolve result.
type ChannelResolveOutput struct {
	Channel scout.ChannelRef  `json:"channel"`
	Quota   engine.QuotaUsage `json:"quota"`
}

// ChannelAverageOutput is the channel_trailing_average result.
type ChannelAverageOutput struct {
	Summary *scout.ChannelSummary `json:"summary"`
	Quota   engine.QuotaUsage     `json:"quota"`
}

func registerChannelResolve(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_resolve",
		Description: "Resolve a YouTube channel reference (channel ID, /channel/ URL, @handle, /@handle, /c/ or /user/ URL) to its canonical channel ID. IDs and /channel/ URLs are free; handles cost one search (100 units) plus one lookup.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ChannelResolveInput) (*mcp.CallToolResult, ChannelResolveOutput, error) {
		ref := strings.TrimSpace(input.Channel)
		if ref == "" {
			return nil, ChannelResolveOutput{}, errors.New("channel is required")
		}
		run := toolutil.NewRun(engine.Cfg.QuotaBudget, d.Log)
		cref, err := d.Service.LookupChannel(ctx, run, ref, input.Speculative)
		if err != nil {
			return nil, ChannelResolveOutput{}, err
		}
		return nil, ChannelResolveOutput{Channel: cref, Quota: usage(run)}, nil
	})
}

func registerChannelAverage(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "channel_trailing_average",
		Description: "Compute one channel's average views per video over the last N days, with its subscriber and lifetime view counts. Accepts a channel ID, URL or @handle.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ChannelAverageInput) (*mcp.CallToolResult, ChannelAverageOutput, error) {
		ref := strings.TrimSpace(input.Channel)
		if ref == "" {
			return nil, ChannelAverageOutput{}, errors.New("channel is required")
		}
		p := scout.DefaultParams()
		p.Keywords = []string{ref}
		p.WindowDays = input.WindowDays
		p.MaxVideosScan = input.MaxVideos
		if err := p.Normalize(); err != nil {
			return nil, ChannelAverageOutput{}, err
		}

		run := toolutil.NewRun(engine.Cfg.QuotaBudget, d.Log)
		sum, err := d.Service.ChannelAverage(ctx, run, ref, p.WindowDays, p.MaxVideosScan, input.VerifyOrder)
		if err != nil {
			return nil, ChannelAverageOutput{}, err
		}
		return nil, ChannelAverageOutput{Summary: sum, Quota: usage(run)}, nil
	})
}

func usage(run *engine.Run) engine.QuotaUsage {
	return engine.QuotaUsage{Used: run.Ledger.Used(), Budget: run.Ledger.Budget()}
}
