package scout

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

// resolveSearchSize is how many channel search hits a handle lookup inspects.
const resolveSearchSize = 10

// ResolveHandle maps a handle to a canonical channel ID. It searches channels
// by name, then looks for a result whose own handle equals the input
// (case-insensitive). Without an exact match it returns the top search hit
// when speculative is true.
//
// Upstream failures yield ("", false, nil); only ledger exhaustion returns
// an error. Outcomes, including misses, are memoized on the run per mode.
func (s *Service) ResolveHandle(ctx context.Context, run *engine.Run, handle string, speculative bool) (string, bool, error) {
	h := NormalizeHandle(handle)
	if h == "" {
		return "", false, nil
	}
	if id, found, known := run.LookupHandle(h, speculative); known {
		return id, found, nil
	}

	id, found, err := s.resolveHandle(ctx, run, h, speculative)
	if err != nil {
		return "", false, err
	}
	run.RememberHandle(h, speculative, id, found)
	run.Log.Debug("handle resolved", slog.String("handle", h), slog.String("channel_id", id), slog.Bool("found", found))
	return id, found, nil
}

func (s *Service) resolveHandle(ctx context.Context, run *engine.Run, h string, speculative bool) (string, bool, error) {
	req := sources.SearchRequest{Query: h, Type: sources.SearchChannel, MaxResults: resolveSearchSize}
	search, err := call(ctx, run, callSpec{
		op:    "search",
		cost:  engine.CostSearch,
		label: "resolve @" + h,
		key:   engine.CacheKey("search", string(req.Type), h, "", "10"),
	}, func(ctx context.Context) (sources.SearchPage, error) {
		return s.up.Search(ctx, req)
	}, func(p sources.SearchPage) bool { return len(p.Hits) == 0 })
	if err != nil {
		return "", false, err
	}
	if search.Status != StatusOK {
		return "", false, nil
	}

	var ids []string
	seen := make(map[string]bool)
	for _, hit := range search.Value.Hits {
		if !seen[hit.ChannelID] {
			seen[hit.ChannelID] = true
			ids = append(ids, hit.ChannelID)
		}
	}
	if len(ids) > sources.MaxBatchSize {
		ids = ids[:sources.MaxBatchSize]
	}

	chans, err := call(ctx, run, callSpec{
		op:    "channels",
		cost:  engine.CostChannels,
		label: "resolve @" + h + " channels",
		key:   engine.CacheKey("channels", strings.Join(ids, ",")),
	}, func(ctx context.Context) ([]sources.Channel, error) {
		return s.up.Channels(ctx, ids)
	}, func(c []sources.Channel) bool { return len(c) == 0 })
	if err != nil {
		return "", false, err
	}
	if chans.Status == StatusFailed {
		return "", false, nil
	}

	for _, ch := range chans.Value {
		if NormalizeHandle(ch.Handle) == h {
			return ch.ID, true, nil
		}
	}
	if speculative {
		return ids[0], true, nil
	}
	return "", false, nil
}
