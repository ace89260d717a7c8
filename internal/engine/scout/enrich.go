package scout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

// ChannelMetrics is an enriched candidate. Handle is lowercase without "@";
// Country is empty when unknown.
type ChannelMetrics struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle,omitempty"`
	Country     string `json:"country,omitempty"`
	UploadsRef  string `json:"uploads_ref"`
	Subscribers int64  `json:"subscribers"`
	Views       int64  `json:"views"`
}

// FetchMetrics enriches ids in batches of sources.MaxBatchSize, one charged
// call per batch. Channels without an uploads feed are omitted. A failed
// batch is skipped; its IDs are simply absent from the result.
func (s *Service) FetchMetrics(ctx context.Context, run *engine.Run, ids []string) (map[string]ChannelMetrics, error) {
	out := make(map[string]ChannelMetrics, len(ids))
	batches := chunk(ids, sources.MaxBatchSize)
	for i, batch := range batches {
		res, err := call(ctx, run, callSpec{
			op:    "channels",
			cost:  engine.CostChannels,
			label: fmt.Sprintf("channels batch %d/%d", i+1, len(batches)),
			key:   engine.CacheKey("channels", strings.Join(batch, ",")),
		}, func(ctx context.Context) ([]sources.Channel, error) {
			return s.up.Channels(ctx, batch)
		}, func(c []sources.Channel) bool { return len(c) == 0 })
		if err != nil {
			return out, err
		}
		if res.Status == StatusFailed {
			run.Log.Warn("metrics batch skipped", slog.Int("batch", i+1), slog.Int("size", len(batch)))
			continue
		}
		for _, ch := range res.Value {
			if ch.ID == "" || ch.UploadsPlaylistID == "" {
				continue
			}
			out[ch.ID] = ChannelMetrics{
				ID:          ch.ID,
				Title:       ch.Title,
				Handle:      NormalizeHandle(ch.Handle),
				Country:     ch.Country,
				UploadsRef:  ch.UploadsPlaylistID,
				Subscribers: ch.Subscribers,
				Views:       ch.Views,
			}
		}
	}
	run.Log.Debug("metrics fetched", slog.Int("requested", len(ids)), slog.Int("enriched", len(out)))
	return out, nil
}
