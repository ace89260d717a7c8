package scout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

// PeriodAverage is a trailing-window view average. Views is nil when no
// video fell in the window, which is not the same as an average of zero.
type PeriodAverage struct {
	Views           *int64 `json:"average_views"`
	Samples         int    `json:"samples"`
	Inspected       int    `json:"inspected"`
	OrderViolations int    `json:"order_violations,omitempty"`
}

// Value returns the average and whether there was one.
func (p PeriodAverage) Value() (int64, bool) {
	if p.Views == nil {
		return 0, false
	}
	return *p.Views, true
}

// ComputeTrailingAverage scans an upload feed newest-first and averages the
// views of videos published in the last windowDays days (inclusive bound).
//
// At most maxVideos feed items are inspected. Items without a timestamp
// count as inspected and are skipped. Without verifyOrder the scan stops at
// the first item older than the window, trusting the feed's ordering. With
// verifyOrder it keeps scanning up to maxVideos and counts out-of-order items.
func (s *Service) ComputeTrailingAverage(ctx context.Context, run *engine.Run, uploadsRef string, windowDays, maxVideos int, verifyOrder bool) (PeriodAverage, error) {
	var res PeriodAverage
	if uploadsRef == "" || windowDays <= 0 || maxVideos <= 0 {
		return res, nil
	}
	since := run.Now().Add(-time.Duration(windowDays) * 24 * time.Hour)

	ids, err := s.scanFeed(ctx, run, uploadsRef, since, maxVideos, verifyOrder, &res)
	if err != nil {
		return res, err
	}
	if len(ids) == 0 {
		return res, nil
	}

	var sum int64
	var n int
	batches := chunk(ids, sources.MaxBatchSize)
	for i, batch := range batches {
		out, err := call(ctx, run, callSpec{
			op:    "videos",
			cost:  engine.CostVideos,
			label: fmt.Sprintf("videos %s batch %d/%d", uploadsRef, i+1, len(batches)),
			key:   engine.CacheKey("videos", strings.Join(batch, ",")),
		}, func(ctx context.Context) ([]sources.VideoStats, error) {
			return s.up.Videos(ctx, batch)
		}, func(v []sources.VideoStats) bool { return len(v) == 0 })
		if err != nil {
			return res, err
		}
		if out.Status == StatusFailed {
			continue
		}
		for _, v := range out.Value {
			sum += v.Views
			n++
		}
	}

	if n == 0 {
		return res, nil
	}
	avg := sum / int64(n)
	res.Views = &avg
	res.Samples = n
	return res, nil
}

// scanFeed returns the in-window video IDs in feed order.
func (s *Service) scanFeed(ctx context.Context, run *engine.Run, ref string, since time.Time, maxVideos int, verifyOrder bool, res *PeriodAverage) ([]string, error) {
	var ids []string
	var prev time.Time
	token := ""
	for page := 1; ; page++ {
		out, err := call(ctx, run, callSpec{
			op:    "playlistItems",
			cost:  engine.CostPlaylistItems,
			label: fmt.Sprintf("uploads %s#%d", ref, page),
			key:   engine.CacheKey("playlistItems", ref, token),
		}, func(ctx context.Context) (sources.PlaylistPage, error) {
			return s.up.PlaylistItems(ctx, ref, token)
		}, func(p sources.PlaylistPage) bool { return len(p.Items) == 0 })
		if err != nil {
			return ids, err
		}
		if out.Status != StatusOK {
			return ids, nil
		}

		for _, item := range out.Value.Items {
			res.Inspected++
			ts := item.PublishedAt
			if !ts.IsZero() {
				if !prev.IsZero() && ts.After(prev) {
					res.OrderViolations++
					engine.RecordFeedOrderViolation()
				}
				prev = ts
				if ts.Before(since) {
					if !verifyOrder {
						return ids, nil
					}
				} else if item.VideoID != "" {
					ids = append(ids, item.VideoID)
				}
			}
			if res.Inspected >= maxVideos {
				s.logViolations(run, ref, res)
				return ids, nil
			}
		}

		token = out.Value.NextPageToken
		if token == "" {
			s.logViolations(run, ref, res)
			return ids, nil
		}
	}
}

func (s *Service) logViolations(run *engine.Run, ref string, res *PeriodAverage) {
	if res.OrderViolations > 0 {
		run.Log.Warn("upload feed not newest-first",
			slog.String("uploads", ref), slog.Int("violations", res.OrderViolations))
	}
}
