// Package scout discovers creator channels by keyword, enriches them with
// audience metrics, scores recent engagement and filters the result against
// an exclusion list, all under a per-run quota budget.
//
// Every upstream call goes through the run's ledger first. Stages run
// strictly in sequence and issue one call at a time.
package scout

import (
	"context"

	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

// Upstream is the platform API as the pipeline sees it.
// *sources.Client implements it.
type Upstream interface {
	Search(ctx context.Context, req sources.SearchRequest) (sources.SearchPage, error)
	Channels(ctx context.Context, ids []string) ([]sources.Channel, error)
	PlaylistItems(ctx context.Context, playlistID, pageToken string) (sources.PlaylistPage, error)
	Videos(ctx context.Context, ids []string) ([]sources.VideoStats, error)
}

// Service runs pipeline stages against an Upstream.
type Service struct {
	up Upstream
}

// NewService creates a Service.
func NewService(up Upstream) *Service {
	return &Service{up: up}
}

// chunk splits ids into consecutive groups of at most size.
func chunk(ids []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(ids); i += size {
		end := min(i+size, len(ids))
		out = append(out, ids[i:end])
	}
	return out
}
