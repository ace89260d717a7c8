package scout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

var errUpstream = errors.New("upstream unavailable")

// testNow is the fixed clock used by test runs.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeUpstream serves canned pages keyed by request shape and counts calls.
type fakeUpstream struct {
	search    map[string]sources.SearchPage // query|type|token
	searchErr map[string]bool
	channels  map[string]sources.Channel
	chanErr   bool
	playlists map[string]sources.PlaylistPage // playlist|token
	videos    map[string]int64
	videosErr bool

	calls map[string]int
}

func newFake() *fakeUpstream {
	return &fakeUpstream{
		search:    make(map[string]sources.SearchPage),
		searchErr: make(map[string]bool),
		channels:  make(map[string]sources.Channel),
		playlists: make(map[string]sources.PlaylistPage),
		videos:    make(map[string]int64),
		calls:     make(map[string]int),
	}
}

func searchKey(q string, typ sources.SearchType, token string) string {
	return q + "|" + string(typ) + "|" + token
}

func (f *fakeUpstream) Search(_ context.Context, req sources.SearchRequest) (sources.SearchPage, error) {
	f.calls["search"]++
	k := searchKey(req.Query, req.Type, req.PageToken)
	if f.searchErr[k] {
		return sources.SearchPage{}, errUpstream
	}
	return f.search[k], nil
}

func (f *fakeUpstream) Channels(_ context.Context, ids []string) ([]sources.Channel, error) {
	f.calls["channels"]++
	if f.chanErr {
		return nil, errUpstream
	}
	var out []sources.Channel
	for _, id := range ids {
		if ch, ok := f.channels[id]; ok {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (f *fakeUpstream) PlaylistItems(_ context.Context, playlistID, pageToken string) (sources.PlaylistPage, error) {
	f.calls["playlistItems"]++
	p, ok := f.playlists[playlistID+"|"+pageToken]
	if !ok {
		return sources.PlaylistPage{}, errUpstream
	}
	return p, nil
}

func (f *fakeUpstream) Videos(_ context.Context, ids []string) ([]sources.VideoStats, error) {
	f.calls["videos"]++
	if f.videosErr {
		return nil, errUpstream
	}
	var out []sources.VideoStats
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			out = append(out, sources.VideoStats{ID: id, Views: v})
		}
	}
	return out, nil
}

// hits builds search hits from id/title pairs.
func hits(pairs ...string) []sources.SearchHit {
	var out []sources.SearchHit
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, sources.SearchHit{ChannelID: pairs[i], ChannelTitle: pairs[i+1]})
	}
	return out
}

// uploads registers a one-page feed whose videos were published daysAgo
// before testNow and have the given views.
func (f *fakeUpstream) uploads(ref string, daysAgo []int, views []int64) {
	var page sources.PlaylistPage
	for i, d := range daysAgo {
		id := ref + "-v" + string(rune('a'+i))
		page.Items = append(page.Items, sources.PlaylistItem{
			VideoID:     id,
			PublishedAt: testNow.Add(-time.Duration(d) * 24 * time.Hour),
		})
		f.videos[id] = views[i]
	}
	f.playlists[ref+"|"] = page
}

func testRun(t *testing.T, budget int) *engine.Run {
	t.Helper()
	run := engine.NewRun(budget, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	run.Now = func() time.Time { return testNow }
	return run
}

func ucID(s string) string {
	return "UC" + s + strings.Repeat("x", 22-len(s))
}
