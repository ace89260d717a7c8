package scout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

var (
	chanA = ucID("alpha")
	chanB = ucID("bravo")
	chanC = ucID("charlie")
)

// unboxingFake serves one search page with videos by A, A and B.
func unboxingFake() *fakeUpstream {
	f := newFake()
	f.search[searchKey("unboxing", sources.SearchVideo, "")] = sources.SearchPage{
		Hits:          hits(chanA, "Alpha Unboxes", chanA, "Alpha again", chanB, "Bravo Tech"),
		NextPageToken: "next",
	}
	f.channels[chanA] = sources.Channel{
		ID: chanA, Title: "Alpha Unboxes", Handle: "AlphaUnboxes", Country: "US",
		UploadsPlaylistID: "UUalpha", Subscribers: 50_000, Views: 20_000,
	}
	f.channels[chanB] = sources.Channel{
		ID: chanB, Title: "Bravo Tech", Handle: "bravotech",
		UploadsPlaylistID: "UUbravo", Subscribers: 900_000, Views: 90_000_000,
	}
	f.uploads("UUalpha", []int{2, 9, 20}, []int64{1000, 2000, 3000})
	f.uploads("UUbravo", []int{1}, []int64{1_000_000})
	return f
}

func unboxingParams() Params {
	p := DefaultParams()
	p.Keywords = []string{"unboxing"}
	p.MaxPages = 1
	p.MaxCandidates = 2
	p.MinAvgViews = 1500
	return p
}

func TestRunUnboxingScenario(t *testing.T) {
	f := unboxingFake()
	run := testRun(t, 0)

	rep, err := NewService(f).Run(context.Background(), run, unboxingParams())
	require.NoError(t, err)

	assert.Equal(t, StageDone, rep.Stage)
	assert.Empty(t, rep.Stop)
	assert.Equal(t, 2, rep.Counters.Candidates)
	assert.Equal(t, 2, rep.Counters.Enriched)
	assert.Equal(t, 1, rep.Counters.BasicPass)
	require.Len(t, rep.Rows, 1)

	row := rep.Rows[0]
	assert.Equal(t, chanA, row.ChannelID)
	assert.Equal(t, "Alpha Unboxes", row.Title)
	assert.Equal(t, int64(2000), row.AvgViews)
	assert.Equal(t, 3, row.Samples)
	assert.Equal(t, int64(50_000), row.Subscribers)
	assert.Equal(t, int64(20_000), row.TotalViews)
	assert.Equal(t, "US", row.Country)
	assert.Equal(t, "https://www.youtube.com/channel/"+chanA, row.Link)

	assert.Equal(t, 1, f.calls["playlistItems"], "B is dropped before the average stage")
	assert.Equal(t, engine.CostSearch+engine.CostChannels+engine.CostPlaylistItems+engine.CostVideos, rep.QuotaUsed)
}

func TestRunQuotaScenario(t *testing.T) {
	f := unboxingFake()
	f.search[searchKey("gadgetguy", sources.SearchChannel, "")] = sources.SearchPage{Hits: hits(chanC, "Gadget Guy")}
	f.channels[chanC] = sources.Channel{ID: chanC, Handle: "gadgetguy", UploadsPlaylistID: "UUc"}

	p := unboxingParams()
	p.ResolveHandles = true
	exclusions := Table{Columns: []string{"link"}, Rows: [][]string{{"https://youtube.com/@gadgetguy"}}}

	run := testRun(t, 150)
	rep, err := NewService(f).Run(context.Background(), run, p, exclusions)
	require.Error(t, err)

	var qe *engine.QuotaExceededError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 101, qe.Used)
	assert.Equal(t, 150, qe.Budget)

	assert.Equal(t, StopQuotaExceeded, rep.Stop)
	assert.Equal(t, StageDiscovering, rep.Stage)
	assert.Equal(t, 101, rep.QuotaUsed)
	assert.Equal(t, 150, rep.QuotaBudget)
	assert.Empty(t, rep.Rows)
	fatal, ok := rep.Fatal()
	require.True(t, ok)
	assert.Contains(t, fatal.Text, "101 of 150")
	assert.Equal(t, 1, f.calls["search"], "the over-budget search is never issued")
}

func TestRunStops(t *testing.T) {
	t.Run("no keywords", func(t *testing.T) {
		f := newFake()
		rep, err := NewService(f).Run(context.Background(), testRun(t, 0), Params{Keywords: []string{" "}})
		require.NoError(t, err)
		assert.Equal(t, StopNoKeywords, rep.Stop)
		assert.Equal(t, StageIdle, rep.Stage)
		assert.Equal(t, 0, rep.QuotaUsed)
	})

	t.Run("no candidates", func(t *testing.T) {
		f := newFake()
		p := DefaultParams()
		p.Keywords = []string{"nothing"}
		rep, err := NewService(f).Run(context.Background(), testRun(t, 0), p)
		require.NoError(t, err)
		assert.Equal(t, StopNoCandidates, rep.Stop)
		assert.Equal(t, StageDiscovering, rep.Stage)
	})

	t.Run("no basic survivors", func(t *testing.T) {
		p := unboxingParams()
		p.MinSubs = 60_000
		p.MaxSubs = 100_000
		rep, err := NewService(unboxingFake()).Run(context.Background(), testRun(t, 0), p)
		require.NoError(t, err)
		assert.Equal(t, StopNoBasicSurvivors, rep.Stop)
		assert.Equal(t, StageFilteringBasic, rep.Stage)
		assert.Empty(t, rep.Rows)
	})

	t.Run("below average floor", func(t *testing.T) {
		p := unboxingParams()
		p.MinAvgViews = 5000
		rep, err := NewService(unboxingFake()).Run(context.Background(), testRun(t, 0), p)
		require.NoError(t, err)
		assert.Equal(t, StageDone, rep.Stage)
		assert.Equal(t, 1, rep.Counters.BelowAverageFloor)
		assert.Empty(t, rep.Rows)
	})
}

func TestRunAllCandidatesExcludedByID(t *testing.T) {
	f := unboxingFake()
	excl := Table{Columns: []string{"channel_id"}, Rows: [][]string{{chanA}, {"https://www.youtube.com/channel/" + chanB}}}

	rep, err := NewService(f).Run(context.Background(), testRun(t, 0), unboxingParams(), excl)
	require.NoError(t, err)
	assert.Equal(t, StageFilteringBasic, rep.Stage)
	assert.Equal(t, StopAllExcluded, rep.Stop)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, 2, rep.Counters.ExcludedBeforeEnrich)
	assert.Equal(t, 0, f.calls["channels"], "excluded ids are never enriched")
	assert.Contains(t, rep.Messages, Message{Level: LevelWarn, Text: "all candidates are already in the exclusion list"})
}

func TestRunExcludesByHandleAndTitle(t *testing.T) {
	f := unboxingFake()
	excl := Table{
		Columns: []string{"Blogger name", "Profile"},
		Rows: [][]string{
			{"", "@alphaunboxes"},
			{"BRAVO  tech", ""},
		},
	}
	p := unboxingParams()
	p.MaxSubs = 0 // no upper bound, so B would otherwise pass
	p.MatchTitles = true

	rep, err := NewService(f).Run(context.Background(), testRun(t, 0), p, excl)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Counters.ExcludedByHandle)
	assert.Equal(t, 1, rep.Counters.ExcludedByTitle)
	assert.Equal(t, StageFilteringBasic, rep.Stage)
	assert.Equal(t, StopAllExcluded, rep.Stop)
	assert.Contains(t, rep.Messages, Message{Level: LevelWarn, Text: "all candidates are already in the exclusion list"})
}

func TestRunTitleMatchIsOptIn(t *testing.T) {
	// Another channel saved under the same title as A.
	excl := Table{
		Columns: []string{"channel_id", "handle", "title", "link"},
		Rows: [][]string{
			{ucID("zulu"), "@zulu", "alpha unboxes", "https://www.youtube.com/channel/" + ucID("zulu")},
		},
	}

	t.Run("off by default", func(t *testing.T) {
		rep, err := NewService(unboxingFake()).Run(context.Background(), testRun(t, 0), unboxingParams(), excl)
		require.NoError(t, err)
		assert.Equal(t, StageDone, rep.Stage)
		assert.Empty(t, rep.Stop)
		require.Len(t, rep.Rows, 1)
		assert.Equal(t, chanA, rep.Rows[0].ChannelID)
		assert.Zero(t, rep.Counters.ExcludedByTitle)
	})

	t.Run("on request", func(t *testing.T) {
		p := unboxingParams()
		p.MatchTitles = true
		rep, err := NewService(unboxingFake()).Run(context.Background(), testRun(t, 0), p, excl)
		require.NoError(t, err)
		assert.Empty(t, rep.Rows)
		assert.Equal(t, 1, rep.Counters.ExcludedByTitle)
	})
}

func TestRunSortsRows(t *testing.T) {
	f := newFake()
	f.search[searchKey("kw", sources.SearchVideo, "")] = sources.SearchPage{
		Hits: hits(chanA, "A", chanB, "B", chanC, "C"),
	}
	for id, subs := range map[string]int64{chanA: 5_000, chanB: 8_000, chanC: 9_000} {
		f.channels[id] = sources.Channel{ID: id, Title: id, UploadsPlaylistID: "UU" + id, Subscribers: subs, Views: 50_000}
	}
	f.uploads("UU"+chanA, []int{1}, []int64{3000})
	f.uploads("UU"+chanB, []int{1}, []int64{9000})
	f.uploads("UU"+chanC, []int{1}, []int64{3000})

	p := DefaultParams()
	p.Keywords = []string{"kw"}
	rep, err := NewService(f).Run(context.Background(), testRun(t, 0), p)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)
	assert.Equal(t, []string{chanB, chanC, chanA},
		[]string{rep.Rows[0].ChannelID, rep.Rows[1].ChannelID, rep.Rows[2].ChannelID})
	assert.Equal(t, "N/A", rep.Rows[0].Country)
}

func TestRunInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Keywords = []string{"kw"}
	p.WindowDays = 365
	run := testRun(t, 0)
	rep, err := NewService(newFake()).Run(context.Background(), run, p)
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.Equal(t, 0, run.Ledger.Used())
}
