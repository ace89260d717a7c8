package scout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_scout/internal/engine"
)

// Run executes the full pipeline: exclusion sets, discovery per keyword,
// enrichment, basic filtering, trailing averages and assembly.
//
// Empty outcomes are reported through Report.Stop, not as errors. Invalid
// params return an error before any quota is spent. Quota exhaustion returns
// the report (Stop = quota_exceeded, one fatal message) together with the
// *engine.QuotaExceededError.
func (s *Service) Run(ctx context.Context, run *engine.Run, p Params, exclusions ...Table) (*Report, error) {
	if err := p.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	rep := &Report{RunID: run.ID, Stage: StageIdle, Rows: []ResultRow{}}
	err := engine.TrackOperation(ctx, "scout run", func(ctx context.Context) error {
		return s.run(ctx, run, p, exclusions, rep)
	})
	rep.QuotaUsed = run.Ledger.Used()
	rep.QuotaBudget = run.Ledger.Budget()

	var qe *engine.QuotaExceededError
	switch {
	case errors.As(err, &qe):
		rep.stopQuota(qe)
		engine.RecordRun("quota_exceeded")
	case err != nil:
		engine.RecordRun("error")
	case rep.Stop != "":
		engine.RecordRun("stopped")
	default:
		engine.RecordRun("done")
	}

	run.Log.Info("run finished",
		slog.String("stage", string(rep.Stage)), slog.String("stop", string(rep.Stop)),
		slog.Int("rows", len(rep.Rows)), slog.Int("quota_used", rep.QuotaUsed), slog.Int("quota_budget", rep.QuotaBudget))
	return rep, err
}

func (s *Service) run(ctx context.Context, run *engine.Run, p Params, exclusions []Table, rep *Report) error {
	if len(p.Keywords) == 0 {
		rep.stop(StopNoKeywords, "no keywords given")
		return nil
	}

	rep.Stage = StageNormalizing
	excl, stats, err := s.BuildExclusionSets(ctx, run, ExclusionOptions{
		AllowBareTokens:    p.AllowBareTokens,
		ResolveHandles:     p.ResolveHandles,
		ResolveLimit:       p.ResolveLimit,
		SpeculativeHandles: p.SpeculativeHandles,
		MatchTitles:        p.MatchTitles,
	}, exclusions...)
	rep.Exclusion = stats
	if err != nil {
		return err
	}
	if len(exclusions) > 0 {
		rep.info("exclusion list: %d ids (%d from links), %d handles, %d titles, %d cells skipped",
			stats.IDs, stats.FromLinks, stats.Handles, stats.Titles, stats.Skipped)
		if p.ResolveHandles && stats.Resolved+stats.Unresolved > 0 {
			rep.info("handles resolved: %d, unresolved: %d", stats.Resolved, stats.Unresolved)
		}
	}

	rep.Stage = StageDiscovering
	candidates := NewCandidateSet()
	for _, kw := range p.Keywords {
		found, err := s.SearchByKeyword(ctx, run, kw, p.MaxPages, p.MaxCandidates, p.Mode)
		candidates.Merge(found)
		if err != nil {
			return err
		}
		rep.info("keyword %q: %d channels", kw, found.Len())
	}
	rep.Counters.Candidates = candidates.Len()
	if candidates.Len() == 0 {
		rep.stop(StopNoCandidates, "search returned no channels")
		return nil
	}

	var ids []string
	for _, id := range candidates.IDs() {
		if excl.HasID(id) {
			rep.Counters.ExcludedBeforeEnrich++
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		rep.Stage = StageFilteringBasic
		rep.stop(StopAllExcluded, "all candidates are already in the exclusion list")
		return nil
	}

	rep.Stage = StageEnriching
	metrics, err := s.FetchMetrics(ctx, run, ids)
	if err != nil {
		return err
	}
	rep.Counters.Enriched = len(metrics)

	rep.Stage = StageFilteringBasic
	var survivors []ChannelMetrics
	for _, id := range ids {
		m, ok := metrics[id]
		if !ok {
			continue
		}
		switch {
		case excl.HasID(m.ID):
			rep.Counters.ExcludedByID++
			continue
		case excl.HasHandle(m.Handle):
			rep.Counters.ExcludedByHandle++
			continue
		case excl.HasTitle(m.Title) || excl.HasTitle(candidates.Title(id)):
			rep.Counters.ExcludedByTitle++
			continue
		}
		if !passesBasic(m, p) {
			continue
		}
		survivors = append(survivors, m)
	}
	rep.Counters.BasicPass = len(survivors)
	if len(survivors) == 0 {
		if n := rep.Counters.excludedAfterEnrich(); n > 0 && n == rep.Counters.Enriched {
			rep.stop(StopAllExcluded, "all candidates are already in the exclusion list")
		} else {
			rep.stop(StopNoBasicSurvivors, "no channels passed the subscriber and view filters")
		}
		return nil
	}
	run.Log.Info("basic filter applied", slog.Int("survivors", len(survivors)), slog.Int("enriched", len(metrics)))

	rep.Stage = StageScoringAverage
	var rows []ResultRow
	for _, m := range survivors {
		avg, err := s.ComputeTrailingAverage(ctx, run, m.UploadsRef, p.WindowDays, p.MaxVideosScan, p.VerifyFeedOrder)
		if err != nil {
			return err
		}
		v, ok := avg.Value()
		if !ok {
			rep.Counters.NoRecentVideos++
			continue
		}
		rep.Counters.Scored++
		if v < p.MinAvgViews {
			rep.Counters.BelowAverageFloor++
			continue
		}
		rows = append(rows, newRow(m, candidates.Title(m.ID), avg))
	}

	rep.Stage = StageAssembling
	rep.Rows = dedupeRows(rows)
	sortRows(rep.Rows)
	rep.Stage = StageDone
	if len(rep.Rows) == 0 {
		rep.info("no channels reached %d average views over %d days", p.MinAvgViews, p.WindowDays)
	} else {
		rep.info("%d channels found", len(rep.Rows))
	}
	return nil
}

func passesBasic(m ChannelMetrics, p Params) bool {
	if m.UploadsRef == "" {
		return false
	}
	if m.Subscribers < p.MinSubs || (p.MaxSubs > 0 && m.Subscribers > p.MaxSubs) {
		return false
	}
	return m.Views >= p.MinTotalViews
}

func dedupeRows(rows []ResultRow) []ResultRow {
	out := make([]ResultRow, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if seen[r.ChannelID] {
			continue
		}
		seen[r.ChannelID] = true
		out = append(out, r)
	}
	return out
}
