// Package toolutil provides shared helpers for go_scout front-ends (MCP tools
// and the CLI): keyword parsing, input mapping and exclusion table assembly.
package toolutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/scout"
	"github.com/anatolykoptev/go_scout/internal/tabular"
)

// ParseKeywords splits raw on newlines, commas and semicolons.
// Blank entries are dropped; duplicates are removed case-insensitively.
func ParseKeywords(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == ';'
	})
	var out []string
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		k := strings.ToLower(f)
		if f == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// ParamsFromInput maps tool input onto scout params. Unset fields keep
// their defaults; nil thresholds keep the default, explicit zero disables.
func ParamsFromInput(in engine.CreatorSearchInput) scout.Params {
	p := scout.DefaultParams()
	p.Keywords = ParseKeywords(in.Keywords)
	p.Mode = scout.Mode(strings.ToLower(strings.TrimSpace(in.Mode)))
	p.MaxPages = in.MaxPages
	p.MaxCandidates = in.MaxCandidates
	p.WindowDays = in.WindowDays
	p.MaxVideosScan = in.MaxVideos
	setIf(&p.MinSubs, in.MinSubs)
	setIf(&p.MaxSubs, in.MaxSubs)
	setIf(&p.MinTotalViews, in.MinViews)
	setIf(&p.MinAvgViews, in.MinAvgViews)
	p.QuotaBudget = QuotaBudget(in.QuotaBudget)
	p.ResolveHandles = in.Resolve
	p.ResolveLimit = in.ResolveLimit
	p.AllowBareTokens = in.BareTokens
	p.SpeculativeHandles = !in.NoSpeculative
	p.VerifyFeedOrder = in.VerifyOrder
	p.MatchTitles = in.MatchTitles
	return p
}

func setIf(dst *int64, v *int64) {
	if v != nil {
		*dst = *v
	}
}

// QuotaBudget returns requested, or the configured default when zero.
func QuotaBudget(requested int) int {
	if requested > 0 {
		return requested
	}
	return engine.Cfg.QuotaBudget
}

// NewRun starts a run with budget units and a fresh L1 cache over the
// configured L2.
func NewRun(budget int, logger *slog.Logger) *engine.Run {
	return engine.NewRun(budget, engine.NewRunCache(), logger)
}

// ListTable builds a one-column exclusion table from free-form entries.
func ListTable(entries []string) scout.Table {
	t := scout.Table{Columns: []string{"link"}}
	for _, e := range entries {
		if strings.TrimSpace(e) != "" {
			t.Rows = append(t.Rows, []string{e})
		}
	}
	return t
}

// ExclusionSources says where exclusion tables come from.
type ExclusionSources struct {
	Entries  []string
	CSVPaths []string
	Roster   *scout.Roster // nil = not used
}

// ExclusionTables loads every configured source.
func ExclusionTables(ctx context.Context, src ExclusionSources) ([]scout.Table, error) {
	var tables []scout.Table
	if len(src.Entries) > 0 {
		tables = append(tables, ListTable(src.Entries))
	}
	for _, path := range src.CSVPaths {
		if path == "" {
			continue
		}
		t, err := tabular.ReadCSVFile(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if src.Roster != nil {
		t, err := src.Roster.Table(ctx)
		if err != nil {
			return nil, fmt.Errorf("load roster: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
