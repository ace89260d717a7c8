package scout

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_scout/internal/engine"
)

// Table is an already-materialized exclusion source: named columns and
// string cells. Short rows are padded with empty cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Cell returns row r, column c, or "" when absent.
func (t Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// ExclusionSet holds identities to omit from results. Read-only once built.
type ExclusionSet struct {
	byID     map[string]struct{}
	byHandle map[string]struct{}
	byTitle  map[string]struct{}
}

// NewExclusionSet returns an empty set.
func NewExclusionSet() *ExclusionSet {
	return &ExclusionSet{
		byID:     make(map[string]struct{}),
		byHandle: make(map[string]struct{}),
		byTitle:  make(map[string]struct{}),
	}
}

func (e *ExclusionSet) addID(id string)        { e.byID[id] = struct{}{} }
func (e *ExclusionSet) addHandle(h string)     { e.byHandle[NormalizeHandle(h)] = struct{}{} }
func (e *ExclusionSet) addTitle(t string)      { e.byTitle[engine.NormalizeTitle(t)] = struct{}{} }
func has(m map[string]struct{}, k string) bool { _, ok := m[k]; return ok }

// HasID reports whether id is excluded.
func (e *ExclusionSet) HasID(id string) bool {
	return e != nil && id != "" && has(e.byID, id)
}

// HasHandle reports whether handle is excluded (case-insensitive, "@" optional).
func (e *ExclusionSet) HasHandle(handle string) bool {
	h := NormalizeHandle(handle)
	return e != nil && h != "" && has(e.byHandle, h)
}

// HasTitle reports whether a display title is excluded after normalization.
func (e *ExclusionSet) HasTitle(title string) bool {
	t := engine.NormalizeTitle(title)
	return e != nil && t != "" && has(e.byTitle, t)
}

// Sizes returns the number of IDs, handles and titles held.
func (e *ExclusionSet) Sizes() (ids, handles, titles int) {
	if e == nil {
		return 0, 0, 0
	}
	return len(e.byID), len(e.byHandle), len(e.byTitle)
}

// ExclusionOptions controls how a table is read.
type ExclusionOptions struct {
	AllowBareTokens    bool // treat lone tokens as handle guesses
	ResolveHandles     bool // resolve handles to IDs through the API
	ResolveLimit       int  // max unique handles to resolve
	SpeculativeHandles bool // accept the top search hit when no handle matches exactly
	MatchTitles        bool // also exclude by display title; titles are not unique
}

// ExclusionStats summarizes what a table contributed.
type ExclusionStats struct {
	IDs        int `json:"ids"`
	FromLinks  int `json:"from_links"`
	Handles    int `json:"handles"`
	Titles     int `json:"titles"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
	Skipped    int `json:"skipped"`
}

type columnKind struct {
	title bool
}

var (
	idColumnTokens    = []string{"channel_id", "channel id", "channelid"}
	linkColumnTokens  = []string{"link", "url", "ссыл", "href"}
	titleColumnTokens = []string{"title", "name", "channel", "канал", "назван", "блогер", "имя"}
)

func classifyColumn(header string) columnKind {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "id" || containsAny(h, idColumnTokens) || containsAny(h, linkColumnTokens) {
		return columnKind{}
	}
	return columnKind{title: containsAny(h, titleColumnTokens)}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// BuildExclusionSets scans every cell of every table. Cells holding a
// canonical ID go to the ID set and cells holding a handle to the handle
// set. With MatchTitles, cells of title-like columns go to the title set.
// With ResolveHandles, up to ResolveLimit unique handles are also resolved
// to IDs.
//
// Only ledger exhaustion during resolution returns an error.
func (s *Service) BuildExclusionSets(ctx context.Context, run *engine.Run, opts ExclusionOptions, tables ...Table) (*ExclusionSet, ExclusionStats, error) {
	set := NewExclusionSet()
	var stats ExclusionStats
	var handles []string
	seenHandle := make(map[string]bool)

	for _, t := range tables {
		kinds := make([]columnKind, len(t.Columns))
		for i, c := range t.Columns {
			kinds[i] = classifyColumn(c)
		}
		for ci, kind := range kinds {
			for ri := range t.Rows {
				cell := strings.TrimSpace(t.Cell(ri, ci))
				if cell == "" {
					continue
				}
				matched := false
				if m, ok := ExtractCanonicalID(cell); ok {
					set.addID(m.Value)
					if m.Via == ViaChannelPath {
						stats.FromLinks++
					}
					matched = true
				} else if m, ok := ExtractHandle(cell, opts.AllowBareTokens); ok {
					set.addHandle(m.Value)
					if !seenHandle[m.Value] {
						seenHandle[m.Value] = true
						handles = append(handles, m.Value)
					}
					matched = true
				}
				if kind.title {
					if opts.MatchTitles {
						set.addTitle(cell)
					}
					matched = true
				}
				if !matched {
					stats.Skipped++
				}
			}
		}
	}

	if opts.ResolveHandles && len(handles) > 0 && s != nil {
		limit := opts.ResolveLimit
		if limit <= 0 || limit > len(handles) {
			limit = len(handles)
		}
		for _, h := range handles[:limit] {
			id, ok, err := s.ResolveHandle(ctx, run, h, opts.SpeculativeHandles)
			if err != nil {
				stats.IDs, stats.Handles, stats.Titles = set.Sizes()
				return set, stats, err
			}
			if ok {
				set.addID(id)
				stats.Resolved++
			} else {
				stats.Unresolved++
			}
		}
	}

	stats.IDs, stats.Handles, stats.Titles = set.Sizes()
	run.Log.Info("exclusion sets built",
		slog.Int("ids", stats.IDs), slog.Int("handles", stats.Handles), slog.Int("titles", stats.Titles),
		slog.Int("resolved", stats.Resolved), slog.Int("skipped", stats.Skipped))
	return set, stats, nil
}
